package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/response"
	"github.com/videotube/videotube/internal/services"
	"github.com/videotube/videotube/pkg/logger"
)

type VideoHandler struct {
	videoService *services.VideoService
	logger       *logger.Logger
}

func NewVideoHandler(videoService *services.VideoService, logger *logger.Logger) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		logger:       logger,
	}
}

func (h *VideoHandler) Publish(c *gin.Context) {
	videoFile, videoSrc, err := formFile(c, "videoFile")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	defer closeFile(videoSrc)

	thumbnail, thumbSrc, err := formFile(c, "thumbnail")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	defer closeFile(thumbSrc)

	var duration float64
	if raw := c.PostForm("duration"); raw != "" {
		if duration, err = strconv.ParseFloat(raw, 64); err != nil {
			fail(c, h.logger, apperr.BadRequest("Duration must be a number"))
			return
		}
	}

	video, err := h.videoService.Publish(c.Request.Context(), middleware.GetUserID(c), &services.PublishVideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Duration:    duration,
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusCreated, video, "Video published successfully").Write(c)
}

func (h *VideoHandler) List(c *gin.Context) {
	page, err := h.videoService.List(c.Request.Context(), &services.ListVideosInput{
		Page:     queryInt(c, "page", 1),
		Limit:    queryInt(c, "limit", 10),
		Query:    c.Query("query"),
		SortBy:   c.Query("sortBy"),
		SortType: c.Query("sortType"),
		UserID:   c.Query("userId"),
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, page, "Videos fetched successfully").Write(c)
}

func (h *VideoHandler) GetByID(c *gin.Context) {
	video, err := h.videoService.GetByID(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, video, "Video fetched successfully").Write(c)
}

func (h *VideoHandler) Update(c *gin.Context) {
	thumbnail, src, err := formFile(c, "thumbnail")
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	defer closeFile(src)

	video, err := h.videoService.Update(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c), &services.UpdateVideoInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Thumbnail:   thumbnail,
	})
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, video, "Video updated successfully").Write(c)
}

func (h *VideoHandler) Delete(c *gin.Context) {
	if err := h.videoService.Delete(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c)); err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, nil, "Video deleted successfully").Write(c)
}

func (h *VideoHandler) TogglePublish(c *gin.Context) {
	video, err := h.videoService.TogglePublish(c.Request.Context(), c.Param("videoId"), middleware.GetUserID(c))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, video, "Publish status updated").Write(c)
}
