package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/response"
	"github.com/videotube/videotube/internal/services"
	"github.com/videotube/videotube/pkg/logger"
)

type TweetHandler struct {
	tweetService *services.TweetService
	logger       *logger.Logger
}

func NewTweetHandler(tweetService *services.TweetService, logger *logger.Logger) *TweetHandler {
	return &TweetHandler{
		tweetService: tweetService,
		logger:       logger,
	}
}

type tweetRequest struct {
	Content string `json:"content"`
}

func (h *TweetHandler) Create(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.logger, apperr.BadRequest("Invalid request body"))
		return
	}

	tweet, err := h.tweetService.Create(c.Request.Context(), middleware.GetUserID(c), req.Content)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusCreated, tweet, "Tweet created successfully").Write(c)
}

func (h *TweetHandler) ListByUser(c *gin.Context) {
	tweets, err := h.tweetService.ListByUser(c.Request.Context(), c.Param("userId"), queryInt(c, "page", 1), queryInt(c, "limit", 10))
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, tweets, "Tweets fetched successfully").Write(c)
}

func (h *TweetHandler) Update(c *gin.Context) {
	var req tweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, h.logger, apperr.BadRequest("Invalid request body"))
		return
	}

	tweet, err := h.tweetService.Update(c.Request.Context(), c.Param("tweetId"), middleware.GetUserID(c), req.Content)
	if err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, tweet, "Tweet updated successfully").Write(c)
}

func (h *TweetHandler) Delete(c *gin.Context) {
	if err := h.tweetService.Delete(c.Request.Context(), c.Param("tweetId"), middleware.GetUserID(c)); err != nil {
		fail(c, h.logger, err)
		return
	}
	response.Ok(http.StatusOK, nil, "Tweet deleted successfully").Write(c)
}
