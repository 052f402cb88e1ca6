package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/storage"
	"github.com/videotube/videotube/pkg/logger"
	"github.com/videotube/videotube/pkg/queue"
)

const (
	videoFolder     = "videos"
	thumbnailFolder = "thumbnails"

	minTitleLength       = 10
	minDescriptionLength = 10
)

type VideoService struct {
	videos   VideoStore
	history  WatchHistoryStore
	media    MediaStorage
	producer EventPublisher
	logger   *logger.Logger
}

func NewVideoService(videos VideoStore, history WatchHistoryStore, media MediaStorage, producer EventPublisher, logger *logger.Logger) *VideoService {
	return &VideoService{
		videos:   videos,
		history:  history,
		media:    media,
		producer: producer,
		logger:   logger,
	}
}

type PublishVideoInput struct {
	Title       string
	Description string
	Duration    float64
	VideoFile   *storage.File
	Thumbnail   *storage.File
}

type UpdateVideoInput struct {
	Title       string
	Description string
	Thumbnail   *storage.File
}

type ListVideosInput struct {
	Page     int
	Limit    int
	Query    string
	SortBy   string
	SortType string
	UserID   string
}

type VideoPage struct {
	Videos     []*models.Video `json:"videos"`
	Total      int64           `json:"totalVideos"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int64           `json:"totalPages"`
}

func validateVideoText(title, description string) error {
	if len(title) < minTitleLength {
		return apperr.BadRequest(fmt.Sprintf("Title must be at least %d characters", minTitleLength))
	}
	if len(description) < minDescriptionLength {
		return apperr.BadRequest(fmt.Sprintf("Description must be at least %d characters", minDescriptionLength))
	}
	return nil
}

func (s *VideoService) Publish(ctx context.Context, ownerID string, in *PublishVideoInput) (*models.Video, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid user id")
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if err := validateVideoText(title, description); err != nil {
		return nil, err
	}
	if in.VideoFile == nil {
		return nil, apperr.BadRequest("Video file is required")
	}
	if in.Thumbnail == nil {
		return nil, apperr.BadRequest("Thumbnail is required")
	}
	if in.Duration < 0 {
		return nil, apperr.BadRequest("Duration must not be negative")
	}

	videoURL, err := s.media.Upload(ctx, videoFolder, *in.VideoFile)
	if err != nil {
		return nil, apperr.Server("Failed to upload video", err)
	}
	thumbnailURL, err := s.media.Upload(ctx, thumbnailFolder, *in.Thumbnail)
	if err != nil {
		s.discardMedia(ctx, videoURL)
		return nil, apperr.Server("Failed to upload thumbnail", err)
	}

	video := &models.Video{
		OwnerID:     owner,
		VideoFile:   videoURL,
		Thumbnail:   thumbnailURL,
		Title:       title,
		Description: description,
		Duration:    in.Duration,
		IsPublished: true,
	}
	if err := s.videos.Create(ctx, video); err != nil {
		s.discardMedia(ctx, videoURL, thumbnailURL)
		return nil, fmt.Errorf("failed to create video: %w", err)
	}

	s.publish(ctx, queue.EventVideoPublished, video, "")
	s.logger.WithFields(logrus.Fields{
		"video_id": video.ID,
		"owner_id": ownerID,
	}).Info("Video published successfully")
	return video, nil
}

func (s *VideoService) List(ctx context.Context, in *ListVideosInput) (*VideoPage, error) {
	page, limit, offset := normalizePage(in.Page, in.Limit)

	filter := models.VideoFilter{
		Query:         strings.TrimSpace(in.Query),
		OnlyPublished: true,
		SortBy:        in.SortBy,
		SortDesc:      !strings.EqualFold(in.SortType, "asc"),
		Offset:        offset,
		Limit:         limit,
	}
	if in.UserID != "" {
		owner, err := uuid.Parse(in.UserID)
		if err != nil {
			return nil, apperr.InvalidReference("Invalid user id")
		}
		filter.OwnerID = &owner
	}

	videos, total, err := s.videos.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	if videos == nil {
		videos = []*models.Video{}
	}

	return &VideoPage{
		Videos:     videos,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

// GetByID returns a video, counting the view and recording it in the viewer's
// watch history. Unpublished videos are visible only to their owner.
func (s *VideoService) GetByID(ctx context.Context, videoID, viewerID string) (*models.Video, error) {
	video, err := s.getVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	var viewer uuid.UUID
	if viewerID != "" {
		if viewer, err = uuid.Parse(viewerID); err != nil {
			viewer = uuid.Nil
		}
	}
	if !video.IsPublished && viewer != video.OwnerID {
		return nil, apperr.NotFound("Video not found")
	}

	if err := s.videos.RecordView(ctx, video.ID, viewer); err != nil {
		return nil, fmt.Errorf("failed to record view: %w", err)
	}
	video.Views++

	s.publish(ctx, queue.EventVideoViewed, video, viewerID)
	return video, nil
}

func (s *VideoService) Update(ctx context.Context, videoID, userID string, in *UpdateVideoInput) (*models.Video, error) {
	video, err := s.getOwnedVideo(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if err := validateVideoText(title, description); err != nil {
		return nil, err
	}

	previousThumbnail := ""
	if in.Thumbnail != nil {
		url, err := s.media.Upload(ctx, thumbnailFolder, *in.Thumbnail)
		if err != nil {
			return nil, apperr.Server("Failed to upload thumbnail", err)
		}
		previousThumbnail = video.Thumbnail
		video.Thumbnail = url
	}

	video.Title = title
	video.Description = description
	if err := s.videos.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}
	s.discardMedia(ctx, previousThumbnail)

	s.logger.WithField("video_id", video.ID).Info("Video updated successfully")
	return video, nil
}

func (s *VideoService) Delete(ctx context.Context, videoID, userID string) error {
	video, err := s.getOwnedVideo(ctx, videoID, userID)
	if err != nil {
		return err
	}

	if err := s.videos.Delete(ctx, video.ID); err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if err := s.history.DeleteByVideoID(ctx, video.ID); err != nil {
		s.logger.WithError(err).WithField("video_id", video.ID).Warn("Failed to prune watch history")
	}
	s.discardMedia(ctx, video.VideoFile, video.Thumbnail)

	s.logger.WithField("video_id", video.ID).Info("Video deleted successfully")
	return nil
}

func (s *VideoService) TogglePublish(ctx context.Context, videoID, userID string) (*models.Video, error) {
	video, err := s.getOwnedVideo(ctx, videoID, userID)
	if err != nil {
		return nil, err
	}

	video.IsPublished = !video.IsPublished
	if err := s.videos.Update(ctx, video); err != nil {
		return nil, fmt.Errorf("failed to update video: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"video_id":     video.ID,
		"is_published": video.IsPublished,
	}).Info("Video publish status toggled")
	return video, nil
}

func (s *VideoService) getVideo(ctx context.Context, videoID string) (*models.Video, error) {
	id, err := uuid.Parse(videoID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid video id")
	}

	video, err := s.videos.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	if video == nil {
		return nil, apperr.NotFound("Video not found")
	}
	return video, nil
}

func (s *VideoService) getOwnedVideo(ctx context.Context, videoID, userID string) (*models.Video, error) {
	video, err := s.getVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video.OwnerID.String() != userID {
		return nil, apperr.Forbidden("You are not the owner of this video")
	}
	return video, nil
}

func (s *VideoService) discardMedia(ctx context.Context, urls ...string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.media.Delete(ctx, url); err != nil {
			s.logger.WithError(err).WithField("url", url).Warn("Failed to delete media")
		}
	}
}

func (s *VideoService) publish(ctx context.Context, eventType queue.EventType, video *models.Video, viewerID string) {
	event := queue.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data: queue.VideoEventData{
			VideoID: video.ID.String(),
			OwnerID: video.OwnerID.String(),
			UserID:  viewerID,
			Title:   video.Title,
		},
	}
	if err := s.producer.Publish(ctx, video.ID.String(), event); err != nil {
		s.logger.WithError(err).WithField("video_id", video.ID).Error("Failed to publish video event")
	}
}
