package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
	"gorm.io/gorm"
)

var videoSortColumns = map[string]string{
	"createdAt": "created_at",
	"views":     "views",
	"duration":  "duration",
	"title":     "title",
}

type VideoRepository struct {
	db *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Create(video).Error; err != nil {
		return fmt.Errorf("failed to create video: %w", err)
	}
	return nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	if err := r.db.WithContext(ctx).First(&video, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get video: %w", err)
	}
	return &video, nil
}

// List returns one page of videos and the total number matching the filter.
func (r *VideoRepository) List(ctx context.Context, filter models.VideoFilter) ([]*models.Video, int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Video{})

	if filter.OnlyPublished {
		db = db.Where("is_published = ?", true)
	}
	if filter.OwnerID != nil {
		db = db.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		db = db.Where("(title LIKE ? OR description LIKE ?)", pattern, pattern)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count videos: %w", err)
	}

	column, ok := videoSortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var videos []*models.Video
	if err := db.
		Order(column + " " + direction).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&videos).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, total, nil
}

func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	if err := r.db.WithContext(ctx).Save(video).Error; err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Delete(&models.Video{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	return nil
}

// RecordView counts one view of videoID and, unless viewerID is uuid.Nil,
// appends the video to the viewer's watch history in the same transaction.
func (r *VideoRepository) RecordView(ctx context.Context, videoID, viewerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if viewerID != uuid.Nil {
			entry := &models.WatchHistory{
				UserID:    viewerID,
				VideoID:   videoID,
				WatchedAt: time.Now(),
			}
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to append watch history: %w", err)
			}
		}

		if err := tx.Model(&models.Video{}).
			Where("id = ?", videoID).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
			return fmt.Errorf("failed to update view count: %w", err)
		}
		return nil
	})
}
