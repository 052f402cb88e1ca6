package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
	"gorm.io/gorm"
)

type WatchHistoryRepository struct {
	db *gorm.DB
}

func NewWatchHistoryRepository(db *gorm.DB) *WatchHistoryRepository {
	return &WatchHistoryRepository{db: db}
}

func (r *WatchHistoryRepository) Append(ctx context.Context, userID, videoID uuid.UUID) error {
	entry := &models.WatchHistory{
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append watch history: %w", err)
	}
	return nil
}

type watchHistoryRow struct {
	VideoID       uuid.UUID
	VideoFile     string
	Thumbnail     string
	Title         string
	Description   string
	Duration      float64
	Views         int64
	IsPublished   bool
	CreatedAt     time.Time
	OwnerUsername string
	OwnerFullName string
	OwnerAvatar   string
}

// ListEntries expands userID's history into videos with their owners, in the
// order the entries were appended. Entries whose video no longer exists are
// skipped.
func (r *WatchHistoryRepository) ListEntries(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error) {
	var rows []watchHistoryRow
	if err := r.db.WithContext(ctx).
		Table("watch_history").
		Select(`videos.id AS video_id, videos.video_file, videos.thumbnail, videos.title,
			videos.description, videos.duration, videos.views, videos.is_published, videos.created_at,
			users.username AS owner_username, users.full_name AS owner_full_name, users.avatar AS owner_avatar`).
		Joins("JOIN videos ON videos.id = watch_history.video_id").
		Joins("JOIN users ON users.id = videos.owner_id").
		Where("watch_history.user_id = ?", userID).
		Order("watch_history.id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}

	entries := make([]models.WatchHistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, models.WatchHistoryEntry{
			ID:          row.VideoID,
			VideoFile:   row.VideoFile,
			Thumbnail:   row.Thumbnail,
			Title:       row.Title,
			Description: row.Description,
			Duration:    row.Duration,
			Views:       row.Views,
			IsPublished: row.IsPublished,
			CreatedAt:   row.CreatedAt,
			Owner: models.OwnerSummary{
				Username: row.OwnerUsername,
				FullName: row.OwnerFullName,
				Avatar:   row.OwnerAvatar,
			},
		})
	}
	return entries, nil
}

func (r *WatchHistoryRepository) DeleteByVideoID(ctx context.Context, videoID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("video_id = ?", videoID).
		Delete(&models.WatchHistory{}).Error; err != nil {
		return fmt.Errorf("failed to delete watch history by video ID: %w", err)
	}
	return nil
}
