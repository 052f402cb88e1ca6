package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
)

type WatchHistoryRepository struct {
	store *Store
}

func (r *WatchHistoryRepository) Append(_ context.Context, userID, videoID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.nextHistoryID++
	r.store.history = append(r.store.history, models.WatchHistory{
		ID:        r.store.nextHistoryID,
		UserID:    userID,
		VideoID:   videoID,
		WatchedAt: time.Now(),
	})
	return nil
}

// ListEntries walks the history in append order, skipping entries whose video
// or owner is gone.
func (r *WatchHistoryRepository) ListEntries(_ context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := []models.WatchHistoryEntry{}
	for _, item := range r.store.history {
		if item.UserID != userID {
			continue
		}
		video, ok := r.store.videos[item.VideoID]
		if !ok {
			continue
		}
		owner, ok := r.store.users[video.OwnerID]
		if !ok {
			continue
		}
		entries = append(entries, models.WatchHistoryEntry{
			ID:          video.ID,
			VideoFile:   video.VideoFile,
			Thumbnail:   video.Thumbnail,
			Title:       video.Title,
			Description: video.Description,
			Duration:    video.Duration,
			Views:       video.Views,
			IsPublished: video.IsPublished,
			CreatedAt:   video.CreatedAt,
			Owner: models.OwnerSummary{
				Username: owner.Username,
				FullName: owner.FullName,
				Avatar:   owner.Avatar,
			},
		})
	}
	return entries, nil
}

func (r *WatchHistoryRepository) DeleteByVideoID(_ context.Context, videoID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := r.store.history[:0]
	for _, item := range r.store.history {
		if item.VideoID != videoID {
			kept = append(kept, item)
		}
	}
	r.store.history = kept
	return nil
}
