package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
)

type VideoRepository struct {
	store *Store
}

func (r *VideoRepository) Create(_ context.Context, video *models.Video) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if video.ID == uuid.Nil {
		video.ID = uuid.New()
	}
	now := time.Now()
	video.CreatedAt = now
	video.UpdatedAt = now
	r.store.videos[video.ID] = *video
	return nil
}

func (r *VideoRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Video, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	video, ok := r.store.videos[id]
	if !ok {
		return nil, nil
	}
	return &video, nil
}

func (r *VideoRepository) List(_ context.Context, filter models.VideoFilter) ([]*models.Video, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	var matched []*models.Video
	for _, video := range r.store.videos {
		if filter.OnlyPublished && !video.IsPublished {
			continue
		}
		if filter.OwnerID != nil && video.OwnerID != *filter.OwnerID {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(video.Title), query) &&
			!strings.Contains(strings.ToLower(video.Description), query) {
			continue
		}
		v := video
		matched = append(matched, &v)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if filter.SortDesc {
			return videoLess(filter.SortBy, matched[j], matched[i])
		}
		return videoLess(filter.SortBy, matched[i], matched[j])
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []*models.Video{}, total, nil
	}
	end := len(matched)
	if filter.Limit > 0 && filter.Offset+filter.Limit < end {
		end = filter.Offset + filter.Limit
	}
	return matched[filter.Offset:end], total, nil
}

func videoLess(sortBy string, a, b *models.Video) bool {
	switch sortBy {
	case "views":
		return a.Views < b.Views
	case "duration":
		return a.Duration < b.Duration
	case "title":
		return a.Title < b.Title
	default:
		return a.CreatedAt.Before(b.CreatedAt)
	}
}

func (r *VideoRepository) Update(_ context.Context, video *models.Video) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	video.UpdatedAt = time.Now()
	r.store.videos[video.ID] = *video
	return nil
}

func (r *VideoRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.videos, id)
	return nil
}

func (r *VideoRepository) RecordView(_ context.Context, videoID, viewerID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	video, ok := r.store.videos[videoID]
	if !ok {
		return nil
	}
	if viewerID != uuid.Nil {
		r.store.nextHistoryID++
		r.store.history = append(r.store.history, models.WatchHistory{
			ID:        r.store.nextHistoryID,
			UserID:    viewerID,
			VideoID:   videoID,
			WatchedAt: time.Now(),
		})
	}
	video.Views++
	r.store.videos[videoID] = video
	return nil
}
