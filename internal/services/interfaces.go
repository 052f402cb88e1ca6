package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/internal/storage"
)

// The store interfaces are satisfied by the gorm repositories in
// internal/repository and by the in-memory ones in internal/repository/memory.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type SubscriptionStore interface {
	Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
	ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.ChannelSummary, error)
	ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.ChannelSummary, error)
	CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error)
	CountSubscriptions(ctx context.Context, subscriberID uuid.UUID) (int64, error)
	IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)
}

type VideoStore interface {
	Create(ctx context.Context, video *models.Video) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error)
	List(ctx context.Context, filter models.VideoFilter) ([]*models.Video, int64, error)
	Update(ctx context.Context, video *models.Video) error
	Delete(ctx context.Context, id uuid.UUID) error
	// RecordView counts a view and, for a known viewer, appends it to their
	// watch history. Both happen or neither does.
	RecordView(ctx context.Context, videoID, viewerID uuid.UUID) error
}

type WatchHistoryStore interface {
	ListEntries(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error)
	DeleteByVideoID(ctx context.Context, videoID uuid.UUID) error
}

type TweetStore interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tweet, error)
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.Tweet, error)
	Update(ctx context.Context, tweet *models.Tweet) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Cache is the subset of pkg/cache.RedisClient the services use. GetJSON
// returns cache.ErrMiss for absent keys.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, value interface{}) error
}

type MediaStorage interface {
	Upload(ctx context.Context, folder string, file storage.File) (string, error)
	Delete(ctx context.Context, url string) error
}
