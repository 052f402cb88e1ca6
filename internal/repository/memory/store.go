// Package memory holds in-memory versions of the repositories, used by tests
// that exercise services and handlers without a database.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
)

// Store is the shared state behind the in-memory repositories, so joins
// (subscription summaries, watch history owners) see one consistent view.
type Store struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]models.User
	subscriptions []models.Subscription
	videos        map[uuid.UUID]models.Video
	history       []models.WatchHistory
	tweets        map[uuid.UUID]models.Tweet
	tweetOrder    []uuid.UUID
	nextHistoryID uint64
}

func NewStore() *Store {
	return &Store{
		users:  make(map[uuid.UUID]models.User),
		videos: make(map[uuid.UUID]models.Video),
		tweets: make(map[uuid.UUID]models.Tweet),
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{store: s}
}

func (s *Store) Subscriptions() *SubscriptionRepository {
	return &SubscriptionRepository{store: s}
}

func (s *Store) Videos() *VideoRepository {
	return &VideoRepository{store: s}
}

func (s *Store) WatchHistory() *WatchHistoryRepository {
	return &WatchHistoryRepository{store: s}
}

func (s *Store) Tweets() *TweetRepository {
	return &TweetRepository{store: s}
}
