package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
)

type TweetRepository struct {
	store *Store
}

func (r *TweetRepository) Create(_ context.Context, tweet *models.Tweet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if tweet.ID == uuid.Nil {
		tweet.ID = uuid.New()
	}
	now := time.Now()
	tweet.CreatedAt = now
	tweet.UpdatedAt = now
	r.store.tweets[tweet.ID] = *tweet
	r.store.tweetOrder = append(r.store.tweetOrder, tweet.ID)
	return nil
}

func (r *TweetRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Tweet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	tweet, ok := r.store.tweets[id]
	if !ok {
		return nil, nil
	}
	return &tweet, nil
}

// GetByOwnerID returns the owner's tweets newest first.
func (r *TweetRepository) GetByOwnerID(_ context.Context, ownerID uuid.UUID, offset, limit int) ([]*models.Tweet, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var owned []*models.Tweet
	for i := len(r.store.tweetOrder) - 1; i >= 0; i-- {
		tweet, ok := r.store.tweets[r.store.tweetOrder[i]]
		if !ok || tweet.OwnerID != ownerID {
			continue
		}
		t := tweet
		owned = append(owned, &t)
	}

	if offset >= len(owned) {
		return []*models.Tweet{}, nil
	}
	end := len(owned)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return owned[offset:end], nil
}

func (r *TweetRepository) Update(_ context.Context, tweet *models.Tweet) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tweet.UpdatedAt = time.Now()
	r.store.tweets[tweet.ID] = *tweet
	return nil
}

func (r *TweetRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.tweets, id)
	return nil
}
