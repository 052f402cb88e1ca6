package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/models"
)

type SubscriptionRepository struct {
	store *Store
}

// Toggle runs under the store's write lock, so concurrent toggles of one
// pair serialize the same way the database transaction does.
func (r *SubscriptionRepository) Toggle(_ context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, edge := range r.store.subscriptions {
		if edge.SubscriberID == subscriberID && edge.ChannelID == channelID {
			r.store.subscriptions = append(r.store.subscriptions[:i], r.store.subscriptions[i+1:]...)
			return false, nil
		}
	}

	r.store.subscriptions = append(r.store.subscriptions, models.Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
	})
	return true, nil
}

func (r *SubscriptionRepository) ListSubscribers(_ context.Context, channelID uuid.UUID) ([]models.ChannelSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	summaries := []models.ChannelSummary{}
	for _, edge := range r.store.subscriptions {
		if edge.ChannelID != channelID {
			continue
		}
		if user, ok := r.store.users[edge.SubscriberID]; ok {
			summaries = append(summaries, models.ChannelSummary{Username: user.Username, FullName: user.FullName})
		}
	}
	return summaries, nil
}

func (r *SubscriptionRepository) ListSubscribedChannels(_ context.Context, subscriberID uuid.UUID) ([]models.ChannelSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	summaries := []models.ChannelSummary{}
	for _, edge := range r.store.subscriptions {
		if edge.SubscriberID != subscriberID {
			continue
		}
		if user, ok := r.store.users[edge.ChannelID]; ok {
			summaries = append(summaries, models.ChannelSummary{Username: user.Username, FullName: user.FullName})
		}
	}
	return summaries, nil
}

func (r *SubscriptionRepository) CountSubscribers(_ context.Context, channelID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, edge := range r.store.subscriptions {
		if edge.ChannelID == channelID {
			count++
		}
	}
	return count, nil
}

func (r *SubscriptionRepository) CountSubscriptions(_ context.Context, subscriberID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, edge := range r.store.subscriptions {
		if edge.SubscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}

func (r *SubscriptionRepository) IsSubscribed(_ context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, edge := range r.store.subscriptions {
		if edge.ChannelID == channelID && edge.SubscriberID == subscriberID {
			return true, nil
		}
	}
	return false, nil
}
