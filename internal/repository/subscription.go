package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/videotube/videotube/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Toggle flips the edge subscriberID -> channelID inside one transaction and
// reports whether the edge exists afterwards.
//
// The delete runs first so an existing edge is removed without a prior read.
// Otherwise the insert relies on the (subscriber_id, channel_id) unique index:
// if a concurrent toggle inserted the same edge, ON CONFLICT DO NOTHING leaves
// that row in place and both callers converge on "subscribed".
func (r *SubscriptionRepository) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	subscribed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
			Delete(&models.Subscription{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete subscription: %w", result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		subscription := &models.Subscription{
			SubscriberID: subscriberID,
			ChannelID:    channelID,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(subscription).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		subscribed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return subscribed, nil
}

// ListSubscribers returns the users whose edge points at channelID.
func (r *SubscriptionRepository) ListSubscribers(ctx context.Context, channelID uuid.UUID) ([]models.ChannelSummary, error) {
	subscribers := []models.ChannelSummary{}
	if err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("users.username, users.full_name").
		Joins("JOIN users ON users.id = subscriptions.subscriber_id").
		Where("subscriptions.channel_id = ?", channelID).
		Scan(&subscribers).Error; err != nil {
		return nil, fmt.Errorf("failed to get subscribers: %w", err)
	}
	return subscribers, nil
}

// ListSubscribedChannels returns the channels subscriberID follows.
func (r *SubscriptionRepository) ListSubscribedChannels(ctx context.Context, subscriberID uuid.UUID) ([]models.ChannelSummary, error) {
	channels := []models.ChannelSummary{}
	if err := r.db.WithContext(ctx).
		Table("subscriptions").
		Select("users.username, users.full_name").
		Joins("JOIN users ON users.id = subscriptions.channel_id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Scan(&channels).Error; err != nil {
		return nil, fmt.Errorf("failed to get subscribed channels: %w", err)
	}
	return channels, nil
}

func (r *SubscriptionRepository) CountSubscribers(ctx context.Context, channelID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("channel_id = ?", channelID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepository) CountSubscriptions(ctx context.Context, subscriberID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ?", subscriberID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count, nil
}

// IsSubscribed checks the subscriber side of the edges pointing at channelID.
func (r *SubscriptionRepository) IsSubscribed(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("channel_id = ? AND subscriber_id = ?", channelID, subscriberID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check subscription status: %w", err)
	}
	return count > 0, nil
}
