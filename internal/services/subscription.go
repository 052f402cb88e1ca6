package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/pkg/queue"
)

type SubscriptionState string

const (
	StateSubscribed   SubscriptionState = "subscribed"
	StateUnsubscribed SubscriptionState = "unsubscribed"
)

// ToggleSubscription creates the edge subscriberID -> channelID when it is
// absent and removes it otherwise. Calling it twice restores the original
// state.
func (s *ChannelService) ToggleSubscription(ctx context.Context, subscriberID, channelID string) (SubscriptionState, error) {
	subscriber, err := uuid.Parse(subscriberID)
	if err != nil {
		return "", apperr.InvalidReference("Invalid subscriber id")
	}
	channel, err := uuid.Parse(channelID)
	if err != nil {
		return "", apperr.InvalidReference("Invalid channel id")
	}

	if err := s.requireUser(ctx, channel, "Channel does not exist"); err != nil {
		return "", err
	}

	subscribed, err := s.subscriptions.Toggle(ctx, subscriber, channel)
	if err != nil {
		return "", fmt.Errorf("failed to toggle subscription: %w", err)
	}

	state := StateUnsubscribed
	eventType := queue.EventSubscriptionDeleted
	if subscribed {
		state = StateSubscribed
		eventType = queue.EventSubscriptionCreated
	}

	// The channel's in-degree and the subscriber's out-degree both changed.
	if err := s.stats.Invalidate(ctx, channel, subscriber); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate channel stats")
	}

	event := queue.Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data: queue.SubscriptionEventData{
			SubscriberID: subscriberID,
			ChannelID:    channelID,
			State:        string(state),
		},
	}
	if err := s.producer.Publish(ctx, channelID, event); err != nil {
		s.logger.WithError(err).Error("Failed to publish subscription event")
	}

	s.logger.WithFields(logrus.Fields{
		"subscriber_id": subscriberID,
		"channel_id":    channelID,
		"state":         state,
	}).Info("Subscription toggled")

	return state, nil
}

// ListSubscribers returns the public summaries of everyone subscribed to
// channelID.
func (s *ChannelService) ListSubscribers(ctx context.Context, channelID string) ([]models.ChannelSummary, error) {
	channel, err := uuid.Parse(channelID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid channel id")
	}
	if err := s.requireUser(ctx, channel, "Channel does not exist"); err != nil {
		return nil, err
	}

	subscribers, err := s.subscriptions.ListSubscribers(ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	if subscribers == nil {
		subscribers = []models.ChannelSummary{}
	}
	return subscribers, nil
}

// ListSubscribedChannels returns the public summaries of every channel
// subscriberID follows.
func (s *ChannelService) ListSubscribedChannels(ctx context.Context, subscriberID string) ([]models.ChannelSummary, error) {
	subscriber, err := uuid.Parse(subscriberID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid subscriber id")
	}
	if err := s.requireUser(ctx, subscriber, "Subscriber does not exist"); err != nil {
		return nil, err
	}

	channels, err := s.subscriptions.ListSubscribedChannels(ctx, subscriber)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed channels: %w", err)
	}
	if channels == nil {
		channels = []models.ChannelSummary{}
	}
	return channels, nil
}

func (s *ChannelService) requireUser(ctx context.Context, id uuid.UUID, notFound string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return apperr.NotFound(notFound)
	}
	return nil
}
