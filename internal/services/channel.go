package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/videotube/videotube/internal/apperr"
	"github.com/videotube/videotube/internal/models"
	"github.com/videotube/videotube/pkg/logger"
)

// ChannelService answers questions about the subscription graph: toggling
// edges, listing either side of a channel, building the viewer-relative
// channel profile and expanding a user's watch history.
type ChannelService struct {
	users         UserStore
	subscriptions SubscriptionStore
	history       WatchHistoryStore
	stats         *StatsCache
	producer      EventPublisher
	logger        *logger.Logger
}

func NewChannelService(
	users UserStore,
	subscriptions SubscriptionStore,
	history WatchHistoryStore,
	stats *StatsCache,
	producer EventPublisher,
	logger *logger.Logger,
) *ChannelService {
	return &ChannelService{
		users:         users,
		subscriptions: subscriptions,
		history:       history,
		stats:         stats,
		producer:      producer,
		logger:        logger,
	}
}

// GetChannelProfile resolves username case-insensitively and returns its
// profile as seen by viewerID. An empty viewerID is an anonymous viewer.
func (s *ChannelService) GetChannelProfile(ctx context.Context, username, viewerID string) (*models.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.BadRequest("Username is missing")
	}

	channel, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}
	if channel == nil {
		return nil, apperr.NotFound("Channel does not exist")
	}

	stats, err := s.channelStats(ctx, channel.ID)
	if err != nil {
		return nil, err
	}

	subscribed, err := s.viewerIsSubscribed(ctx, viewerID, channel.ID)
	if err != nil {
		return nil, err
	}

	return &models.ChannelProfile{
		FullName:                 channel.FullName,
		Username:                 channel.Username,
		SubscriberCount:          stats.SubscriberCount,
		ChannelSubscribedToCount: stats.SubscribedToCount,
		IsSubscribed:             subscribed,
		Avatar:                   channel.Avatar,
		CoverImage:               channel.CoverImage,
		Email:                    channel.Email,
	}, nil
}

func (s *ChannelService) channelStats(ctx context.Context, channelID uuid.UUID) (*ChannelStats, error) {
	if stats, ok := s.stats.Get(ctx, channelID); ok {
		return stats, nil
	}
	// Read before counting: a toggle that commits while we count bumps it
	// and makes the entry written below unreadable.
	generation, cacheable := s.stats.Generation(ctx, channelID)

	subscribers, err := s.subscriptions.CountSubscribers(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscribers: %w", err)
	}
	subscribedTo, err := s.subscriptions.CountSubscriptions(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	stats := &ChannelStats{SubscriberCount: subscribers, SubscribedToCount: subscribedTo}
	if cacheable {
		s.stats.Set(ctx, channelID, generation, stats)
	}
	return stats, nil
}

// viewerIsSubscribed looks for viewerID on the subscriber side of the edges
// pointing at channelID. Absent or malformed viewers are never subscribed.
func (s *ChannelService) viewerIsSubscribed(ctx context.Context, viewerID string, channelID uuid.UUID) (bool, error) {
	if viewerID == "" {
		return false, nil
	}
	viewer, err := uuid.Parse(viewerID)
	if err != nil {
		return false, nil
	}

	subscribed, err := s.subscriptions.IsSubscribed(ctx, viewer, channelID)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return subscribed, nil
}

// GetWatchHistory returns the viewer's watched videos, oldest first, each
// with its owner's public fields.
func (s *ChannelService) GetWatchHistory(ctx context.Context, viewerID string) ([]models.WatchHistoryEntry, error) {
	if viewerID == "" {
		return nil, apperr.Unauthorized("")
	}
	id, err := uuid.Parse(viewerID)
	if err != nil {
		return nil, apperr.InvalidReference("Invalid user id")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User does not exist")
	}

	entries, err := s.history.ListEntries(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch history: %w", err)
	}
	if entries == nil {
		entries = []models.WatchHistoryEntry{}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": viewerID,
		"entries": len(entries),
	}).Debug("Watch history fetched")

	return entries, nil
}
