package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/pkg/cache"
	"github.com/videotube/videotube/pkg/logger"
)

const (
	channelStatsKeyPrefix        = "channel_stats:"
	channelStatsGenerationPrefix = "channel_stats_gen:"
)

// ChannelStats holds the viewer-independent half of a channel profile.
type ChannelStats struct {
	SubscriberCount   int64 `json:"subscriber_count"`
	SubscribedToCount int64 `json:"subscribed_to_count"`
}

// statsEntry is what gets stored: the counts plus the generation that was
// current before they were computed.
type statsEntry struct {
	ChannelStats
	Generation int64 `json:"generation"`
}

// StatsCache keeps ChannelStats per channel id. A nil *StatsCache or a nil
// backing cache disables caching.
//
// Every channel has a generation counter that Invalidate bumps. An entry is
// only served while its generation is still current, so counts computed
// before a concurrent toggle can be written but never read back.
type StatsCache struct {
	cache  Cache
	ttl    time.Duration
	logger *logger.Logger
}

func NewStatsCache(c Cache, ttl time.Duration, logger *logger.Logger) *StatsCache {
	return &StatsCache{cache: c, ttl: ttl, logger: logger}
}

func channelStatsKey(channelID uuid.UUID) string {
	return fmt.Sprintf("%s%s", channelStatsKeyPrefix, channelID)
}

func channelStatsGenerationKey(channelID uuid.UUID) string {
	return fmt.Sprintf("%s%s", channelStatsGenerationPrefix, channelID)
}

func (c *StatsCache) enabled() bool {
	return c != nil && c.cache != nil && c.ttl > 0
}

// Generation returns the channel's current generation. ok is false when the
// counter cannot be read, in which case nothing should be cached.
func (c *StatsCache) Generation(ctx context.Context, channelID uuid.UUID) (int64, bool) {
	if !c.enabled() {
		return 0, false
	}

	var generation int64
	if err := c.cache.GetJSON(ctx, channelStatsGenerationKey(channelID), &generation); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return 0, true
		}
		c.logger.WithError(err).WithField("channel_id", channelID).Warn("Failed to read channel stats generation")
		return 0, false
	}
	return generation, true
}

// Get reports a hit only for a readable entry of the current generation;
// read failures count as misses.
func (c *StatsCache) Get(ctx context.Context, channelID uuid.UUID) (*ChannelStats, bool) {
	if !c.enabled() {
		return nil, false
	}

	var entry statsEntry
	if err := c.cache.GetJSON(ctx, channelStatsKey(channelID), &entry); err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.WithError(err).WithField("channel_id", channelID).Warn("Failed to read channel stats from cache")
		}
		return nil, false
	}

	generation, ok := c.Generation(ctx, channelID)
	if !ok || generation != entry.Generation {
		return nil, false
	}
	return &entry.ChannelStats, true
}

// Set stores stats computed after reading generation.
func (c *StatsCache) Set(ctx context.Context, channelID uuid.UUID, generation int64, stats *ChannelStats) {
	if !c.enabled() {
		return
	}
	entry := statsEntry{ChannelStats: *stats, Generation: generation}
	if err := c.cache.SetJSON(ctx, channelStatsKey(channelID), entry, c.ttl); err != nil {
		c.logger.WithError(err).WithField("channel_id", channelID).Warn("Failed to cache channel stats")
	}
}

// Invalidate bumps the generation of every channel and drops their entries.
// Generation counters carry no TTL.
func (c *StatsCache) Invalidate(ctx context.Context, channelIDs ...uuid.UUID) error {
	if !c.enabled() || len(channelIDs) == 0 {
		return nil
	}

	var firstErr error
	keys := make([]string, 0, len(channelIDs))
	for _, id := range channelIDs {
		if _, err := c.cache.Incr(ctx, channelStatsGenerationKey(id)); err != nil && firstErr == nil {
			firstErr = err
		}
		keys = append(keys, channelStatsKey(id))
	}
	if err := c.cache.Delete(ctx, keys...); err != nil && firstErr == nil {
		firstErr = err
	}
	if firstErr != nil {
		return fmt.Errorf("failed to invalidate channel stats: %w", firstErr)
	}
	return nil
}
