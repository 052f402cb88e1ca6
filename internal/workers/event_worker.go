package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/videotube/videotube/internal/services"
	"github.com/videotube/videotube/pkg/logger"
	"github.com/videotube/videotube/pkg/queue"
)

// Consumer is the read side of a topic.
type Consumer interface {
	Subscribe(ctx context.Context, handler func(context.Context, queue.Message) error) error
}

// EventWorker reacts to domain events published by the API. Subscription
// events drop the cached channel stats of both ends of the edge so replicas
// that did not serve the toggle stop returning stale counts.
type EventWorker struct {
	consumers []Consumer
	stats     *services.StatsCache
	logger    *logger.Logger
}

func NewEventWorker(stats *services.StatsCache, logger *logger.Logger, consumers ...Consumer) *EventWorker {
	return &EventWorker{
		consumers: consumers,
		stats:     stats,
		logger:    logger,
	}
}

// Start consumes every topic until ctx is cancelled. It returns the first
// consumer failure that is not a cancellation.
func (w *EventWorker) Start(ctx context.Context) error {
	w.logger.WithField("consumers", len(w.consumers)).Info("Starting event worker...")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for _, consumer := range w.consumers {
		wg.Add(1)
		go func(consumer Consumer) {
			defer wg.Done()
			err := consumer.Subscribe(ctx, w.HandleMessage)
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}
			once.Do(func() {
				firstErr = err
				cancel()
			})
		}(consumer)
	}
	wg.Wait()

	return firstErr
}

func (w *EventWorker) HandleMessage(ctx context.Context, msg queue.Message) error {
	event, err := queue.DecodeEvent(msg.Value)
	if err != nil {
		return err
	}

	entry := w.logger.WithFields(logrus.Fields{
		"event_type": event.Type,
		"topic":      msg.Topic,
		"key":        msg.Key,
	})
	entry.Debug("Processing event")

	switch event.Type {
	case queue.EventSubscriptionCreated, queue.EventSubscriptionDeleted:
		return w.handleSubscriptionChanged(ctx, event)
	case queue.EventUserCreated, queue.EventUserUpdated,
		queue.EventVideoPublished, queue.EventVideoViewed,
		queue.EventTweetCreated:
		entry.Info("Event observed")
		return nil
	default:
		entry.Warn("Unknown event type")
		return nil
	}
}

func (w *EventWorker) handleSubscriptionChanged(ctx context.Context, event *queue.RawEvent) error {
	var data queue.SubscriptionEventData
	if err := event.DecodeData(&data); err != nil {
		return err
	}

	subscriberID, err := uuid.Parse(data.SubscriberID)
	if err != nil {
		return fmt.Errorf("invalid subscriber_id in %s: %w", event.Type, err)
	}
	channelID, err := uuid.Parse(data.ChannelID)
	if err != nil {
		return fmt.Errorf("invalid channel_id in %s: %w", event.Type, err)
	}

	if err := w.stats.Invalidate(ctx, channelID, subscriberID); err != nil {
		return err
	}

	w.logger.WithFields(logrus.Fields{
		"subscriber_id": subscriberID,
		"channel_id":    channelID,
		"state":         data.State,
	}).Info("Channel stats invalidated")
	return nil
}
