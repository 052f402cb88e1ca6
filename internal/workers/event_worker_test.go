package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/repository/memory"
	"github.com/videotube/videotube/internal/services"
	"github.com/videotube/videotube/pkg/logger"
	"github.com/videotube/videotube/pkg/queue"
)

func encodeEvent(t *testing.T, eventType queue.EventType, data interface{}) queue.Message {
	t.Helper()

	value, err := json.Marshal(queue.Event{Type: eventType, Timestamp: time.Now(), Data: data})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	return queue.Message{Key: "key", Value: value, Topic: "subscription-events"}
}

func TestSubscriptionEventInvalidatesBothEnds(t *testing.T) {
	ctx := context.Background()
	stats := services.NewStatsCache(memory.NewCache(), time.Minute, logger.Discard())
	worker := NewEventWorker(stats, logger.Discard())

	subscriber, channel, bystander := uuid.New(), uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{subscriber, channel, bystander} {
		generation, _ := stats.Generation(ctx, id)
		stats.Set(ctx, id, generation, &services.ChannelStats{SubscriberCount: 3})
	}

	for _, eventType := range []queue.EventType{queue.EventSubscriptionCreated, queue.EventSubscriptionDeleted} {
		msg := encodeEvent(t, eventType, queue.SubscriptionEventData{
			SubscriberID: subscriber.String(),
			ChannelID:    channel.String(),
			State:        "subscribed",
		})
		if err := worker.HandleMessage(ctx, msg); err != nil {
			t.Fatalf("%s: %v", eventType, err)
		}
	}

	if _, ok := stats.Get(ctx, subscriber); ok {
		t.Fatalf("subscriber stats should be gone")
	}
	if _, ok := stats.Get(ctx, channel); ok {
		t.Fatalf("channel stats should be gone")
	}
	if _, ok := stats.Get(ctx, bystander); !ok {
		t.Fatalf("unrelated stats should survive")
	}
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	worker := NewEventWorker(services.NewStatsCache(memory.NewCache(), time.Minute, logger.Discard()), logger.Discard())

	cases := []struct {
		name string
		msg  queue.Message
	}{
		{"not json", queue.Message{Value: []byte("{")}},
		{"no type", queue.Message{Value: []byte(`{"data":{}}`)}},
		{"bad channel id", encodeEvent(t, queue.EventSubscriptionCreated, queue.SubscriptionEventData{
			SubscriberID: uuid.NewString(),
			ChannelID:    "nope",
		})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := worker.HandleMessage(context.Background(), tc.msg); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestHandleMessageIgnoresOtherEvents(t *testing.T) {
	worker := NewEventWorker(nil, logger.Discard())

	for _, eventType := range []queue.EventType{queue.EventVideoViewed, "something_new"} {
		if err := worker.HandleMessage(context.Background(), encodeEvent(t, eventType, map[string]string{})); err != nil {
			t.Fatalf("%s: %v", eventType, err)
		}
	}
}

type fakeConsumer struct {
	messages []queue.Message
	err      error
}

func (f *fakeConsumer) Subscribe(ctx context.Context, handler func(context.Context, queue.Message) error) error {
	for _, msg := range f.messages {
		_ = handler(ctx, msg)
	}
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestStartStopsOnConsumerFailure(t *testing.T) {
	ctx := context.Background()
	stats := services.NewStatsCache(memory.NewCache(), time.Minute, logger.Discard())
	channel := uuid.New()
	stats.Set(ctx, channel, 0, &services.ChannelStats{})

	broken := errors.New("broker gone")
	worker := NewEventWorker(stats, logger.Discard(),
		&fakeConsumer{},
		&fakeConsumer{
			messages: []queue.Message{encodeEvent(t, queue.EventSubscriptionDeleted, queue.SubscriptionEventData{
				SubscriberID: uuid.NewString(),
				ChannelID:    channel.String(),
			})},
			err: broken,
		},
	)

	done := make(chan error, 1)
	go func() { done <- worker.Start(ctx) }()

	select {
	case err := <-done:
		if !errors.Is(err, broken) {
			t.Fatalf("expected broker error got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop")
	}
	if _, ok := stats.Get(ctx, channel); ok {
		t.Fatalf("message before the failure should have been handled")
	}
}
