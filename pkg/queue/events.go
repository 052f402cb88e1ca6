package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventUserCreated         EventType = "user_created"
	EventUserUpdated         EventType = "user_updated"
	EventSubscriptionCreated EventType = "subscription_created"
	EventSubscriptionDeleted EventType = "subscription_deleted"
	EventVideoPublished      EventType = "video_published"
	EventVideoViewed         EventType = "video_viewed"
	EventTweetCreated        EventType = "tweet_created"
)

type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// RawEvent is an Event whose payload has not been decoded yet.
type RawEvent struct {
	Type      EventType       `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

func DecodeEvent(value []byte) (*RawEvent, error) {
	var event RawEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("event without type")
	}
	return &event, nil
}

// DecodeData unmarshals the payload into dest.
func (e *RawEvent) DecodeData(dest interface{}) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no data", e.Type)
	}
	if err := json.Unmarshal(e.Data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s data: %w", e.Type, err)
	}
	return nil
}

type UserEventData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

type SubscriptionEventData struct {
	SubscriberID string `json:"subscriber_id"`
	ChannelID    string `json:"channel_id"`
	State        string `json:"state"`
}

type VideoEventData struct {
	VideoID string `json:"video_id"`
	OwnerID string `json:"owner_id"`
	UserID  string `json:"user_id,omitempty"`
	Title   string `json:"title,omitempty"`
}

type TweetEventData struct {
	TweetID string `json:"tweet_id"`
	OwnerID string `json:"owner_id"`
}
