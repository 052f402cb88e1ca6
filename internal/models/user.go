package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `json:"_id" gorm:"type:uuid;primary_key"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	FullName     string    `json:"fullName" gorm:"not null"`
	Avatar       string    `json:"avatar" gorm:"not null"`
	CoverImage   string    `json:"coverImage"`
	Password     string    `json:"-" gorm:"not null"`
	RefreshToken string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Subscription is a directed edge: SubscriberID follows ChannelID.
// The composite unique index allows at most one edge per ordered pair.
type Subscription struct {
	ID           uuid.UUID `json:"_id" gorm:"type:uuid;primary_key"`
	SubscriberID uuid.UUID `json:"subscriber" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel,priority:1"`
	ChannelID    uuid.UUID `json:"channel" gorm:"type:uuid;not null;uniqueIndex:idx_subscriber_channel,priority:2;index:idx_subscriptions_channel"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// WatchHistory is one append-only entry of a user's watch history. The
// auto-increment ID is the ordering key.
type WatchHistory struct {
	ID        uint64    `json:"-" gorm:"primaryKey;autoIncrement"`
	UserID    uuid.UUID `json:"-" gorm:"type:uuid;not null;index"`
	VideoID   uuid.UUID `json:"videoId" gorm:"type:uuid;not null"`
	WatchedAt time.Time `json:"watchedAt"`
}

// ChannelSummary is the public projection of a user in subscription lists.
type ChannelSummary struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// ChannelProfile is computed per request and never stored.
type ChannelProfile struct {
	FullName                 string `json:"fullName"`
	Username                 string `json:"username"`
	SubscriberCount          int64  `json:"subscriberCount"`
	ChannelSubscribedToCount int64  `json:"channelSubscribedToCount"`
	IsSubscribed             bool   `json:"isSubscribed"`
	Avatar                   string `json:"avatar"`
	CoverImage               string `json:"coverImage"`
	Email                    string `json:"email"`
}

type OwnerSummary struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

// WatchHistoryEntry is a watched video with its owner's public fields embedded.
type WatchHistoryEntry struct {
	ID          uuid.UUID    `json:"_id"`
	VideoFile   string       `json:"videoFile"`
	Thumbnail   string       `json:"thumbnail"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Duration    float64      `json:"duration"`
	Views       int64        `json:"views"`
	IsPublished bool         `json:"isPublished"`
	CreatedAt   time.Time    `json:"createdAt"`
	Owner       OwnerSummary `json:"owner"`
}

func (User) TableName() string {
	return "users"
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (WatchHistory) TableName() string {
	return "watch_history"
}
