package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Video struct {
	ID          uuid.UUID `json:"_id" gorm:"type:uuid;primary_key"`
	OwnerID     uuid.UUID `json:"owner" gorm:"type:uuid;not null;index"`
	VideoFile   string    `json:"videoFile" gorm:"not null"`
	Thumbnail   string    `json:"thumbnail" gorm:"not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Duration    float64   `json:"duration"`
	Views       int64     `json:"views" gorm:"not null;default:0"`
	IsPublished bool      `json:"isPublished" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type Tweet struct {
	ID        uuid.UUID `json:"_id" gorm:"type:uuid;primary_key"`
	OwnerID   uuid.UUID `json:"owner" gorm:"type:uuid;not null;index"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (t *Tweet) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// VideoFilter drives the paginated video listing.
type VideoFilter struct {
	Query         string
	OwnerID       *uuid.UUID
	OnlyPublished bool
	SortBy        string
	SortDesc      bool
	Offset        int
	Limit         int
}

func (Video) TableName() string {
	return "videos"
}

func (Tweet) TableName() string {
	return "tweets"
}
