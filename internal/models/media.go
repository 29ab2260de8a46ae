package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Media attachment types.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// MediaAttachment is an uploaded image or video attached to a recipe.
// StoragePath is the object key in the media bucket; StorageURL is the
// public URL served to clients.
type MediaAttachment struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	RecipeID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"recipe_id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	MediaType    string         `gorm:"size:10;not null" json:"media_type"`
	StoragePath  string         `gorm:"size:255;not null" json:"storage_path"`
	StorageURL   string         `gorm:"size:255;not null" json:"storage_url"`
	ThumbnailURL string         `gorm:"size:255" json:"thumbnail_url"`
	FileName     string         `gorm:"size:255;not null" json:"file_name"`
	FileSize     int64          `gorm:"not null" json:"file_size"`
	Duration     *int           `json:"duration,omitempty"`
	Width        *int           `json:"width,omitempty"`
	Height       *int           `json:"height,omitempty"`
	OrderIndex   int            `gorm:"default:0" json:"order_index"`
}

func (MediaAttachment) TableName() string {
	return "media_attachments"
}

func (m *MediaAttachment) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
