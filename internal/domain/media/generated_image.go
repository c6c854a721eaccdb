package media

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GeneratedImage rows are hard-deleted when superseded; a partial unique index
// on conversation_id keeps at most one per conversation.
type GeneratedImage struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_generated_image_company_created,priority:1" json:"company_id"`
	ConversationID *uuid.UUID `gorm:"type:uuid" json:"conversation_id,omitempty"`

	Prompt      string `gorm:"column:prompt;type:text;not null" json:"prompt"`
	Width       int    `gorm:"column:width;not null" json:"width"`
	Height      int    `gorm:"column:height;not null" json:"height"`
	Seed        int64  `gorm:"column:seed;not null" json:"seed"`
	ModelID     string `gorm:"column:model_id;not null" json:"model_id"`
	StorageKey  string `gorm:"column:storage_key;not null" json:"-"`
	ContentType string `gorm:"column:content_type;not null" json:"content_type"`
	SizeBytes   int64  `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`

	CreatedAt time.Time `gorm:"not null;index:idx_generated_image_company_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (GeneratedImage) TableName() string { return "generated_image" }

func (g *GeneratedImage) BeforeCreate(*gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
