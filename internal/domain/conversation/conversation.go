package conversation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation belongs to one company and one tone. ToneID is set at creation
// and never updated.
type Conversation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_conversation_company_updated,priority:1" json:"company_id"`
	ToneID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tone_id"`
	Title     string    `gorm:"column:title;not null;default:''" json:"title"`
	Summary   string    `gorm:"column:summary;type:text;not null;default:''" json:"summary,omitempty"`

	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;index:idx_conversation_company_updated,priority:2" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Conversation) TableName() string { return "conversation" }

func (c *Conversation) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
