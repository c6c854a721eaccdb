package tenant

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tone is a named set of style instructions owned by one company.
type Tone struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_tone_company_name,priority:1" json:"company_id"`
	Name         string    `gorm:"column:name;not null;uniqueIndex:idx_tone_company_name,priority:2" json:"name"`
	Instructions string    `gorm:"column:instructions;type:text;not null;default:''" json:"instructions"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Tone) TableName() string { return "tone" }

func (t *Tone) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
