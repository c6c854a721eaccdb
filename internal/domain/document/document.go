package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusFailed }

// Document is an uploaded file and the attributes extracted from it.
// ContentHash is the hex SHA-256 of the full upload and is unique per company
// among live rows (see the partial index in data/db).
type Document struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;index:idx_document_company_created,priority:1" json:"company_id"`
	Filename    string    `gorm:"column:filename;not null;default:''" json:"filename"`
	MimeType    string    `gorm:"column:mime_type;not null" json:"mime_type"`
	SizeBytes   int64     `gorm:"column:size_bytes;not null;default:0" json:"size_bytes"`
	ContentHash string    `gorm:"column:content_hash;not null" json:"content_hash"`
	StorageKey  string    `gorm:"column:storage_key;not null" json:"-"`

	Status        Status         `gorm:"column:status;not null;index" json:"status"`
	DocType       string         `gorm:"column:doc_type;not null;default:''" json:"doc_type,omitempty"`
	ExtractedData datatypes.JSON `gorm:"column:extracted_data;type:jsonb" json:"extracted_data,omitempty"`
	Attempts      int            `gorm:"column:attempts;not null;default:0" json:"attempts"`

	CreatedAt time.Time      `gorm:"not null;index:idx_document_company_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Document) TableName() string { return "document" }

func (d *Document) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
