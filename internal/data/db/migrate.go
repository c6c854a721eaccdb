package db

import (
	"fmt"

	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(types.Models()...); err != nil {
		return err
	}
	return EnsureIndexes(db)
}

// EnsureIndexes creates the partial unique indexes gorm tags cannot express.
// The statements are valid on both postgres and sqlite.
func EnsureIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_document_company_hash_live",
			sql: `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_document_company_hash_live
				ON document (company_id, content_hash)
				WHERE deleted_at IS NULL;
			`,
		},
		{
			name: "idx_generated_image_conversation",
			sql: `
				CREATE UNIQUE INDEX IF NOT EXISTS idx_generated_image_conversation
				ON generated_image (conversation_id)
				WHERE conversation_id IS NOT NULL;
			`,
		},
		{
			name: "idx_tone_company_live",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_tone_company_live
				ON tone (company_id)
				WHERE deleted_at IS NULL;
			`,
		},
	}
	for _, s := range stmts {
		if err := db.Exec(s.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", s.name, err)
		}
	}
	return nil
}
