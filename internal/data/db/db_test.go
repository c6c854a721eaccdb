package db

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/brandcopilot-backend/internal/config"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

func TestDialectorForRejectsUnknownDriver(t *testing.T) {
	if _, err := dialectorFor(config.Database{Driver: "mysql"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestMigratePartialIndexes(t *testing.T) {
	svc, err := NewService(config.Database{
		Driver:     "sqlite",
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, logger.Nop())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if err := AutoMigrateAll(svc.DB()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Idempotent.
	if err := AutoMigrateAll(svc.DB()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}

	companyID := uuid.New()
	convID := uuid.New()
	first := &types.GeneratedImage{CompanyID: companyID, ConversationID: &convID, Prompt: "a", Width: 1, Height: 1, ModelID: "m", StorageKey: "k1", ContentType: "image/png"}
	if err := svc.DB().Create(first).Error; err != nil {
		t.Fatalf("create first: %v", err)
	}
	second := &types.GeneratedImage{CompanyID: companyID, ConversationID: &convID, Prompt: "b", Width: 1, Height: 1, ModelID: "m", StorageKey: "k2", ContentType: "image/png"}
	err = svc.DB().Create(second).Error
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	// Unlinked images are unconstrained.
	for i := 0; i < 2; i++ {
		img := &types.GeneratedImage{CompanyID: companyID, Prompt: "c", Width: 1, Height: 1, ModelID: "m", StorageKey: uuid.NewString(), ContentType: "image/png"}
		if err := svc.DB().Create(img).Error; err != nil {
			t.Fatalf("create unlinked %d: %v", i, err)
		}
	}

	doc := &types.Document{CompanyID: companyID, MimeType: "application/pdf", ContentHash: "abc", StorageKey: "d1", Status: types.DocumentPending}
	if err := svc.DB().Create(doc).Error; err != nil {
		t.Fatalf("create doc: %v", err)
	}
	if err := svc.DB().Delete(doc).Error; err != nil {
		t.Fatalf("soft delete doc: %v", err)
	}
	again := &types.Document{CompanyID: companyID, MimeType: "application/pdf", ContentHash: "abc", StorageKey: "d2", Status: types.DocumentPending}
	if err := svc.DB().Create(again).Error; err != nil {
		t.Fatalf("re-upload after soft delete should succeed: %v", err)
	}
}
