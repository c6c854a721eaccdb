package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/brandcopilot-backend/internal/domain"
)

func SeedCompany(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Company {
	tb.Helper()
	c := &types.Company{
		Name:        name,
		Description: name + " makes things.",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed company: %v", err)
	}
	return c
}

func SeedTone(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID uuid.UUID, name, instructions string) *types.Tone {
	tb.Helper()
	t := &types.Tone{
		CompanyID:    companyID,
		Name:         name,
		Instructions: instructions,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed tone: %v", err)
	}
	return t
}

func SeedConversation(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID, toneID uuid.UUID, title string) *types.Conversation {
	tb.Helper()
	c := &types.Conversation{
		CompanyID: companyID,
		ToneID:    toneID,
		Title:     title,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed conversation: %v", err)
	}
	return c
}

func SeedMessage(tb testing.TB, ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, seq int64, role, content string) *types.Message {
	tb.Helper()
	m := &types.Message{
		ConversationID: conversationID,
		Seq:            seq,
		Role:           role,
		Content:        content,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed message: %v", err)
	}
	return m
}

func SeedDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, companyID uuid.UUID, hash string, status types.DocumentStatus) *types.Document {
	tb.Helper()
	d := &types.Document{
		CompanyID:   companyID,
		Filename:    "invoice.pdf",
		MimeType:    "application/pdf",
		SizeBytes:   4,
		ContentHash: hash,
		StorageKey:  "documents/" + companyID.String() + "/" + hash,
		Status:      status,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed document: %v", err)
	}
	return d
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
