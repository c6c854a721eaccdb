package media

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/brandcopilot-backend/internal/data/repos/testutil"
	types "github.com/yungbote/brandcopilot-backend/internal/domain"
	"github.com/yungbote/brandcopilot-backend/internal/platform/dbctx"
)

func TestGeneratedImageRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewGeneratedImageRepo(db, testutil.Logger(t))
	company := testutil.SeedCompany(t, ctx, tx, "Acme")
	tone := testutil.SeedTone(t, ctx, tx, company.ID, "Formal", "")
	conv := testutil.SeedConversation(t, ctx, tx, company.ID, tone.ID, "")

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mk := func(i int, convID *uuid.UUID) *types.GeneratedImage {
		return &types.GeneratedImage{
			CompanyID:      company.ID,
			ConversationID: convID,
			Prompt:         "p",
			Width:          1024,
			Height:         1024,
			Seed:           int64(i),
			ModelID:        "amazon.nova-canvas-v1:0",
			StorageKey:     uuid.NewString(),
			ContentType:    "image/png",
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}
	}

	linked, err := repo.Create(dbc, mk(0, testutil.PtrUUID(conv.ID)))
	if err != nil {
		t.Fatalf("Create linked: %v", err)
	}
	for i := 1; i <= 4; i++ {
		if _, err := repo.Create(dbc, mk(i, nil)); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page, total, err := repo.List(dbc, ListFilter{CompanyID: company.ID, Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("List: total=%d len=%d", total, len(page))
	}
	if page[0].Seed != 3 || page[1].Seed != 2 {
		t.Fatalf("List: expected newest-first page seeds 3,2 got %d,%d", page[0].Seed, page[1].Seed)
	}

	byConv, total, err := repo.List(dbc, ListFilter{CompanyID: company.ID, ConversationID: &conv.ID, Limit: 50})
	if err != nil || total != 1 || len(byConv) != 1 || byConv[0].ID != linked.ID {
		t.Fatalf("List(conversation): total=%d len=%d err=%v", total, len(byConv), err)
	}

	rows, err := repo.ListByConversation(dbc, conv.ID)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByConversation: len=%d err=%v", len(rows), err)
	}
	if err := repo.DeleteByIDs(dbc, []uuid.UUID{linked.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if got, err := repo.GetByID(dbc, linked.ID); err != nil || got != nil {
		t.Fatalf("GetByID after delete: got=%v err=%v", got, err)
	}
	if _, err := repo.Create(dbc, mk(9, testutil.PtrUUID(conv.ID))); err != nil {
		t.Fatalf("Create after eviction: %v", err)
	}
}
