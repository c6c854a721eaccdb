package analysis

import (
	"context"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type Activities struct {
	Log    *logger.Logger
	Runner Runner
}

func (a *Activities) Analyze(ctx context.Context, documentID string) error {
	id, err := uuid.Parse(documentID)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("invalid document_id", "invalid_input", err)
	}
	info := activity.GetInfo(ctx)
	a.Log.Debug("Analyze activity", "document_id", id, "attempt", info.Attempt)
	return a.Runner.Analyze(ctx, id)
}

func (a *Activities) MarkFailed(ctx context.Context, documentID, reason string) error {
	id, err := uuid.Parse(documentID)
	if err != nil {
		return temporal.NewNonRetryableApplicationError("invalid document_id", "invalid_input", err)
	}
	return a.Runner.MarkFailed(ctx, id, reason)
}
