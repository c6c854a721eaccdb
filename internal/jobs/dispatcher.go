// Package jobs dispatches background document analysis either to Temporal or
// to the in-process worker pool.
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/brandcopilot-backend/internal/jobs/analysis"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

type Dispatcher interface {
	EnqueueDocumentAnalysis(ctx context.Context, documentID uuid.UUID) error
}

type TemporalDispatcher struct {
	log         *logger.Logger
	tc          temporalsdkclient.Client
	taskQueue   string
	maxAttempts int
}

func NewTemporalDispatcher(baseLog *logger.Logger, tc temporalsdkclient.Client, taskQueue string, maxAttempts int) (*TemporalDispatcher, error) {
	if tc == nil {
		return nil, fmt.Errorf("temporal client is not configured")
	}
	if taskQueue == "" {
		return nil, fmt.Errorf("temporal task queue is required")
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &TemporalDispatcher{
		log:         baseLog.With("component", "TemporalDispatcher"),
		tc:          tc,
		taskQueue:   taskQueue,
		maxAttempts: maxAttempts,
	}, nil
}

// EnqueueDocumentAnalysis starts one workflow per document. A second start for
// the same document is rejected by Temporal and treated as already enqueued.
func (d *TemporalDispatcher) EnqueueDocumentAnalysis(ctx context.Context, documentID uuid.UUID) error {
	if documentID == uuid.Nil {
		return fmt.Errorf("missing document id")
	}
	opts := temporalsdkclient.StartWorkflowOptions{
		ID:                    analysis.WorkflowID(documentID),
		TaskQueue:             d.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	in := analysis.Input{DocumentID: documentID.String(), MaxAttempts: d.maxAttempts}

	_, err := d.tc.ExecuteWorkflow(ctx, opts, analysis.WorkflowName, in)
	if err != nil {
		var started *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &started) {
			d.log.Info("Analysis workflow already exists", "document_id", documentID, "workflow_id", opts.ID)
			return nil
		}
		return fmt.Errorf("start analysis workflow: %w", err)
	}
	d.log.Debug("Analysis workflow started", "document_id", documentID, "workflow_id", opts.ID)
	return nil
}
