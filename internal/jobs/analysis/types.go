// Package analysis runs document analysis as a Temporal workflow.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	WorkflowName       = "analyze_document"
	ActivityAnalyze    = "analyze_document"
	ActivityMarkFailed = "mark_document_failed"

	WorkflowIDPrefix = "document-analysis-"

	retryInitialInterval = 5 * time.Second
	retryBackoff         = 2.0
	retryMaximumInterval = time.Minute
)

type Input struct {
	DocumentID  string `json:"document_id"`
	MaxAttempts int    `json:"max_attempts"`
}

// Runner is satisfied by services.DocumentAnalysisService.
type Runner interface {
	Analyze(ctx context.Context, documentID uuid.UUID) error
	MarkFailed(ctx context.Context, documentID uuid.UUID, reason string) error
}

func WorkflowID(documentID uuid.UUID) string {
	return WorkflowIDPrefix + documentID.String()
}
