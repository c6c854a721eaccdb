package analysis

import (
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// Workflow analyzes one document. The analyze activity is retried with
// exponential backoff up to Input.MaxAttempts; once retries are exhausted the
// document is marked failed and the workflow returns the last error.
func Workflow(ctx workflow.Context, in Input) error {
	if in.DocumentID == "" {
		return temporal.NewNonRetryableApplicationError("missing document_id", "invalid_input", nil)
	}
	attempts := in.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	analyzeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    retryInitialInterval,
			BackoffCoefficient: retryBackoff,
			MaximumInterval:    retryMaximumInterval,
			MaximumAttempts:    int32(attempts),
		},
	})
	err := workflow.ExecuteActivity(analyzeCtx, ActivityAnalyze, in.DocumentID).Get(ctx, nil)
	if err == nil {
		return nil
	}

	reason := fmt.Sprintf("analysis failed after %d attempts: %s", attempts, rootMessage(err))
	workflow.GetLogger(ctx).Warn("Document analysis exhausted retries", "document_id", in.DocumentID, "error", err)

	failCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: retryBackoff,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    5,
		},
	})
	if ferr := workflow.ExecuteActivity(failCtx, ActivityMarkFailed, in.DocumentID, reason).Get(ctx, nil); ferr != nil {
		return fmt.Errorf("mark document failed: %w", ferr)
	}
	return err
}

func rootMessage(err error) string {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}
