package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	temporalsdkclient "go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	"github.com/yungbote/brandcopilot-backend/internal/jobs/analysis"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

func TestTemporalDispatcherStartsWorkflowPerDocument(t *testing.T) {
	tc := &mocks.Client{}
	docID := uuid.New()

	optsMatch := mock.MatchedBy(func(o temporalsdkclient.StartWorkflowOptions) bool {
		return o.ID == "document-analysis-"+docID.String() &&
			o.TaskQueue == "brandcopilot" &&
			o.WorkflowIDReusePolicy == enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE
	})
	inMatch := mock.MatchedBy(func(in analysis.Input) bool {
		return in.DocumentID == docID.String() && in.MaxAttempts == 3
	})
	tc.On("ExecuteWorkflow", mock.Anything, optsMatch, analysis.WorkflowName, inMatch).
		Return(&mocks.WorkflowRun{}, nil).Once()

	d, err := NewTemporalDispatcher(logger.Nop(), tc, "brandcopilot", 3)
	if err != nil {
		t.Fatalf("NewTemporalDispatcher: %v", err)
	}
	if err := d.EnqueueDocumentAnalysis(context.Background(), docID); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	tc.AssertExpectations(t)
}

func TestTemporalDispatcherErrors(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantErr bool
	}{
		{"already started is success", serviceerror.NewWorkflowExecutionAlreadyStarted("exists", "", ""), false},
		{"other errors propagate", errors.New("unavailable"), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &mocks.Client{}
			client.On("ExecuteWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
				Return(nil, tc.err).Once()
			d, err := NewTemporalDispatcher(logger.Nop(), client, "q", 1)
			if err != nil {
				t.Fatalf("NewTemporalDispatcher: %v", err)
			}
			err = d.EnqueueDocumentAnalysis(context.Background(), uuid.New())
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tc.wantErr)
			}
		})
	}
}

func TestNewTemporalDispatcherRequiresClient(t *testing.T) {
	if _, err := NewTemporalDispatcher(logger.Nop(), nil, "q", 1); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if _, err := NewTemporalDispatcher(logger.Nop(), &mocks.Client{}, "", 1); err == nil {
		t.Fatalf("expected error for empty task queue")
	}
	if err := (&TemporalDispatcher{log: logger.Nop(), tc: &mocks.Client{}, taskQueue: "q"}).EnqueueDocumentAnalysis(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected error for nil document id")
	}
}
