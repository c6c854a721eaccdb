// Package worker is the in-process document analysis queue used when Temporal
// is not configured. The queue lives in memory; unfinished documents are
// reloaded from the Backlog on Start.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/brandcopilot-backend/internal/jobs/analysis"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
)

// Backlog lists documents whose analysis has not reached a terminal status.
type Backlog interface {
	Unfinished(ctx context.Context) ([]uuid.UUID, error)
}

type Options struct {
	// Backlog, when set, is drained into the queue on Start.
	Backlog       Backlog
	Concurrency   int
	MaxAttempts   int
	QueueSize     int
	RetryDelay    time.Duration
	MaxRetryDelay time.Duration
}

type Pool struct {
	log    *logger.Logger
	runner analysis.Runner
	opts   Options
	queue  chan uuid.UUID
	wg     sync.WaitGroup
}

func NewPool(baseLog *logger.Logger, runner analysis.Runner, opts Options) *Pool {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	if opts.QueueSize < 1 {
		opts.QueueSize = 256
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 5 * time.Second
	}
	if opts.MaxRetryDelay <= 0 {
		opts.MaxRetryDelay = time.Minute
	}
	return &Pool{
		log:    baseLog.With("component", "AnalysisWorker"),
		runner: runner,
		opts:   opts,
		queue:  make(chan uuid.UUID, opts.QueueSize),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Info("Starting analysis worker pool", "concurrency", p.opts.Concurrency, "max_attempts", p.opts.MaxAttempts)
	for i := 0; i < p.opts.Concurrency; i++ {
		workerID := i + 1
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.runLoop(ctx, workerID)
		}()
	}
	if p.opts.Backlog != nil {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.resume(ctx)
		}()
	}
}

func (p *Pool) resume(ctx context.Context) {
	ids, err := p.opts.Backlog.Unfinished(ctx)
	if err != nil {
		p.log.Error("Load unfinished documents failed", "error", err)
		return
	}
	if len(ids) == 0 {
		return
	}
	p.log.Info("Re-enqueueing unfinished documents", "count", len(ids))
	for _, id := range ids {
		if err := p.EnqueueDocumentAnalysis(ctx, id); err != nil {
			p.log.Warn("Re-enqueue stopped", "document_id", id, "error", err)
			return
		}
	}
}

// Wait blocks until every worker has returned after ctx is cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) EnqueueDocumentAnalysis(ctx context.Context, documentID uuid.UUID) error {
	select {
	case p.queue <- documentID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) runLoop(ctx context.Context, workerID int) {
	for {
		select {
		case <-ctx.Done():
			p.log.Info("Worker loop stopped", "worker_id", workerID)
			return
		case id := <-p.queue:
			p.process(ctx, workerID, id)
		}
	}
}

func (p *Pool) process(ctx context.Context, workerID int, id uuid.UUID) {
	delay := p.opts.RetryDelay
	var lastErr error
	for attempt := 1; attempt <= p.opts.MaxAttempts; attempt++ {
		lastErr = p.runOnce(ctx, id)
		if lastErr == nil {
			return
		}
		p.log.Warn("Analysis attempt failed",
			"worker_id", workerID,
			"document_id", id,
			"attempt", attempt,
			"error", lastErr,
		)
		if attempt == p.opts.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if delay > p.opts.MaxRetryDelay {
			delay = p.opts.MaxRetryDelay
		}
	}
	reason := fmt.Sprintf("analysis failed after %d attempts: %v", p.opts.MaxAttempts, lastErr)
	if err := p.runner.MarkFailed(ctx, id, reason); err != nil {
		p.log.Error("MarkFailed failed", "document_id", id, "error", err)
	}
}

func (p *Pool) runOnce(ctx context.Context, id uuid.UUID) (err error) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("Analysis panic", "document_id", id, "panic", r)
			err = &panicError{Val: r}
		}
	}()
	return p.runner.Analyze(ctx, id)
}

type panicError struct{ Val any }

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.Val) }
