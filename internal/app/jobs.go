package app

import (
	"context"
	"fmt"
	"time"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/jobs"
	"github.com/yungbote/brandcopilot-backend/internal/jobs/worker"
	"github.com/yungbote/brandcopilot-backend/internal/platform/envutil"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
	"github.com/yungbote/brandcopilot-backend/internal/temporalx"
	"github.com/yungbote/brandcopilot-backend/internal/temporalx/temporalworker"
)

type Jobs struct {
	Dispatcher jobs.Dispatcher

	// Exactly one of Pool or Temporal is set.
	Pool           *worker.Pool
	Temporal       temporalsdkclient.Client
	TemporalWorker *temporalworker.Runner
}

func wireJobs(log *logger.Logger, cfg config.Config, analysis services.DocumentAnalysisService) (Jobs, error) {
	log.Info("Wiring jobs...")

	tcfg := temporalx.LoadConfig(cfg.Temporal, log)
	tc, err := temporalx.NewClient(tcfg, log)
	if err != nil {
		return Jobs{}, fmt.Errorf("init temporal client: %w", err)
	}
	if tc == nil {
		pool := worker.NewPool(log, analysis, worker.Options{
			Backlog:     analysis,
			Concurrency: cfg.WorkerConcurrency,
			MaxAttempts: cfg.DocumentAnalysisMaxAttempts,
			QueueSize:   envutil.Int("WORKER_QUEUE_SIZE", 256, log),
			RetryDelay:  time.Duration(envutil.Int("WORKER_RETRY_DELAY_MS", 5000, log)) * time.Millisecond,
		})
		return Jobs{Dispatcher: pool, Pool: pool}, nil
	}

	dispatcher, err := jobs.NewTemporalDispatcher(log, tc, tcfg.TaskQueue, cfg.DocumentAnalysisMaxAttempts)
	if err != nil {
		tc.Close()
		return Jobs{}, err
	}
	out := Jobs{Dispatcher: dispatcher, Temporal: tc}
	if envutil.Bool("RUN_TEMPORAL_WORKER", true, log) {
		runner, err := temporalworker.NewRunner(log, tc, tcfg, cfg.WorkerConcurrency, analysis)
		if err != nil {
			tc.Close()
			return Jobs{}, err
		}
		out.TemporalWorker = runner
	}
	return out, nil
}

func (j *Jobs) start(ctx context.Context) error {
	if j.Pool != nil {
		j.Pool.Start(ctx)
	}
	if j.TemporalWorker != nil {
		return j.TemporalWorker.Start(ctx)
	}
	return nil
}

func (j *Jobs) close() {
	if j.Pool != nil {
		j.Pool.Wait()
	}
	if j.Temporal != nil {
		j.Temporal.Close()
	}
}
