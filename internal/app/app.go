// Package app wires configuration, storage, model clients, services, jobs and
// the HTTP router into one process.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/brandcopilot-backend/internal/config"
	"github.com/yungbote/brandcopilot-backend/internal/data/db"
	"github.com/yungbote/brandcopilot-backend/internal/observability"
	"github.com/yungbote/brandcopilot-backend/internal/platform/envutil"
	"github.com/yungbote/brandcopilot-backend/internal/platform/logger"
	"github.com/yungbote/brandcopilot-backend/internal/services"
)

const serviceName = "brandcopilot-backend"

type App struct {
	Log      *logger.Logger
	Cfg      config.Config
	DB       *gorm.DB
	Router   *gin.Engine
	Clients  Clients
	Repos    Repos
	Services Services
	Jobs     Jobs

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development", nil))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg, err := config.Load(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("load config: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: envutil.String("OTEL_SERVICE_NAME", serviceName, log),
		Environment: cfg.Env,
		Version:     envutil.String("APP_VERSION", "", log),
	})

	dbService, err := db.NewService(cfg.Database, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := db.AutoMigrateAll(dbService.DB()); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbService.DB()

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	serviceset, extractor := wireServices(theDB, log, cfg, clients, reposet)

	jobset, err := wireJobs(log, cfg, serviceset.DocumentAnalysis)
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}
	serviceset.Document = services.NewDocumentService(
		theDB, log, reposet.Company, reposet.Document, clients.Bucket, extractor, jobset.Dispatcher, clients.Events,
	)

	router := wireRouter(log, serviceName, wireHandlers(log, serviceset))

	return &App{
		Log:          log,
		Cfg:          cfg,
		DB:           theDB,
		Router:       router,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Jobs:         jobset,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches the background analysis workers. They stop when ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if a == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Jobs.start(ctx)
}

// Close waits for workers to drain, then releases clients. Call it after the
// context passed to Start is cancelled.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.Jobs.close()
	a.Clients.Close()
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
