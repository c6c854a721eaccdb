package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/brandcopilot-backend/internal/app"
	apphttp "github.com/yungbote/brandcopilot-backend/internal/http"
)

const shutdownTimeout = 20 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	if err := a.Start(gctx); err != nil {
		a.Log.Error("Failed to start workers", "error", err)
		stop()
		a.Close(context.Background())
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+a.Cfg.Port, a.Router)
	g.Go(func() error {
		a.Log.Info("Server listening", "port", a.Cfg.Port)
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		a.Log.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	runErr := g.Wait()
	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	a.Close(closeCtx)
	cancel()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Server failed: %v\n", runErr)
		os.Exit(1)
	}
}
