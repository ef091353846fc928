package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neuroassess/internal/app"
	"neuroassess/internal/config"
	"neuroassess/internal/platform/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("startup failed", "error", err)
	}
	defer a.Close(context.Background())

	// Evict idle sessions; their snapshots stay in the store
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go a.Assessments.Run(sweepCtx, cfg.SweepInterval, cfg.SessionIdle)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: a.Handler(),
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "assessmentType", cfg.AssessmentType)
		log.Info("endpoints",
			"start", "POST /v1/assessments",
			"session", "/v1/assessments/{id}/...",
			"report", "GET /v1/reports/{id}",
			"stats", "GET /v1/stats/archetypes",
			"ws", "WS /v1/ws/assessments/{id}",
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen failed", "error", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	stopSweep()
	evicted := a.Assessments.Sweep(0)
	log.Info("server exited", "sessionsSaved", evicted)
}
