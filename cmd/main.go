package main

import (
	"churn-bot/api"
	"churn-bot/internal"
	"churn-bot/observability"
	"churn-bot/repositories"
	"churn-bot/runtime"
	"churn-bot/runtime/workers"
	"churn-bot/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and owns the server lifecycle so that deferred
// cleanups run before the process exits.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Artifacts: incompatible model or scaler stops here
	pipeline, err := internal.LoadPipeline(log, config.ModelPath, config.ScalerPath, config.Language, config.StrictChoices)
	if err != nil {
		return err
	}

	// 3. Prediction history (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	repository := repositories.NewPredictionRepository(db, log, config.HistoryPageSize)

	// 4. Services & Orchestration
	stats := observability.NewSessionStats()
	churnService := services.NewChurnService(log, pipeline.Assembler, pipeline.Predictor, repository)
	dialogue := services.NewDialogueService(log, pipeline.Schema, churnService, pipeline.Catalog, stats)
	orchestrator := runtime.NewOrchestrator(
		log, workers.NewSupervisor(log, config.RestartInterval), runtime.NewRegistry(),
		dialogue, stats,
		config.SessionBufferSize, config.SessionIdleTimeout, config.StatsInterval,
	)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}

	// 6. HTTP Server
	handler := api.NewHandler(log, orchestrator, repository, orchestrator.Snapshot, config.HistoryPageSize)
	server := &http.Server{
		Addr:              config.Address(),
		Handler:           api.NewRouter(log, handler, config.RequestTimeout),
		ReadHeaderTimeout: config.RequestTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", server.Addr, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		orchestrator.Stop()
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown incomplete", "error", err)
	}
	orchestrator.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
