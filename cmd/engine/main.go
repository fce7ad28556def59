package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mindtrace/engine/internal/analysis"
	"github.com/mindtrace/engine/internal/api"
	"github.com/mindtrace/engine/internal/config"
	"github.com/mindtrace/engine/internal/domain"
	"github.com/mindtrace/engine/internal/emotion/facial"
	"github.com/mindtrace/engine/internal/emotion/fusion"
	"github.com/mindtrace/engine/internal/emotion/voice"
	"github.com/mindtrace/engine/internal/report"
	"github.com/mindtrace/engine/internal/server"
	"github.com/mindtrace/engine/internal/storage/sqlite"
	"github.com/mindtrace/engine/internal/telemetry"
	"github.com/mindtrace/engine/internal/textgen"
	"github.com/mindtrace/engine/internal/vision"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	shutdownTracer, err := telemetry.InitTracer("mindtrace-engine", logger)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			logger.Error("failed to shutdown tracer", slog.String("error", err.Error()))
		}
	}()

	cfg, err := config.Load(os.Getenv("MINDTRACE_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	visionClient := vision.NewClient(cfg.Vision.BaseURL)

	// The report generator prefers a secondary credential so a quota hit on
	// the primary key does not take out the clinical summary.
	var voiceGen, reportGen domain.TextGenerator
	if cfg.TextGen.APIKey != "" {
		voiceGen = newTextGen(cfg, cfg.TextGen.APIKey, logger)
		reportGen = voiceGen
	} else {
		logger.Warn("no text generation API key, voice analysis falls back to keyword matching")
	}
	if cfg.TextGen.BackupAPIKey != "" {
		reportGen = newTextGen(cfg, cfg.TextGen.BackupAPIKey, logger)
	}

	orchestratorOpts := []analysis.Option{analysis.WithLogger(logger)}
	apiOpts := []api.Option{api.WithVision(visionClient), api.WithLogger(logger)}

	if cfg.Storage.Type == "sqlite" {
		store, err := sqlite.New(cfg.Storage.SQLite.Path)
		if err != nil {
			log.Fatalf("Failed to open session store: %v", err)
		}
		defer store.Close()
		orchestratorOpts = append(orchestratorOpts, analysis.WithStore(store))
		apiOpts = append(apiOpts, api.WithTrends(store))
		logger.Info("session storage enabled", slog.String("path", cfg.Storage.SQLite.Path))
	} else {
		logger.Info("session storage disabled")
	}

	orchestrator := analysis.New(
		facial.New(visionClient, facial.WithLogger(logger)),
		voice.New(voiceGen, voice.WithLogger(logger)),
		fusion.New(),
		report.New(reportGen, report.WithLogger(logger)),
		orchestratorOpts...,
	)

	srv := server.New(cfg.Server.Port, logger)
	api.New(orchestrator, apiOpts...).RegisterRoutes(srv.Router)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router,
	}

	go func() {
		logger.Info("starting server", slog.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received, stopping engine...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Engine shutdown complete")
}

func newTextGen(cfg *config.Config, apiKey string, logger *slog.Logger) *textgen.Client {
	opts := []textgen.ClientOption{textgen.WithLogger(logger)}
	if cfg.TextGen.BaseURL != "" {
		opts = append(opts, textgen.WithBaseURL(cfg.TextGen.BaseURL))
	}
	if cfg.TextGen.Model != "" {
		opts = append(opts, textgen.WithModel(cfg.TextGen.Model))
	}
	return textgen.NewClient(apiKey, opts...)
}
