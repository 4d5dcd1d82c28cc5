package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/triviagame/internal/api"
	"github.com/mcoot/triviagame/internal/config"
	"github.com/mcoot/triviagame/internal/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, logCloser := config.NewLogger(cfg)
	defer func() { _ = logCloser.Close() }()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		_ = logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, factory.ConfigFrom(cfg, logger))
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	if cfg.QuestionBankPath != "" {
		n, err := app.QuestionBank.LoadFromFile(ctx, cfg.QuestionBankPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Warn("question bank not found, keeping stored questions",
				slog.String("path", cfg.QuestionBankPath))
		case err != nil:
			return err
		default:
			logger.Info("question bank loaded", slog.Int("questions", n))
		}
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		PlayerService:  app.PlayerService,
		ScoringService: app.ScoringService,
		HubManager:     app.HubManager,
		Metrics:        app.Metrics,
	})

	server := api.NewServer(router, api.ServerConfigFrom(cfg), logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	go sweepEventHubs(ctx, app)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	// Close event streams first so open connections don't hold up shutdown
	app.HubManager.Close()
	return server.Shutdown(context.Background())
}

const hubSweepInterval = time.Minute

// sweepEventHubs drops hubs for games nobody is watching
func sweepEventHubs(ctx context.Context, app *factory.App) {
	ticker := time.NewTicker(hubSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.HubManager.CleanupEmptyHubs()
		}
	}
}
