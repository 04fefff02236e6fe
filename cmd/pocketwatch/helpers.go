package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hollis-m/pocketwatch/internal/config"
	"github.com/hollis-m/pocketwatch/internal/insight"
	"github.com/hollis-m/pocketwatch/internal/notify"
	"github.com/hollis-m/pocketwatch/internal/report"
	"github.com/hollis-m/pocketwatch/internal/service"
	"github.com/hollis-m/pocketwatch/internal/storage"
)

// initStorage opens the configured database and runs migrations.
func initStorage(ctx context.Context) (service.Storage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initInsights builds the AI insight generator from configuration.
// Returns nil when no provider is configured; reports then carry no
// insights.
func initInsights() (report.InsightSource, error) {
	cfg, err := config.LoadInsightConfig()
	if err != nil {
		slog.Warn("AI insights disabled", "reason", err)
		return nil, nil
	}

	client, err := insight.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	generator, err := insight.NewGenerator(client, cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create insight generator: %w", err)
	}

	return generator, nil
}

// initMailer builds the SMTP mailer, or nil when SMTP is not configured.
func initMailer() (report.Mailer, error) {
	cfg := config.LoadSMTPConfig()
	if cfg.Host == "" {
		slog.Info("SMTP not configured, email delivery disabled")
		return nil, nil
	}

	mailer, err := notify.NewSMTPMailer(cfg, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("failed to create mailer: %w", err)
	}
	return mailer, nil
}
