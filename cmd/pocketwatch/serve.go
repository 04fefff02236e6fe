package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hollis-m/pocketwatch/internal/config"
	"github.com/hollis-m/pocketwatch/internal/report"
	"github.com/hollis-m/pocketwatch/internal/reward"
	"github.com/hollis-m/pocketwatch/internal/schedule"
	"github.com/hollis-m/pocketwatch/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and report scheduler",
		Long: `Start the pocketwatch server: the HTTP API for transactions,
thresholds and reports, plus the cron scheduler that generates and
emails daily and monthly reports.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	cmd.Flags().Bool("no-scheduler", false, "disable the report scheduler")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.no_scheduler", cmd.Flags().Lookup("no-scheduler"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	insights, err := initInsights()
	if err != nil {
		return err
	}
	mailer, err := initMailer()
	if err != nil {
		return err
	}

	reports := report.NewService(store, insights, mailer, slog.Default())
	scorer := reward.NewScorer(store, slog.Default())

	if !viper.GetBool("server.no_scheduler") {
		scheduler := schedule.New(store, reports, config.LoadScheduleConfig(), slog.Default())
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	srv := server.New(store, reports, scorer, nil, slog.Default())

	go func() {
		<-ctx.Done()
		if err := srv.Shutdown(); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	return srv.Listen(config.ServerAddr())
}
