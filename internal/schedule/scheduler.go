// Package schedule runs the periodic report jobs: a daily job over
// yesterday's window for every enabled setting, and a monthly job for
// settings whose next report date has arrived.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/report"
	"github.com/hollis-m/pocketwatch/internal/service"
)

// Config holds the cron expressions for the scheduled jobs.
type Config struct {
	// DailySpec triggers the daily report job. Default: 11:45 every day.
	DailySpec string
	// MonthlySpec triggers the monthly due-settings sweep. Default: 09:00 every day.
	MonthlySpec string
}

// RunStats are the run-level counters emitted per job execution.
type RunStats struct {
	Processed int
	Failed    int
	Skipped   int
}

// Scheduler wires the report jobs onto a cron runner.
type Scheduler struct {
	store   service.Storage
	reports *report.Service
	cron    *cron.Cron
	logger  *slog.Logger
	cfg     Config
	now     func() time.Time
}

// New creates a scheduler. Jobs do not run until Start is called.
func New(store service.Storage, reports *report.Service, cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DailySpec == "" {
		cfg.DailySpec = "45 11 * * *"
	}
	if cfg.MonthlySpec == "" {
		cfg.MonthlySpec = "0 9 * * *"
	}
	return &Scheduler{
		store:   store,
		reports: reports,
		cron:    cron.New(),
		logger:  logger,
		cfg:     cfg,
		now:     time.Now,
	}
}

// Start registers the jobs and starts the cron runner.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.DailySpec, func() {
		s.RunDaily(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule daily job: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.MonthlySpec, func() {
		s.RunMonthly(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule monthly job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		"daily_spec", s.cfg.DailySpec,
		"monthly_spec", s.cfg.MonthlySpec)
	return nil
}

// Stop stops the cron runner and waits for in-flight jobs.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

// RunDaily generates yesterday's report for every enabled setting. One
// user's failure is counted and never aborts the batch.
func (s *Scheduler) RunDaily(ctx context.Context) RunStats {
	from, to := report.DailyWindow(s.now())
	return s.run(ctx, "DAILY", from, to, s.listEnabled)
}

// RunMonthly generates the previous month's report for every setting
// whose next report date is due, then advances the schedule.
func (s *Scheduler) RunMonthly(ctx context.Context) RunStats {
	from, to := report.MonthlyWindow(s.now())
	return s.run(ctx, "MONTHLY", from, to, s.listDue)
}

func (s *Scheduler) listEnabled(ctx context.Context) ([]model.ReportSetting, error) {
	return s.store.ListEnabledReportSettings(ctx)
}

func (s *Scheduler) listDue(ctx context.Context) ([]model.ReportSetting, error) {
	return s.store.ListDueReportSettings(ctx, s.now())
}

func (s *Scheduler) run(ctx context.Context, frequency string, from, to time.Time, list func(context.Context) ([]model.ReportSetting, error)) RunStats {
	var stats RunStats

	settings, err := list(ctx)
	if err != nil {
		common.LogError(err, "failed to list report settings", common.Fields{"frequency": frequency})
		return stats
	}

	periodLabel := report.PeriodLabel(from, to)
	s.logger.Info("report job started",
		"frequency", frequency,
		"period", periodLabel,
		"users", len(settings))

	for _, setting := range settings {
		switch s.processUser(ctx, setting, frequency, from, to, periodLabel) {
		case outcomeProcessed:
			stats.Processed++
		case outcomeSkipped:
			stats.Skipped++
		case outcomeFailed:
			stats.Failed++
		}
	}

	s.logger.Info("report job finished",
		"frequency", frequency,
		"period", periodLabel,
		"processed", stats.Processed,
		"failed", stats.Failed,
		"skipped", stats.Skipped)

	return stats
}

type userOutcome int

const (
	outcomeProcessed userOutcome = iota
	outcomeSkipped
	outcomeFailed
)

func (s *Scheduler) processUser(ctx context.Context, setting model.ReportSetting, frequency string, from, to time.Time, periodLabel string) userOutcome {
	// Idempotency guard: a re-fired job must not re-send a report that
	// was already recorded for this user and period. Manual generation
	// bypasses this on purpose.
	exists, err := s.reports.HasReportForPeriod(ctx, setting.UserID, periodLabel)
	if err != nil {
		common.LogError(err, "failed to check existing report", common.Fields{
			"user_id": setting.UserID,
			"period":  periodLabel,
		})
		return outcomeFailed
	}
	if exists {
		s.logger.Debug("report already recorded, skipping",
			"user_id", setting.UserID,
			"period", periodLabel)
		return outcomeSkipped
	}

	_, err = s.reports.Generate(ctx, setting.UserID, from, to, report.Options{
		SendEmail: setting.Email != "",
		Recipient: setting.Email,
		Username:  setting.Name,
		Frequency: frequency,
	})
	if errors.Is(err, common.ErrNoActivity) {
		s.logger.Debug("no activity in period, skipping",
			"user_id", setting.UserID,
			"period", periodLabel)
		return outcomeSkipped
	}
	if err != nil {
		common.LogError(err, "failed to generate scheduled report", common.Fields{
			"user_id": setting.UserID,
			"period":  periodLabel,
		})
		return outcomeFailed
	}

	if frequency == "MONTHLY" {
		if err := s.advanceSchedule(ctx, setting); err != nil {
			common.LogError(err, "failed to advance report schedule", common.Fields{
				"user_id": setting.UserID,
			})
		}
	}

	return outcomeProcessed
}

func (s *Scheduler) advanceSchedule(ctx context.Context, setting model.ReportSetting) error {
	now := s.now()
	next := report.NextReportDate(now)
	setting.LastSentDate = &now
	setting.NextReportDate = &next
	return s.store.UpsertReportSetting(ctx, &setting)
}
