package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/currency"
	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/service"
)

// Options controls a single report generation.
type Options struct {
	// SendEmail requests delivery of the generated report.
	SendEmail bool
	// Recipient and Username are required when SendEmail is set.
	Recipient string
	Username  string
	// Frequency tags the notification (MANUAL, DAILY, MONTHLY).
	Frequency string
	// SkipAudit suppresses the audit record; used by preview callers.
	SkipAudit bool
}

// Service assembles financial reports: aggregation, insights, optional
// notification, and the audit record.
type Service struct {
	store    service.Storage
	insights InsightSource
	mailer   Mailer
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a report service. insights and mailer may be nil,
// in which case reports carry no insights and cannot be emailed.
func NewService(store service.Storage, insights InsightSource, mailer Mailer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		insights: insights,
		mailer:   mailer,
		logger:   logger,
		now:      time.Now,
	}
}

// Generate aggregates the user's transactions over [from, to], derives
// the summary and insights, optionally emails the result, and appends
// an audit record. When the window holds no income and no expenses it
// returns common.ErrNoActivity and persists nothing; callers must treat
// that as a valid outcome, not a failure.
func (s *Service) Generate(ctx context.Context, userID string, from, to time.Time, opts Options) (*GeneratedReport, error) {
	totals, err := s.store.SummarizePeriod(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate period: %w", err)
	}

	if totals.IncomeMinor == 0 && totals.ExpensesMinor == 0 {
		return nil, common.ErrNoActivity
	}

	periodLabel := PeriodLabel(from, to)
	summary := buildSummary(totals)

	generated := &GeneratedReport{
		Period:   periodLabel,
		Summary:  summary,
		Insights: []string{},
	}
	if s.insights != nil {
		generated.Insights = s.insights.Insights(ctx, summary, periodLabel)
	}

	status := model.ReportSent
	if opts.SendEmail {
		if err := s.sendEmail(ctx, generated, opts); err != nil {
			// Delivery failure is recorded, not retried and not raised.
			common.LogError(err, "report email failed", common.Fields{
				"user_id": userID,
				"period":  periodLabel,
			})
			status = model.ReportFailed
		}
	}

	if !opts.SkipAudit {
		if err := s.saveAudit(ctx, userID, generated, status); err != nil {
			return nil, err
		}
	}

	s.logger.Info("report generated",
		"user_id", userID,
		"period", periodLabel,
		"status", status,
		"insights", len(generated.Insights))

	return generated, nil
}

// HasReportForPeriod exposes the audit-record idempotency check for the
// scheduler.
func (s *Service) HasReportForPeriod(ctx context.Context, userID, period string) (bool, error) {
	return s.store.HasReportForPeriod(ctx, userID, period)
}

func (s *Service) sendEmail(ctx context.Context, generated *GeneratedReport, opts Options) error {
	if s.mailer == nil {
		return fmt.Errorf("no mailer configured")
	}
	if opts.Recipient == "" {
		return fmt.Errorf("no recipient configured")
	}
	return s.mailer.SendReport(ctx, Email{
		To:        opts.Recipient,
		Username:  opts.Username,
		Frequency: opts.Frequency,
		Report:    generated,
	})
}

func (s *Service) saveAudit(ctx context.Context, userID string, generated *GeneratedReport, status model.ReportStatus) error {
	snapshot, err := json.Marshal(generated)
	if err != nil {
		return fmt.Errorf("failed to serialize summary snapshot: %w", err)
	}

	record := &model.Report{
		ID:       uuid.NewString(),
		UserID:   userID,
		Period:   generated.Period,
		SentDate: s.now().UTC(),
		Status:   status,
		Summary:  string(snapshot),
	}
	if err := s.store.SaveReport(ctx, record); err != nil {
		return fmt.Errorf("failed to save report record: %w", err)
	}
	return nil
}

// buildSummary converts minor-unit aggregation totals into the
// major-unit summary. This is the single conversion point.
func buildSummary(totals *service.PeriodTotals) Summary {
	income := currency.ToMajorUnits(totals.IncomeMinor)
	expenses := currency.ToMajorUnits(totals.ExpensesMinor)

	categories := make([]CategoryTotal, 0, len(totals.Categories))
	for _, ct := range totals.Categories {
		percent := 0
		if totals.ExpensesMinor > 0 {
			percent = int(math.Round(float64(ct.AmountMinor) / float64(totals.ExpensesMinor) * 100))
		}
		categories = append(categories, CategoryTotal{
			Name:    ct.Name,
			Amount:  currency.ToMajorUnits(ct.AmountMinor),
			Percent: percent,
		})
	}

	return Summary{
		Income:        income,
		Expenses:      expenses,
		Balance:       income - expenses,
		SavingsRate:   currency.RoundMajor(SavingsRate(income, expenses), 1),
		TopCategories: categories,
	}
}
