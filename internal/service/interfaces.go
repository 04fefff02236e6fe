// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/hollis-m/pocketwatch/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Type      model.TransactionType
	Limit     int
	Offset    int
}

// CategoryTotal is a per-category expense total in minor units.
type CategoryTotal struct {
	Name        string
	AmountMinor int64
}

// PeriodTotals is the raw aggregation result for a date range, all
// amounts in minor units. Categories are expense totals sorted
// descending, capped at the top five.
type PeriodTotals struct {
	IncomeMinor   int64
	ExpensesMinor int64
	Categories    []CategoryTotal
}

// ReportPage is one page of report audit records.
type ReportPage struct {
	Reports    []model.Report
	TotalCount int64
}

// Storage defines the contract for the persistence layer.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]model.Transaction, error)
	SumExpensesSince(ctx context.Context, userID string, since time.Time) (int64, error)
	SummarizePeriod(ctx context.Context, userID string, from, to time.Time) (*PeriodTotals, error)

	// Threshold operations
	GetThresholdSetting(ctx context.Context, userID string) (*model.ThresholdSetting, error)
	UpsertThresholdSetting(ctx context.Context, setting *model.ThresholdSetting) error
	AddRewardPoints(ctx context.Context, userID string, delta int64) (int64, error)

	// Report audit records
	SaveReport(ctx context.Context, report *model.Report) error
	GetReports(ctx context.Context, userID string, limit, offset int) (*ReportPage, error)
	HasReportForPeriod(ctx context.Context, userID, period string) (bool, error)

	// Report settings
	GetReportSetting(ctx context.Context, userID string) (*model.ReportSetting, error)
	UpsertReportSetting(ctx context.Context, setting *model.ReportSetting) error
	ListEnabledReportSettings(ctx context.Context) ([]model.ReportSetting, error)
	ListDueReportSettings(ctx context.Context, now time.Time) ([]model.ReportSetting, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for transient failures.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
