package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/service"
)

// SaveReport appends a report audit record.
func (s *SQLiteStorage) SaveReport(ctx context.Context, report *model.Report) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if report == nil {
		return fmt.Errorf("report must not be nil")
	}
	if err := validateString(report.ID, "report ID"); err != nil {
		return err
	}
	if err := validateString(report.UserID, "userID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (id, user_id, period, sent_date, status, summary)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.ID, report.UserID, report.Period, report.SentDate, string(report.Status), report.Summary)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("report %s: %w", report.ID, common.ErrDuplicateEntry)
	}
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// GetReports returns one page of a user's report records, newest first.
func (s *SQLiteStorage) GetReports(ctx context.Context, userID string, limit, offset int) (*service.ReportPage, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	page := &service.ReportPage{}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE user_id = ?`, userID,
	).Scan(&page.TotalCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, period, sent_date, status, summary, created_at
		FROM reports
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r model.Report
		var status string
		if err := rows.Scan(&r.ID, &r.UserID, &r.Period, &r.SentDate, &status, &r.Summary, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		r.Status = model.ReportStatus(status)
		page.Reports = append(page.Reports, r)
	}

	return page, rows.Err()
}

// HasReportForPeriod reports whether an audit record already exists for
// the given user and period label. Used by the scheduler as an
// idempotency guard against double fires.
func (s *SQLiteStorage) HasReportForPeriod(ctx context.Context, userID, period string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return false, err
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reports WHERE user_id = ? AND period = ?`,
		userID, period,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check report existence: %w", err)
	}

	return count > 0, nil
}

// GetReportSetting returns the user's report setting, or
// common.ErrNotFound when none exists.
func (s *SQLiteStorage) GetReportSetting(ctx context.Context, userID string) (*model.ReportSetting, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, name, frequency, is_enabled, next_report_date, last_sent_date, updated_at
		FROM report_settings
		WHERE user_id = ?
	`, userID)

	setting, err := scanReportSetting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report setting: %w", err)
	}

	return setting, nil
}

// UpsertReportSetting inserts or updates the user's report setting.
func (s *SQLiteStorage) UpsertReportSetting(ctx context.Context, setting *model.ReportSetting) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if setting == nil {
		return fmt.Errorf("setting must not be nil")
	}
	if err := validateString(setting.UserID, "userID"); err != nil {
		return err
	}

	frequency := setting.Frequency
	if frequency == "" {
		frequency = model.FrequencyMonthly
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO report_settings (user_id, email, name, frequency, is_enabled, next_report_date, last_sent_date, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			email = excluded.email,
			name = excluded.name,
			frequency = excluded.frequency,
			is_enabled = excluded.is_enabled,
			next_report_date = excluded.next_report_date,
			last_sent_date = excluded.last_sent_date,
			updated_at = excluded.updated_at
	`, setting.UserID, setting.Email, setting.Name, string(frequency),
		setting.IsEnabled, nullableTime(setting.NextReportDate), nullableTime(setting.LastSentDate), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert report setting: %w", err)
	}

	return nil
}

// ListEnabledReportSettings returns every setting with reporting enabled.
func (s *SQLiteStorage) ListEnabledReportSettings(ctx context.Context) ([]model.ReportSetting, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, email, name, frequency, is_enabled, next_report_date, last_sent_date, updated_at
		FROM report_settings
		WHERE is_enabled = 1
		ORDER BY user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query report settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectReportSettings(rows)
}

// ListDueReportSettings returns enabled settings whose next report date
// has arrived.
func (s *SQLiteStorage) ListDueReportSettings(ctx context.Context, now time.Time) ([]model.ReportSetting, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, email, name, frequency, is_enabled, next_report_date, last_sent_date, updated_at
		FROM report_settings
		WHERE is_enabled = 1 AND next_report_date IS NOT NULL AND next_report_date <= ?
		ORDER BY user_id
	`, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due report settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectReportSettings(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReportSetting(row rowScanner) (*model.ReportSetting, error) {
	var setting model.ReportSetting
	var frequency string
	var nextDate, lastSent sql.NullTime
	if err := row.Scan(
		&setting.UserID,
		&setting.Email,
		&setting.Name,
		&frequency,
		&setting.IsEnabled,
		&nextDate,
		&lastSent,
		&setting.UpdatedAt,
	); err != nil {
		return nil, err
	}
	setting.Frequency = model.ReportFrequency(frequency)
	if nextDate.Valid {
		t := nextDate.Time
		setting.NextReportDate = &t
	}
	if lastSent.Valid {
		t := lastSent.Time
		setting.LastSentDate = &t
	}
	return &setting, nil
}

func collectReportSettings(rows *sql.Rows) ([]model.ReportSetting, error) {
	var settings []model.ReportSetting
	for rows.Next() {
		setting, err := scanReportSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report setting: %w", err)
		}
		settings = append(settings, *setting)
	}
	return settings, rows.Err()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
