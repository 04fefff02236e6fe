package model

import "time"

// ReportStatus is the delivery outcome recorded for a report attempt.
type ReportStatus string

const (
	ReportSent       ReportStatus = "SENT"
	ReportPending    ReportStatus = "PENDING"
	ReportFailed     ReportStatus = "FAILED"
	ReportNoActivity ReportStatus = "NO_ACTIVITY"
)

// ReportFrequency drives scheduled report generation cadence.
type ReportFrequency string

const (
	// FrequencyMonthly is the only configurable cadence; the daily job
	// runs for every enabled setting regardless of frequency.
	FrequencyMonthly ReportFrequency = "MONTHLY"
)

// Report is an append-only audit record of a report attempt. Summary
// holds the full summary snapshot serialized as JSON so historical
// reports can be reconstructed.
type Report struct {
	SentDate  time.Time
	CreatedAt time.Time
	ID        string
	UserID    string
	Period    string
	Summary   string
	Status    ReportStatus
}

// ReportSetting controls a user's eligibility for scheduled reports.
type ReportSetting struct {
	NextReportDate *time.Time
	LastSentDate   *time.Time
	UpdatedAt      time.Time
	UserID         string
	Email          string
	Name           string
	Frequency      ReportFrequency
	IsEnabled      bool
}
