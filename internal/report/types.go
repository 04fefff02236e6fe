// Package report turns raw transaction records into periodic financial
// summaries and persists the audit trail of report attempts.
package report

import "context"

// CategoryTotal is one expense category's share of a period, in major
// units with an integer-rounded percentage of total expenses.
type CategoryTotal struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Percent int     `json:"percent"`
}

// Summary is the financial summary for a period, all monetary values in
// major units. It is computed fresh per invocation; only the audit
// record keeps a serialized snapshot.
type Summary struct {
	Income        float64         `json:"income"`
	Expenses      float64         `json:"expenses"`
	Balance       float64         `json:"balance"`
	SavingsRate   float64         `json:"savingsRate"`
	TopCategories []CategoryTotal `json:"topCategories"`
}

// GeneratedReport is the full result returned to callers.
type GeneratedReport struct {
	Period   string   `json:"period"`
	Summary  Summary  `json:"summary"`
	Insights []string `json:"insights"`
}

// InsightSource produces advisory strings from a summary. It degrades
// internally and never fails report generation.
type InsightSource interface {
	Insights(ctx context.Context, summary Summary, periodLabel string) []string
}

// Email is the payload handed to the mailer.
type Email struct {
	To        string
	Username  string
	Frequency string
	Report    *GeneratedReport
}

// Mailer delivers a generated report. Failure is observable as an
// error the assembler records but does not retry.
type Mailer interface {
	SendReport(ctx context.Context, email Email) error
}
