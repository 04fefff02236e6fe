package report

import (
	"fmt"
	"time"

	"github.com/hollis-m/pocketwatch/internal/currency"
)

// PeriodLabel formats a date range as a human-readable period, e.g.
// "June 1 - 30, 2024".
func PeriodLabel(from, to time.Time) string {
	return fmt.Sprintf("%s %d - %d, %d", from.Month(), from.Day(), to.Day(), to.Year())
}

// DailyWindow returns yesterday's full-day range relative to now.
func DailyWindow(now time.Time) (time.Time, time.Time) {
	yesterday := now.AddDate(0, 0, -1)
	from := time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return from, to
}

// MonthlyWindow returns the previous calendar month's range relative to now.
func MonthlyWindow(now time.Time) (time.Time, time.Time) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	from := monthStart.AddDate(0, -1, 0)
	to := monthStart.Add(-time.Nanosecond)
	return from, to
}

// NextReportDate computes when the next scheduled monthly report is
// due: the first day of the month after base.
func NextReportDate(base time.Time) time.Time {
	return time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location()).AddDate(0, 1, 0)
}

// SavingsRate is (income - expenses) / income * 100, clamped to 0 when
// income is not positive, rounded to two decimals. Display re-rounds to
// one decimal; the double rounding mirrors the established report
// output and is kept as-is.
func SavingsRate(income, expenses float64) float64 {
	if income <= 0 {
		return 0
	}
	rate := (income - expenses) / income * 100
	return currency.RoundMajor(rate, 2)
}
