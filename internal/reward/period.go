package reward

import (
	"time"

	"github.com/hollis-m/pocketwatch/internal/model"
)

// PeriodStart returns the start of the current threshold window relative
// to now: start of day, start of the ISO week (Monday), or start of the
// month. Rewards reflect current standing, so the window is anchored on
// now rather than the transaction date.
func PeriodStart(thresholdType model.ThresholdType, now time.Time) time.Time {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch thresholdType {
	case model.ThresholdDaily:
		return dayStart
	case model.ThresholdWeekly:
		// Monday-based week; Go's Sunday is 0.
		offset := (int(now.Weekday()) + 6) % 7
		return dayStart.AddDate(0, 0, -offset)
	case model.ThresholdMonthly:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return dayStart
	}
}
