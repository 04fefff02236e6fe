package model

import "time"

// ThresholdType is the period a spending threshold applies to.
type ThresholdType string

const (
	ThresholdDaily   ThresholdType = "DAILY"
	ThresholdWeekly  ThresholdType = "WEEKLY"
	ThresholdMonthly ThresholdType = "MONTHLY"
)

// Valid reports whether t is a known threshold period.
func (t ThresholdType) Valid() bool {
	switch t {
	case ThresholdDaily, ThresholdWeekly, ThresholdMonthly:
		return true
	}
	return false
}

// ThresholdSetting is a user's spending cap configuration. One row per
// user, upserted on update. Amount is in major currency units;
// RewardPoints is a running total that may go negative.
type ThresholdSetting struct {
	LastReset    time.Time
	UpdatedAt    time.Time
	UserID       string
	Type         ThresholdType
	Amount       float64
	RewardPoints int64
}
