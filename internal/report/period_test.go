package report

import (
	"testing"
	"time"
)

func TestPeriodLabel(t *testing.T) {
	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	if got := PeriodLabel(from, to); got != "June 1 - 30, 2024" {
		t.Errorf("PeriodLabel = %q", got)
	}
}

func TestDailyWindow(t *testing.T) {
	now := time.Date(2024, 6, 12, 11, 45, 0, 0, time.UTC)
	from, to := DailyWindow(now)

	if !from.Equal(time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if !to.Before(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("to = %v crosses into today", to)
	}
	if to.Day() != 11 {
		t.Errorf("to = %v not on yesterday", to)
	}
}

func TestMonthlyWindow(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 30, 0, 0, time.UTC)
	from, to := MonthlyWindow(now)

	if !from.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("from = %v", from)
	}
	if to.Month() != time.June || to.Day() != 30 {
		t.Errorf("to = %v, want end of June", to)
	}
}

func TestMonthlyWindow_JanuaryWrapsYear(t *testing.T) {
	now := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	from, to := MonthlyWindow(now)

	if from.Year() != 2023 || from.Month() != time.December {
		t.Errorf("from = %v, want December 2023", from)
	}
	if to.Year() != 2023 || to.Month() != time.December || to.Day() != 31 {
		t.Errorf("to = %v, want end of December 2023", to)
	}
}

func TestNextReportDate(t *testing.T) {
	base := time.Date(2024, 6, 17, 14, 0, 0, 0, time.UTC)
	got := NextReportDate(base)
	if !got.Equal(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("NextReportDate = %v", got)
	}
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name     string
		income   float64
		expenses float64
		want     float64
	}{
		{name: "sixty percent saved", income: 500, expenses: 200, want: 60},
		{name: "zero income", income: 0, expenses: 100, want: 0},
		{name: "negative income clamps", income: -10, expenses: 0, want: 0},
		{name: "overspending goes negative", income: 100, expenses: 150, want: -50},
		{name: "rounds to two decimals", income: 300, expenses: 100, want: 66.67},
		{name: "all spent", income: 100, expenses: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SavingsRate(tt.income, tt.expenses); got != tt.want {
				t.Errorf("SavingsRate(%v, %v) = %v, want %v", tt.income, tt.expenses, got, tt.want)
			}
		})
	}
}
