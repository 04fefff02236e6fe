package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hollis-m/pocketwatch/internal/report"
)

func TestRenderReport(t *testing.T) {
	generated := &report.GeneratedReport{
		Period: "June 1 - 30, 2024",
		Summary: report.Summary{
			Income:      500,
			Expenses:    200,
			Balance:     300,
			SavingsRate: 60.0,
			TopCategories: []report.CategoryTotal{
				{Name: "Food", Amount: 120, Percent: 60},
				{Name: "Travel", Amount: 80, Percent: 40},
			},
		},
		Insights: []string{"Good savings rate this month."},
	}

	out := RenderReport(generated)

	assert.Contains(t, out, "June 1 - 30, 2024")
	assert.Contains(t, out, "500.00")
	assert.Contains(t, out, "200.00")
	assert.Contains(t, out, "60.0%")
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Travel")
	assert.Contains(t, out, "Good savings rate this month.")
}

func TestRenderReportWithoutInsights(t *testing.T) {
	generated := &report.GeneratedReport{
		Period: "June 11 - 11, 2024",
		Summary: report.Summary{
			Income:   100,
			Expenses: 150,
			Balance:  -50,
		},
	}

	out := RenderReport(generated)
	assert.Contains(t, out, "-50.00")
	assert.NotContains(t, out, "Insights")
}

func TestRenderImportSummary(t *testing.T) {
	assert.Contains(t, RenderImportSummary(12), "12 transactions imported")
}
