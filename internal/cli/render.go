package cli

import (
	"fmt"
	"strings"

	"github.com/hollis-m/pocketwatch/internal/report"
)

// RenderReport formats a generated report for terminal display.
func RenderReport(generated *report.GeneratedReport) string {
	var b strings.Builder

	s := generated.Summary
	b.WriteString(fmt.Sprintf("%s  %s\n", BoldStyle.Render("Income"), fmt.Sprintf("%.2f", s.Income)))
	b.WriteString(fmt.Sprintf("%s %s\n", BoldStyle.Render("Expenses"), fmt.Sprintf("%.2f", s.Expenses)))
	b.WriteString(fmt.Sprintf("%s  %s\n", BoldStyle.Render("Balance"), renderBalance(s.Balance)))
	b.WriteString(fmt.Sprintf("%s %s%%\n", BoldStyle.Render("Savings"), fmt.Sprintf("%.1f", s.SavingsRate)))

	if len(s.TopCategories) > 0 {
		b.WriteString("\n" + SubtleStyle.Render("Top categories") + "\n")
		for _, cat := range s.TopCategories {
			b.WriteString(fmt.Sprintf("  %-20s %10.2f  %3d%%\n", cat.Name, cat.Amount, cat.Percent))
		}
	}

	if len(generated.Insights) > 0 {
		b.WriteString("\n" + SubtleStyle.Render("Insights") + "\n")
		for _, insight := range generated.Insights {
			b.WriteString("  • " + insight + "\n")
		}
	}

	return RenderBox("Report "+generated.Period, strings.TrimRight(b.String(), "\n"))
}

func renderBalance(balance float64) string {
	text := fmt.Sprintf("%.2f", balance)
	if balance < 0 {
		return ErrorStyle.Render(text)
	}
	return SuccessStyle.Render(text)
}

// RenderImportSummary formats the outcome of a statement import.
// Duplicates are dropped by hash on insert, so the count is an upper
// bound on new rows.
func RenderImportSummary(parsed int) string {
	return FormatSuccess(fmt.Sprintf("%d transactions imported", parsed))
}
