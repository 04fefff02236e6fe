package insight

import (
	"fmt"
	"strings"

	"github.com/hollis-m/pocketwatch/internal/report"
)

// BuildPrompt renders a deterministic prompt embedding every summary
// figure and category line. The same summary always yields the same
// prompt, which keeps temperature-0 responses repeatable and cacheable.
func BuildPrompt(summary report.Summary, periodLabel string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this personal financial summary for the period %s:\n\n", periodLabel)
	fmt.Fprintf(&b, "- Total income: %.2f\n", summary.Income)
	fmt.Fprintf(&b, "- Total expenses: %.2f\n", summary.Expenses)
	fmt.Fprintf(&b, "- Available balance: %.2f\n", summary.Balance)
	fmt.Fprintf(&b, "- Savings rate: %.1f%%\n", summary.SavingsRate)

	if len(summary.TopCategories) > 0 {
		b.WriteString("\nTop spending categories:\n")
		for _, cat := range summary.TopCategories {
			fmt.Fprintf(&b, "- %s: %.2f (%d%% of expenses)\n", cat.Name, cat.Amount, cat.Percent)
		}
	}

	b.WriteString(`
Based on this summary, provide 3 to 5 short, specific, actionable insights about spending habits and savings.
Each insight must be a single sentence under 25 words.
Respond with ONLY a JSON array of strings, for example:
["You saved 60% of your income this period.", "Food is your largest expense category."]`)

	return b.String()
}
