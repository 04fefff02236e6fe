package notify

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/hollis-m/pocketwatch/internal/report"
)

var bodyTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<html>
<body style="font-family: sans-serif; color: #222;">
  <h2>Financial report for {{.Report.Period}}</h2>
  {{if .Username}}<p>Hi {{.Username}},</p>{{end}}
  <p>Here is your financial summary:</p>
  <table cellpadding="6" cellspacing="0" border="0">
    <tr><td>Total income</td><td align="right"><b>{{money .Report.Summary.Income}}</b></td></tr>
    <tr><td>Total expenses</td><td align="right"><b>{{money .Report.Summary.Expenses}}</b></td></tr>
    <tr><td>Available balance</td><td align="right"><b>{{money .Report.Summary.Balance}}</b></td></tr>
    <tr><td>Savings rate</td><td align="right"><b>{{.Report.Summary.SavingsRate}}%</b></td></tr>
  </table>
  {{if .Report.Summary.TopCategories}}
  <h3>Top spending categories</h3>
  <table cellpadding="6" cellspacing="0" border="0">
    {{range .Report.Summary.TopCategories}}
    <tr><td>{{.Name}}</td><td align="right">{{money .Amount}}</td><td align="right">{{.Percent}}%</td></tr>
    {{end}}
  </table>
  {{end}}
  {{if .Report.Insights}}
  <h3>Insights</h3>
  <ul>
    {{range .Report.Insights}}<li>{{.}}</li>{{end}}
  </ul>
  {{end}}
</body>
</html>`))

// RenderBody renders the HTML body for a report email.
func RenderBody(email report.Email) (string, error) {
	var b strings.Builder
	if err := bodyTemplate.Execute(&b, email); err != nil {
		return "", err
	}
	return b.String(), nil
}
