package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/testutil"
)

type stubInsights struct {
	insights []string
	calls    int
}

func (s *stubInsights) Insights(_ context.Context, _ Summary, _ string) []string {
	s.calls++
	return s.insights
}

type stubMailer struct {
	err  error
	sent []Email
}

func (m *stubMailer) SendReport(_ context.Context, email Email) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func seedJuneTransactions(t *testing.T, store interface {
	SaveTransactions(ctx context.Context, txns []model.Transaction) error
}) {
	t.Helper()
	day := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		testutil.Txn("user-1", model.TypeIncome, 50000, "Salary", day),
		testutil.Txn("user-1", model.TypeExpense, 12000, "Food", day),
		testutil.Txn("user-1", model.TypeExpense, 8000, "Travel", day),
	}
	require.NoError(t, store.SaveTransactions(context.Background(), txns))
}

func juneRange() (time.Time, time.Time) {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
}

func TestGenerate_Summary(t *testing.T) {
	store := testutil.SetupTestDB(t)
	seedJuneTransactions(t, store)

	insights := &stubInsights{insights: []string{"Spend less on travel", "Good savings rate"}}
	svc := NewService(store, insights, nil, nil)

	from, to := juneRange()
	got, err := svc.Generate(context.Background(), "user-1", from, to, Options{})
	require.NoError(t, err)

	assert.Equal(t, "June 1 - 30, 2024", got.Period)
	assert.Equal(t, 500.00, got.Summary.Income)
	assert.Equal(t, 200.00, got.Summary.Expenses)
	assert.Equal(t, 300.00, got.Summary.Balance)
	assert.Equal(t, 60.0, got.Summary.SavingsRate)

	require.Len(t, got.Summary.TopCategories, 2)
	assert.Equal(t, CategoryTotal{Name: "Food", Amount: 120.00, Percent: 60}, got.Summary.TopCategories[0])
	assert.Equal(t, CategoryTotal{Name: "Travel", Amount: 80.00, Percent: 40}, got.Summary.TopCategories[1])

	assert.Equal(t, []string{"Spend less on travel", "Good savings rate"}, got.Insights)
	assert.Equal(t, 1, insights.calls)
}

func TestGenerate_NoActivity(t *testing.T) {
	store := testutil.SetupTestDB(t)
	svc := NewService(store, nil, nil, nil)

	from, to := juneRange()
	_, err := svc.Generate(context.Background(), "user-1", from, to, Options{})
	require.ErrorIs(t, err, common.ErrNoActivity)

	// No audit record for a no-activity window.
	page, err := store.GetReports(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	assert.Zero(t, page.TotalCount)
}

func TestGenerate_RecordsSentWithoutEmail(t *testing.T) {
	store := testutil.SetupTestDB(t)
	seedJuneTransactions(t, store)
	svc := NewService(store, nil, nil, nil)

	from, to := juneRange()
	_, err := svc.Generate(context.Background(), "user-1", from, to, Options{})
	require.NoError(t, err)

	page, err := store.GetReports(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Reports, 1)
	assert.Equal(t, model.ReportSent, page.Reports[0].Status)
	assert.Equal(t, "June 1 - 30, 2024", page.Reports[0].Period)

	// The snapshot must round-trip to the generated report.
	var snapshot GeneratedReport
	require.NoError(t, json.Unmarshal([]byte(page.Reports[0].Summary), &snapshot))
	assert.Equal(t, 500.00, snapshot.Summary.Income)
}

func TestGenerate_SkipAuditLeavesNoRecord(t *testing.T) {
	store := testutil.SetupTestDB(t)
	seedJuneTransactions(t, store)
	svc := NewService(store, nil, nil, nil)

	from, to := juneRange()
	generated, err := svc.Generate(context.Background(), "user-1", from, to, Options{SkipAudit: true})
	require.NoError(t, err)
	assert.Equal(t, 500.00, generated.Summary.Income)

	page, err := store.GetReports(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Reports)
}

func TestGenerate_EmailSuccess(t *testing.T) {
	store := testutil.SetupTestDB(t)
	seedJuneTransactions(t, store)

	mailer := &stubMailer{}
	svc := NewService(store, nil, mailer, nil)

	from, to := juneRange()
	_, err := svc.Generate(context.Background(), "user-1", from, to, Options{
		SendEmail: true,
		Recipient: "user1@example.com",
		Username:  "User One",
		Frequency: "MANUAL",
	})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "user1@example.com", mailer.sent[0].To)
	assert.Equal(t, "MANUAL", mailer.sent[0].Frequency)

	page, err := store.GetReports(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Reports, 1)
	assert.Equal(t, model.ReportSent, page.Reports[0].Status)
}

func TestGenerate_EmailFailureRecordedNotRaised(t *testing.T) {
	store := testutil.SetupTestDB(t)
	seedJuneTransactions(t, store)

	mailer := &stubMailer{err: errors.New("smtp connection refused")}
	svc := NewService(store, nil, mailer, nil)

	from, to := juneRange()
	got, err := svc.Generate(context.Background(), "user-1", from, to, Options{
		SendEmail: true,
		Recipient: "user1@example.com",
	})
	require.NoError(t, err, "email failure must not fail report generation")
	require.NotNil(t, got)

	page, err := store.GetReports(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, page.Reports, 1)
	assert.Equal(t, model.ReportFailed, page.Reports[0].Status)
}

func TestGenerate_ExpenseOnlyWindow(t *testing.T) {
	store := testutil.SetupTestDB(t)
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveTransactions(context.Background(), []model.Transaction{
		testutil.Txn("user-1", model.TypeExpense, 10000, "Rent", day),
	}))

	svc := NewService(store, nil, nil, nil)
	from, to := juneRange()
	got, err := svc.Generate(context.Background(), "user-1", from, to, Options{})
	require.NoError(t, err)

	assert.Zero(t, got.Summary.Income)
	assert.Equal(t, 100.00, got.Summary.Expenses)
	assert.Equal(t, 0.0, got.Summary.SavingsRate, "savings rate clamps to 0 when income <= 0")
	require.Len(t, got.Summary.TopCategories, 1)
	assert.Equal(t, 100, got.Summary.TopCategories[0].Percent)
}

func TestGenerate_PercentagesBounded(t *testing.T) {
	store := testutil.SetupTestDB(t)
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	var txns []model.Transaction
	for i := 0; i < 7; i++ {
		txns = append(txns, testutil.Txn("user-1", model.TypeExpense, 1000+int64(i), fmt.Sprintf("Cat%d", i), day))
	}
	require.NoError(t, store.SaveTransactions(context.Background(), txns))

	svc := NewService(store, nil, nil, nil)
	from, to := juneRange()
	got, err := svc.Generate(context.Background(), "user-1", from, to, Options{})
	require.NoError(t, err)

	require.LessOrEqual(t, len(got.Summary.TopCategories), 5)
	sum := 0
	for _, ct := range got.Summary.TopCategories {
		sum += ct.Percent
	}
	assert.LessOrEqual(t, sum, 100+len(got.Summary.TopCategories), "percent sum within rounding tolerance")
}
