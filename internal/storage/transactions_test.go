package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/service"
	"github.com/hollis-m/pocketwatch/internal/testutil"
)

func TestSummarizePeriod(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	day := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		testutil.Txn("user-1", model.TypeIncome, 50000, "Salary", day),
		testutil.Txn("user-1", model.TypeExpense, 12000, "Food", day),
		testutil.Txn("user-1", model.TypeExpense, 8000, "Travel", day.Add(time.Hour)),
		// Another user's data must not leak into the aggregation.
		testutil.Txn("user-2", model.TypeExpense, 99999, "Food", day),
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)
	totals, err := store.SummarizePeriod(ctx, "user-1", from, to)
	if err != nil {
		t.Fatalf("SummarizePeriod: %v", err)
	}

	if totals.IncomeMinor != 50000 {
		t.Errorf("income = %d, want 50000", totals.IncomeMinor)
	}
	if totals.ExpensesMinor != 20000 {
		t.Errorf("expenses = %d, want 20000", totals.ExpensesMinor)
	}
	if len(totals.Categories) != 2 {
		t.Fatalf("categories = %d, want 2", len(totals.Categories))
	}
	if totals.Categories[0].Name != "Food" || totals.Categories[0].AmountMinor != 12000 {
		t.Errorf("top category = %+v, want Food/12000", totals.Categories[0])
	}
	if totals.Categories[1].Name != "Travel" || totals.Categories[1].AmountMinor != 8000 {
		t.Errorf("second category = %+v, want Travel/8000", totals.Categories[1])
	}
}

func TestSummarizePeriod_EmptyRange(t *testing.T) {
	store := testutil.SetupTestDB(t)

	totals, err := store.SummarizePeriod(context.Background(), "user-1",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SummarizePeriod: %v", err)
	}
	if totals.IncomeMinor != 0 || totals.ExpensesMinor != 0 || len(totals.Categories) != 0 {
		t.Errorf("expected zero totals, got %+v", totals)
	}
}

func TestSummarizePeriod_TopFiveCap(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	categories := []string{"Food", "Travel", "Rent", "Utilities", "Fun", "Books", "Gifts"}
	var txns []model.Transaction
	for i, cat := range categories {
		txns = append(txns, testutil.Txn("user-1", model.TypeExpense, int64(1000*(i+1)), cat, day))
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	totals, err := store.SummarizePeriod(ctx, "user-1", day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SummarizePeriod: %v", err)
	}
	if len(totals.Categories) != 5 {
		t.Fatalf("categories = %d, want 5", len(totals.Categories))
	}
	for i := 1; i < len(totals.Categories); i++ {
		if totals.Categories[i].AmountMinor > totals.Categories[i-1].AmountMinor {
			t.Errorf("categories not sorted descending at %d: %+v", i, totals.Categories)
		}
	}
	// Gifts (7000) must be on top, Rent (3000) must be the cutoff.
	if totals.Categories[0].Name != "Gifts" {
		t.Errorf("top category = %s, want Gifts", totals.Categories[0].Name)
	}
	if totals.Categories[4].Name != "Rent" {
		t.Errorf("fifth category = %s, want Rent", totals.Categories[4].Name)
	}
}

func TestSaveTransactions_DuplicateHashIgnored(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	day := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	txn := testutil.Txn("user-1", model.TypeExpense, 500, "Food", day)
	if err := store.SaveTransactions(ctx, []model.Transaction{txn}); err != nil {
		t.Fatalf("first save: %v", err)
	}

	// Same content, new ID: the hash collides and the row is skipped.
	dup := txn
	dup.ID = "different-id"
	dup.Hash = ""
	dup.Title = txn.Title
	if err := store.SaveTransactions(ctx, []model.Transaction{dup}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.GetTransactions(ctx, "user-1", service.TransactionFilter{})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("transactions = %d, want 1", len(got))
	}
}

func TestSumExpensesSince(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()

	cutoff := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		testutil.Txn("user-1", model.TypeExpense, 1000, "Food", cutoff.AddDate(0, 0, -1)),
		testutil.Txn("user-1", model.TypeExpense, 2500, "Food", cutoff),
		testutil.Txn("user-1", model.TypeExpense, 1500, "Travel", cutoff.AddDate(0, 0, 3)),
		testutil.Txn("user-1", model.TypeIncome, 90000, "Salary", cutoff.AddDate(0, 0, 2)),
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	total, err := store.SumExpensesSince(ctx, "user-1", cutoff)
	if err != nil {
		t.Fatalf("SumExpensesSince: %v", err)
	}
	if total != 4000 {
		t.Errorf("total = %d, want 4000", total)
	}
}

func TestGetTransactions_Filter(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	var txns []model.Transaction
	for i := 0; i < 10; i++ {
		txns = append(txns, testutil.Txn("user-1", model.TypeExpense, 100, "Food", base.AddDate(0, 0, i)))
	}
	if err := store.SaveTransactions(ctx, txns); err != nil {
		t.Fatalf("SaveTransactions: %v", err)
	}

	from := base.AddDate(0, 0, 2)
	to := base.AddDate(0, 0, 5)
	got, err := store.GetTransactions(ctx, "user-1", service.TransactionFilter{
		StartDate: &from,
		EndDate:   &to,
		Limit:     3,
	})
	if err != nil {
		t.Fatalf("GetTransactions: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("transactions = %d, want 3", len(got))
	}
	// Newest first.
	if !got[0].Date.After(got[1].Date) {
		t.Errorf("expected descending date order, got %v then %v", got[0].Date, got[1].Date)
	}
}
