package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/service"
)

// SaveTransactions saves multiple transactions, skipping duplicates by hash.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, user_id, date, title, amount, type, category, payment_method
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		category := txn.Category
		if category == "" {
			category = "Uncategorized"
		}

		if _, err = stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.UserID,
			txn.Date,
			txn.Title,
			txn.Amount,
			string(txn.Type),
			category,
			string(txn.PaymentMethod),
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactions returns a user's transactions, newest first, honoring
// the filter's date range, type, and pagination.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	conditions = append(conditions, "user_id = ?")
	args = append(args, userID)

	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, string(filter.Type))
	}

	query := fmt.Sprintf(`
		SELECT id, hash, user_id, date, title, amount, type, category, payment_method
		FROM transactions
		WHERE %s
		ORDER BY date DESC, id DESC
	`, strings.Join(conditions, " AND "))

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var txnType, paymentMethod string
		if err := rows.Scan(
			&txn.ID,
			&txn.Hash,
			&txn.UserID,
			&txn.Date,
			&txn.Title,
			&txn.Amount,
			&txnType,
			&txn.Category,
			&paymentMethod,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Type = model.TransactionType(txnType)
		txn.PaymentMethod = model.PaymentMethod(paymentMethod)
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}

// SumExpensesSince returns the total of a user's expense transactions
// dated at or after since, in minor units.
func (s *SQLiteStorage) SumExpensesSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return 0, err
	}

	var total int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(ABS(amount)), 0)
		FROM transactions
		WHERE user_id = ? AND type = ? AND date >= ?
	`, userID, string(model.TypeExpense), since).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return total, nil
}

// SummarizePeriod aggregates a user's transactions over [from, to]:
// income and expense totals plus the top five expense categories sorted
// descending, all in minor units.
func (s *SQLiteStorage) SummarizePeriod(ctx context.Context, userID string, from, to time.Time) (*service.PeriodTotals, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	totals := &service.PeriodTotals{}

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN type = ? THEN ABS(amount) ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = ? THEN ABS(amount) ELSE 0 END), 0)
		FROM transactions
		WHERE user_id = ? AND date >= ? AND date <= ?
	`, string(model.TypeIncome), string(model.TypeExpense), userID, from, to).
		Scan(&totals.IncomeMinor, &totals.ExpensesMinor)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate period totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, SUM(ABS(amount)) AS total
		FROM transactions
		WHERE user_id = ? AND type = ? AND date >= ? AND date <= ?
		GROUP BY category
		ORDER BY total DESC
		LIMIT 5
	`, userID, string(model.TypeExpense), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var ct service.CategoryTotal
		if err := rows.Scan(&ct.Name, &ct.AmountMinor); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals.Categories = append(totals.Categories, ct)
	}

	return totals, rows.Err()
}
