// Package testutil provides shared helpers for test data setup.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hollis-m/pocketwatch/internal/model"
	"github.com/hollis-m/pocketwatch/internal/storage"
)

// SetupTestDB creates a migrated in-memory SQLite store and registers
// cleanup with the test.
func SetupTestDB(t *testing.T) *storage.SQLiteStorage {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

// Txn builds a transaction with sensible defaults for tests. Amount is
// in minor units.
func Txn(userID string, txnType model.TransactionType, amountMinor int64, category string, date time.Time) model.Transaction {
	return model.Transaction{
		ID:            uuid.NewString(),
		UserID:        userID,
		Type:          txnType,
		Amount:        amountMinor,
		Title:         category + " transaction",
		Category:      category,
		PaymentMethod: model.PaymentCard,
		Date:          date,
	}
}
