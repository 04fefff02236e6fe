package storage

import (
	"fmt"

	"github.com/hollis-m/pocketwatch/internal/common"
	"github.com/hollis-m/pocketwatch/internal/model"
)

func validateTransactions(transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return fmt.Errorf("%w: no transactions to save", common.ErrInvalidInput)
	}

	for i, txn := range transactions {
		if txn.ID == "" {
			return fmt.Errorf("%w: transaction %d has no ID", common.ErrInvalidInput, i)
		}
		if txn.UserID == "" {
			return fmt.Errorf("%w: transaction %s has no user", common.ErrInvalidInput, txn.ID)
		}
		if !txn.Type.Valid() {
			return fmt.Errorf("%w: transaction %s has unknown type %q", common.ErrInvalidInput, txn.ID, txn.Type)
		}
		if txn.Date.IsZero() {
			return fmt.Errorf("%w: transaction %s has no date", common.ErrInvalidInput, txn.ID)
		}
	}

	return nil
}
