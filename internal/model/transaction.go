package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	// TypeIncome marks transactions that add to the user's balance.
	TypeIncome TransactionType = "INCOME"
	// TypeExpense marks transactions that reduce the user's balance.
	TypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether t is a known transaction type.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// PaymentMethod describes how a transaction was paid.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "CARD"
	PaymentCash         PaymentMethod = "CASH"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMobile       PaymentMethod = "MOBILE_PAYMENT"
	PaymentOther        PaymentMethod = "OTHER"
)

// Transaction represents a single recorded financial transaction.
// Amount is stored in minor currency units (cents) to avoid
// floating-point drift; conversion to major units happens only at the
// report boundary.
type Transaction struct {
	Date          time.Time
	ID            string
	UserID        string
	Title         string
	Category      string
	Hash          string
	Type          TransactionType
	PaymentMethod PaymentMethod
	Amount        int64 // minor units, sign follows the source record
}

// GenerateHash creates a stable hash for duplicate detection across
// repeated statement imports.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%d:%s:%s",
		t.UserID,
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Title,
		t.Type)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
