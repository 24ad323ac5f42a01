package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a transfer transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusReversed  TransactionStatus = "reversed"
)

// Transaction represents a money movement between two accounts. A completed
// transaction owns exactly two ledger entries: one debit on the source and
// one credit on the destination, with equal amounts.
type Transaction struct {
	ID                    string
	SourceAccountID       string
	DestinationAccountID  string
	Amount                decimal.Decimal
	Currency              string
	Status                TransactionStatus
	IdempotencyKey        string
	ReversedTransactionID *string
	CreatedAt             time.Time
	CompletedAt           *time.Time
}

// Validate checks structural invariants of a transfer request.
func (t *Transaction) Validate() error {
	if t.SourceAccountID == t.DestinationAccountID {
		return ErrSelfTransfer
	}

	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// IsFinal reports whether the transaction reached a terminal state.
func (t *Transaction) IsFinal() bool {
	return t.Status != TransactionStatusPending
}
