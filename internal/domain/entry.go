package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection distinguishes the two sides of a double-entry pair.
type EntryDirection string

const (
	EntryDirectionDebit  EntryDirection = "debit"
	EntryDirectionCredit EntryDirection = "credit"
)

// Entry is a single immutable ledger record. Entries are written in pairs
// per transaction and are never updated or deleted; corrections are new
// reversing transactions.
type Entry struct {
	ID               string
	TransactionID    string
	AccountID        string
	Direction        EntryDirection
	Amount           decimal.Decimal
	ResultingBalance decimal.Decimal
	CreatedAt        time.Time
}

// SignedAmount returns the amount as it affects the account balance:
// negative for debits, positive for credits.
func (e *Entry) SignedAmount() decimal.Decimal {
	if e.Direction == EntryDirectionDebit {
		return e.Amount.Neg()
	}
	return e.Amount
}
