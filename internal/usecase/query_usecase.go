package usecase

import (
	"context"

	"github.com/finwallet/ledger/internal/domain"
)

// QueryUseCase is the read side: it projects stored transactions and
// entries without enforcing any invariants.
type QueryUseCase struct {
	txnRepo   TransactionRepository
	entryRepo EntryRepository
}

// NewQueryUseCase creates a new QueryUseCase.
func NewQueryUseCase(txnRepo TransactionRepository, entryRepo EntryRepository) *QueryUseCase {
	return &QueryUseCase{
		txnRepo:   txnRepo,
		entryRepo: entryRepo,
	}
}

// GetTransaction returns a transaction with its ledger entries.
func (uc *QueryUseCase) GetTransaction(ctx context.Context, id string) (*domain.Transaction, []*domain.Entry, error) {
	txn, err := uc.txnRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	entries, err := uc.entryRepo.GetByTransaction(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return txn, entries, nil
}

// ListTransactionsInput represents input for listing transactions.
type ListTransactionsInput struct {
	AccountID string
	Cursor    string
	Limit     int
}

// TransactionPage is one page of transactions, newest first. NextCursor is
// empty when the page is the last one.
type TransactionPage struct {
	Transactions []*domain.Transaction
	NextCursor   string
}

// ListTransactions lists transactions for an account ordered by creation
// time descending, restartable from a cursor.
func (uc *QueryUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	// Fetch one extra row to detect whether another page exists.
	txns, err := uc.txnRepo.ListByAccount(ctx, input.AccountID, input.Cursor, input.Limit+1)
	if err != nil {
		return nil, err
	}

	page := &TransactionPage{Transactions: txns}
	if len(txns) > input.Limit {
		page.Transactions = txns[:input.Limit]
		page.NextCursor = txns[input.Limit-1].ID
	}

	return page, nil
}

// GetEntriesByAccountInput represents input for listing entries.
type GetEntriesByAccountInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// GetEntriesByAccount lists ledger entries for an account.
func (uc *QueryUseCase) GetEntriesByAccount(ctx context.Context, input GetEntriesByAccountInput) ([]*domain.Entry, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	return uc.entryRepo.GetByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}
