package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/domain"
	"github.com/finwallet/ledger/internal/usecase"
	"github.com/finwallet/ledger/internal/usecase/mocks"
)

type transferFixture struct {
	uowManager  *mocks.MockUnitOfWorkManager
	accountRepo *mocks.MockAccountRepository
	txnRepo     *mocks.MockTransactionRepository
	entryRepo   *mocks.MockEntryRepository
	outboxRepo  *mocks.MockOutboxRepository
	auditRepo   *mocks.MockAuditRepository
	cache       *mocks.MockCache
	uc          *usecase.TransferUseCase
}

func newTransferFixture() *transferFixture {
	f := &transferFixture{
		uowManager:  mocks.NewMockUnitOfWorkManager(),
		accountRepo: mocks.NewMockAccountRepository(),
		txnRepo:     mocks.NewMockTransactionRepository(),
		entryRepo:   mocks.NewMockEntryRepository(),
		outboxRepo:  mocks.NewMockOutboxRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
		cache:       mocks.NewMockCache(),
	}

	f.uc = usecase.NewTransferUseCase(usecase.TransferConfig{
		UnitOfWorkManager: f.uowManager,
		AccountRepo:       f.accountRepo,
		TransactionRepo:   f.txnRepo,
		EntryRepo:         f.entryRepo,
		OutboxRepo:        f.outboxRepo,
		AuditRepo:         f.auditRepo,
		BalanceCache:      f.cache,
		IDGen:             mocks.NewMockIDGenerator(),
	})

	return f
}

func (f *transferFixture) seedAccount(id, owner, currency, balance string, status domain.AccountStatus) {
	f.accountRepo.Seed(&domain.Account{
		ID:       id,
		OwnerID:  owner,
		Currency: currency,
		Balance:  decimal.RequireFromString(balance),
		Status:   status,
	})
}

func (f *transferFixture) balance(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	acc, err := f.accountRepo.GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get account %s: %v", id, err)
	}
	return acc.Balance
}

func TestTransferUseCase_ExecuteTransfer_Success(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "100.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)

	txn, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("40.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if txn.Status != domain.TransactionStatusCompleted {
		t.Errorf("expected status completed, got %s", txn.Status)
	}
	if txn.CompletedAt == nil {
		t.Error("expected CompletedAt to be set")
	}
	if txn.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", txn.Currency)
	}

	if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("expected source balance 60.00, got %s", got)
	}
	if got := f.balance(t, "acc-b"); !got.Equal(decimal.RequireFromString("140.00")) {
		t.Errorf("expected destination balance 140.00, got %s", got)
	}

	entries, err := f.entryRepo.GetByTransaction(context.Background(), txn.ID)
	if err != nil {
		t.Fatalf("get entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	var debit, credit *domain.Entry
	for _, e := range entries {
		switch e.Direction {
		case domain.EntryDirectionDebit:
			debit = e
		case domain.EntryDirectionCredit:
			credit = e
		}
	}
	if debit == nil || credit == nil {
		t.Fatal("expected one debit and one credit entry")
	}
	if debit.AccountID != "acc-a" || credit.AccountID != "acc-b" {
		t.Errorf("entries attached to wrong accounts: debit=%s credit=%s", debit.AccountID, credit.AccountID)
	}
	if !debit.Amount.Equal(credit.Amount) {
		t.Errorf("entry amounts differ: debit=%s credit=%s", debit.Amount, credit.Amount)
	}
	if !debit.ResultingBalance.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("expected debit resulting balance 60.00, got %s", debit.ResultingBalance)
	}
	if !credit.ResultingBalance.Equal(decimal.RequireFromString("140.00")) {
		t.Errorf("expected credit resulting balance 140.00, got %s", credit.ResultingBalance)
	}

	events := f.outboxRepo.Events()
	if len(events) != 1 || events[0].EventType != domain.EventTypeTransactionCompleted {
		t.Errorf("expected one transaction.completed outbox event, got %v", events)
	}

	logs, _ := f.auditRepo.GetByResource(context.Background(), domain.AggregateTypeTransaction, txn.ID)
	if len(logs) != 1 {
		t.Errorf("expected 1 audit log, got %d", len(logs))
	}
}

func TestTransferUseCase_ExecuteTransfer_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(f *transferFixture)
		input   usecase.ExecuteTransferInput
		wantErr error
	}{
		{
			name: "negative amount rejected before lookup",
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-b",
				Amount:               decimal.RequireFromString("-5.00"),
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "zero amount rejected",
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-b",
				Amount:               decimal.Zero,
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "self transfer rejected",
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-a",
				Amount:               decimal.RequireFromString("10.00"),
			},
			wantErr: domain.ErrSelfTransfer,
		},
		{
			name: "amount exceeding currency minor units rejected",
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-b",
				Amount:               decimal.RequireFromString("10.123"),
				Currency:             "USD",
			},
			wantErr: domain.ErrInvalidAmount,
		},
		{
			name: "unknown source account",
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-missing",
				DestinationAccountID: "acc-b",
				Amount:               decimal.RequireFromString("10.00"),
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name: "frozen source account rejected",
			setup: func(f *transferFixture) {
				f.seedAccount("acc-frozen", "user-1", "USD", "100.00", domain.AccountStatusFrozen)
			},
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-frozen",
				DestinationAccountID: "acc-b",
				Amount:               decimal.RequireFromString("10.00"),
			},
			wantErr: domain.ErrAccountNotActive,
		},
		{
			name: "closed destination account rejected",
			setup: func(f *transferFixture) {
				f.seedAccount("acc-closed", "user-2", "USD", "0.00", domain.AccountStatusClosed)
			},
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-closed",
				Amount:               decimal.RequireFromString("10.00"),
			},
			wantErr: domain.ErrAccountNotActive,
		},
		{
			name: "cross-currency transfer rejected",
			setup: func(f *transferFixture) {
				f.seedAccount("acc-eur", "user-2", "EUR", "100.00", domain.AccountStatusActive)
			},
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-eur",
				Amount:               decimal.RequireFromString("10.00"),
			},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name: "request currency disagreeing with accounts rejected",
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-b",
				Amount:               decimal.RequireFromString("10.00"),
				Currency:             "EUR",
			},
			wantErr: domain.ErrCurrencyMismatch,
		},
		{
			name: "actor not owning source rejected",
			input: usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-b",
				Amount:               decimal.RequireFromString("10.00"),
				ActorID:              "user-2",
			},
			wantErr: domain.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTransferFixture()
			f.seedAccount("acc-a", "user-1", "USD", "100.00", domain.AccountStatusActive)
			f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)
			if tt.setup != nil {
				tt.setup(f)
			}

			_, err := f.uc.ExecuteTransfer(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			// Nothing may have moved.
			if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("100.00")) {
				t.Errorf("source balance changed to %s", got)
			}
			if got := f.balance(t, "acc-b"); !got.Equal(decimal.RequireFromString("100.00")) {
				t.Errorf("destination balance changed to %s", got)
			}
			if n := f.txnRepo.Count(domain.TransactionStatusCompleted); n != 0 {
				t.Errorf("expected no completed transactions, got %d", n)
			}
		})
	}
}

func TestTransferUseCase_ExecuteTransfer_InsufficientFunds(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "30.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)

	_, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("30.01"),
	})
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("source balance changed to %s", got)
	}
	if got := f.balance(t, "acc-b"); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("destination balance changed to %s", got)
	}

	entries, _ := f.entryRepo.GetByAccount(context.Background(), "acc-a", 100, 0)
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestTransferUseCase_ExecuteTransfer_ExactBalanceToZero(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "25.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "0.00", domain.AccountStatusActive)

	_, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("25.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.balance(t, "acc-a"); !got.IsZero() {
		t.Errorf("expected source balance 0, got %s", got)
	}
	if got := f.balance(t, "acc-b"); !got.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("expected destination balance 25.00, got %s", got)
	}
}

func TestTransferUseCase_ExecuteTransfer_IdempotentReplay(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "100.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)

	input := usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("40.00"),
		IdempotencyKey:       "key-1",
	}

	first, err := f.uc.ExecuteTransfer(context.Background(), input)
	if err != nil {
		t.Fatalf("first transfer: %v", err)
	}

	second, err := f.uc.ExecuteTransfer(context.Background(), input)
	if err != nil {
		t.Fatalf("replayed transfer: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("replay created a new transaction: %s vs %s", first.ID, second.ID)
	}
	if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("replay moved funds again: source balance %s", got)
	}
	if n := f.txnRepo.Count(domain.TransactionStatusCompleted); n != 1 {
		t.Errorf("expected exactly 1 completed transaction, got %d", n)
	}
}

func TestTransferUseCase_ExecuteTransfer_IdempotencyInsertRace(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "100.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)

	winner := &domain.Transaction{
		ID:                   "txn-winner",
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("40.00"),
		Currency:             "USD",
		Status:               domain.TransactionStatusCompleted,
		IdempotencyKey:       "key-race",
	}

	// The pre-check sees no prior transaction, the insert then collides with
	// a concurrent winner, and the re-fetch observes the winner's row.
	var lookups int
	f.txnRepo.GetByIdempotencyKeyFunc = func(ctx context.Context, sourceAccountID, key string) (*domain.Transaction, error) {
		lookups++
		if lookups == 1 {
			return nil, domain.ErrTransactionNotFound
		}
		return winner, nil
	}
	f.txnRepo.CreateFunc = func(ctx context.Context, uow usecase.UnitOfWork, txn *domain.Transaction) error {
		return domain.ErrDuplicateIdempotency
	}

	txn, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("40.00"),
		IdempotencyKey:       "key-race",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if txn.ID != "txn-winner" {
		t.Errorf("expected the winner's transaction, got %s", txn.ID)
	}
	if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("loser still moved funds: source balance %s", got)
	}
}

func TestTransferUseCase_ExecuteTransfer_FailedAttemptDoesNotBlockRetry(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "10.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "0.00", domain.AccountStatusActive)

	input := usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("50.00"),
		IdempotencyKey:       "key-retry",
	}

	if _, err := f.uc.ExecuteTransfer(context.Background(), input); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	// Top up and retry with the same key: the failed attempt must not be
	// replayed as a prior result.
	f.accountRepo.Seed(&domain.Account{
		ID: "acc-a", OwnerID: "user-1", Currency: "USD",
		Balance: decimal.RequireFromString("80.00"),
		Status:  domain.AccountStatusActive,
	})

	txn, err := f.uc.ExecuteTransfer(context.Background(), input)
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if txn.Status != domain.TransactionStatusCompleted {
		t.Errorf("expected completed retry, got %s", txn.Status)
	}
	if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("expected source balance 30.00 after retry, got %s", got)
	}
}

func TestTransferUseCase_ExecuteTransfer_CommitFailureRecordsFailed(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "100.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)

	commitErr := errors.New("connection reset during commit")
	f.uowManager.BeginFunc = func(ctx context.Context) (usecase.UnitOfWork, error) {
		return &mocks.MockUnitOfWork{
			CommitFunc:   func(ctx context.Context) error { return commitErr },
			RollbackFunc: func(ctx context.Context) error { return nil },
		}, nil
	}

	var recorded *domain.Transaction
	f.txnRepo.RecordFailedFunc = func(ctx context.Context, txn *domain.Transaction) error {
		recorded = txn
		return nil
	}

	_, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("40.00"),
	})
	if !errors.Is(err, commitErr) {
		t.Fatalf("expected commit error, got %v", err)
	}

	if recorded == nil {
		t.Fatal("expected a failed transaction to be recorded")
	}
	if recorded.Status != domain.TransactionStatusFailed {
		t.Errorf("expected recorded status failed, got %s", recorded.Status)
	}
}

func TestTransferUseCase_ExecuteTransfer_ConcurrentDrain(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "55.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "0.00", domain.AccountStatusActive)

	const workers = 20
	amount := decimal.RequireFromString("10.00")

	var wg sync.WaitGroup
	var mu sync.Mutex
	var completed, insufficient int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-b",
				Amount:               amount,
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				completed++
			case errors.Is(err, domain.ErrInsufficientFunds):
				insufficient++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	// floor(55/10) transfers fit; the rest must fail cleanly.
	if completed != 5 {
		t.Errorf("expected 5 completed transfers, got %d", completed)
	}
	if insufficient != workers-5 {
		t.Errorf("expected %d insufficient-funds failures, got %d", workers-5, insufficient)
	}

	if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("expected source balance 5.00, got %s", got)
	}
	if got := f.balance(t, "acc-b"); !got.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected destination balance 50.00, got %s", got)
	}

	// The entry log must explain the final balances exactly.
	if sum := f.entryRepo.SignedSum("acc-a"); !sum.Equal(decimal.RequireFromString("-50.00")) {
		t.Errorf("expected signed entry sum -50.00 for source, got %s", sum)
	}
	if sum := f.entryRepo.SignedSum("acc-b"); !sum.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("expected signed entry sum 50.00 for destination, got %s", sum)
	}
}

func TestTransferUseCase_ExecuteTransfer_OppositeDirectionsNoDeadlock(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "100.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)

	const rounds = 25
	var wg sync.WaitGroup
	errCh := make(chan error, rounds*2)

	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-a",
				DestinationAccountID: "acc-b",
				Amount:               decimal.RequireFromString("1.00"),
			})
			errCh <- err
		}()
		go func() {
			defer wg.Done()
			_, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
				SourceAccountID:      "acc-b",
				DestinationAccountID: "acc-a",
				Amount:               decimal.RequireFromString("1.00"),
			})
			errCh <- err
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("transfers did not finish; possible deadlock")
	}
	close(errCh)

	for err := range errCh {
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}

	// Equal opposing volume leaves both balances where they started.
	if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected balance 100.00 for acc-a, got %s", got)
	}
	if got := f.balance(t, "acc-b"); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected balance 100.00 for acc-b, got %s", got)
	}
}

func TestTransferUseCase_ReverseTransfer(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "100.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)

	original, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("40.00"),
	})
	if err != nil {
		t.Fatalf("transfer: %v", err)
	}

	reversal, err := f.uc.ReverseTransfer(context.Background(), usecase.ReverseTransferInput{
		TransactionID: original.ID,
	})
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}

	if reversal.ReversedTransactionID == nil || *reversal.ReversedTransactionID != original.ID {
		t.Error("reversal does not reference the original transaction")
	}
	if reversal.SourceAccountID != "acc-b" || reversal.DestinationAccountID != "acc-a" {
		t.Errorf("reversal direction wrong: %s -> %s", reversal.SourceAccountID, reversal.DestinationAccountID)
	}

	if got := f.balance(t, "acc-a"); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected acc-a restored to 100.00, got %s", got)
	}
	if got := f.balance(t, "acc-b"); !got.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected acc-b restored to 100.00, got %s", got)
	}

	stored, err := f.txnRepo.GetByID(context.Background(), original.ID)
	if err != nil {
		t.Fatalf("get original: %v", err)
	}
	if stored.Status != domain.TransactionStatusReversed {
		t.Errorf("expected original status reversed, got %s", stored.Status)
	}
	if stored.ReversedTransactionID == nil || *stored.ReversedTransactionID != reversal.ID {
		t.Error("original does not link back to the compensating transaction")
	}

	// Four entries total: the original pair plus the compensating pair.
	entriesA, _ := f.entryRepo.GetByAccount(context.Background(), "acc-a", 100, 0)
	entriesB, _ := f.entryRepo.GetByAccount(context.Background(), "acc-b", 100, 0)
	if len(entriesA)+len(entriesB) != 4 {
		t.Errorf("expected 4 entries, got %d", len(entriesA)+len(entriesB))
	}
}

func TestTransferUseCase_ReverseTransfer_RequiresCompleted(t *testing.T) {
	f := newTransferFixture()

	f.txnRepo.GetByIDFunc = func(ctx context.Context, id string) (*domain.Transaction, error) {
		return &domain.Transaction{
			ID:     id,
			Status: domain.TransactionStatusPending,
		}, nil
	}

	_, err := f.uc.ReverseTransfer(context.Background(), usecase.ReverseTransferInput{
		TransactionID: "txn-pending",
	})
	if !errors.Is(err, domain.ErrTransactionNotFinal) {
		t.Fatalf("expected ErrTransactionNotFinal, got %v", err)
	}
}

func TestTransferUseCase_ExecuteTransfer_RefreshesBalanceCache(t *testing.T) {
	f := newTransferFixture()
	f.seedAccount("acc-a", "user-1", "USD", "100.00", domain.AccountStatusActive)
	f.seedAccount("acc-b", "user-2", "USD", "100.00", domain.AccountStatusActive)

	if _, err := f.uc.ExecuteTransfer(context.Background(), usecase.ExecuteTransferInput{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               decimal.RequireFromString("40.00"),
	}); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	cached, err := f.cache.Get(context.Background(), "balance:acc-a")
	if err != nil {
		t.Fatalf("expected cached source balance: %v", err)
	}
	if got := decimal.RequireFromString(cached); !got.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("expected cached balance 60.00, got %s", cached)
	}
}
