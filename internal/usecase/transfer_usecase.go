package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/domain"
	"github.com/finwallet/ledger/internal/infrastructure/metrics"
)

// TransferUseCase is the transfer engine: it moves funds between two
// accounts as one atomic unit, writing the double-entry pair and the
// balance updates together, or nothing at all.
type TransferUseCase struct {
	uowManager   UnitOfWorkManager
	accountRepo  AccountRepository
	txnRepo      TransactionRepository
	entryRepo    EntryRepository
	outboxRepo   OutboxRepository
	auditRepo    AuditRepository
	balanceCache Cache
	idGen        IDGenerator
	metrics      *metrics.Metrics

	transferTimeout time.Duration
	cacheTTL        time.Duration
}

// TransferConfig holds dependencies for the transfer engine. OutboxRepo,
// AuditRepo and BalanceCache are optional.
type TransferConfig struct {
	UnitOfWorkManager UnitOfWorkManager
	AccountRepo       AccountRepository
	TransactionRepo   TransactionRepository
	EntryRepo         EntryRepository
	OutboxRepo        OutboxRepository
	AuditRepo         AuditRepository
	BalanceCache      Cache
	IDGen             IDGenerator
	Metrics           *metrics.Metrics
	TransferTimeout   time.Duration
	BalanceCacheTTL   time.Duration
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(cfg TransferConfig) *TransferUseCase {
	if cfg.TransferTimeout == 0 {
		cfg.TransferTimeout = DefaultTransferTimeout
	}
	if cfg.BalanceCacheTTL == 0 {
		cfg.BalanceCacheTTL = DefaultBalanceCacheTTL
	}

	return &TransferUseCase{
		uowManager:      cfg.UnitOfWorkManager,
		accountRepo:     cfg.AccountRepo,
		txnRepo:         cfg.TransactionRepo,
		entryRepo:       cfg.EntryRepo,
		outboxRepo:      cfg.OutboxRepo,
		auditRepo:       cfg.AuditRepo,
		balanceCache:    cfg.BalanceCache,
		idGen:           cfg.IDGen,
		metrics:         cfg.Metrics,
		transferTimeout: cfg.TransferTimeout,
		cacheTTL:        cfg.BalanceCacheTTL,
	}
}

// ExecuteTransferInput represents one transfer request.
type ExecuteTransferInput struct {
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
	Currency             string // optional; checked against both accounts when set
	IdempotencyKey       string
	ActorID              string // verified principal; empty skips the ownership check
	ActorIsSuperuser     bool
}

// ExecuteTransfer validates, locks both accounts in a fixed order, writes
// the transaction, its two entries and both balance updates atomically, and
// returns the completed transaction. Repeating a request with the same
// (source account, idempotency key) returns the prior transaction unchanged.
func (uc *TransferUseCase) ExecuteTransfer(ctx context.Context, input ExecuteTransferInput) (*domain.Transaction, error) {
	// Validation that needs no storage access happens before any lookup.
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if input.SourceAccountID == input.DestinationAccountID {
		return nil, domain.ErrSelfTransfer
	}

	if input.Currency != "" {
		if err := domain.ValidateCurrency(input.Currency); err != nil {
			return nil, err
		}
		if err := domain.ValidateAmountPrecision(input.Currency, input.Amount); err != nil {
			return nil, err
		}
	}

	if input.IdempotencyKey != "" {
		prior, err := uc.txnRepo.GetByIdempotencyKey(ctx, input.SourceAccountID, input.IdempotencyKey)
		if err == nil && prior.Status != domain.TransactionStatusFailed {
			return prior, nil
		}
		if err != nil && !errors.Is(err, domain.ErrTransactionNotFound) {
			return nil, err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, uc.transferTimeout)
	defer cancel()

	start := time.Now()

	txn, err := uc.executeOnce(ctx, input)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateIdempotency) {
			// A concurrent request with the same key won the insert race;
			// both callers observe the winner's transaction.
			prior, lookupErr := uc.txnRepo.GetByIdempotencyKey(ctx, input.SourceAccountID, input.IdempotencyKey)
			if lookupErr == nil {
				return prior, nil
			}
		}

		if uc.metrics != nil {
			uc.metrics.TransferErrors.WithLabelValues(transferErrorType(err)).Inc()
		}

		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersCompleted.Inc()
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
		amount, _ := txn.Amount.Float64()
		uc.metrics.TransferAmount.Observe(amount)
	}

	return txn, nil
}

func (uc *TransferUseCase) executeOnce(ctx context.Context, input ExecuteTransferInput) (*domain.Transaction, error) {
	// Lock both accounts in a deterministic order regardless of transfer
	// direction. Two opposite transfers between the same pair then acquire
	// locks in the same sequence and cannot deadlock.
	ids := orderAccountIDs(input.SourceAccountID, input.DestinationAccountID)

	uow, err := uc.uowManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, uow, ids)
	if err != nil {
		return nil, err
	}

	source, destination := pickPair(accounts, input.SourceAccountID, input.DestinationAccountID)
	if source == nil || destination == nil {
		return nil, domain.ErrAccountNotFound
	}

	if !source.IsActive() || !destination.IsActive() {
		return nil, domain.ErrAccountNotActive
	}

	if source.Currency != destination.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	if input.Currency != "" && !strings.EqualFold(input.Currency, source.Currency) {
		return nil, domain.ErrCurrencyMismatch
	}

	if err := domain.ValidateAmountPrecision(source.Currency, input.Amount); err != nil {
		return nil, err
	}

	actor := &domain.User{ID: input.ActorID, Superuser: input.ActorIsSuperuser}
	if input.ActorID != "" && !actor.CanTransferFrom(source) {
		return nil, domain.ErrForbidden
	}

	// Funds check happens under lock: a balance read before lock
	// acquisition could be invalidated by a concurrent debit.
	if err := source.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	txn := &domain.Transaction{
		ID:                   uc.idGen.Generate(),
		SourceAccountID:      input.SourceAccountID,
		DestinationAccountID: input.DestinationAccountID,
		Amount:               input.Amount,
		Currency:             source.Currency,
		Status:               domain.TransactionStatusPending,
		IdempotencyKey:       input.IdempotencyKey,
		CreatedAt:            now,
	}

	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txnRepo.Create(ctx, uow, txn); err != nil {
		return nil, err
	}

	if err := uc.writeLedger(ctx, uow, txn, source, destination, now); err != nil {
		uc.recordFailure(ctx, txn, now)
		return nil, err
	}

	if err := uow.Commit(ctx); err != nil {
		uc.recordFailure(ctx, txn, now)
		return nil, err
	}

	txn.Status = domain.TransactionStatusCompleted
	txn.CompletedAt = &now

	uc.afterCommit(ctx, txn, input.ActorID, source, destination)

	return txn, nil
}

// writeLedger applies both balance deltas, appends the double-entry pair
// and completes the transaction, all inside the given unit of work.
func (uc *TransferUseCase) writeLedger(ctx context.Context, uow UnitOfWork, txn *domain.Transaction, source, destination *domain.Account, now time.Time) error {
	sourceBalance, err := uc.accountRepo.ApplyDelta(ctx, uow, source.ID, txn.Amount.Neg(), decimal.Zero, now)
	if err != nil {
		return err
	}

	destinationBalance, err := uc.accountRepo.ApplyDelta(ctx, uow, destination.ID, txn.Amount, decimal.Zero, now)
	if err != nil {
		return err
	}

	source.Balance = sourceBalance
	destination.Balance = destinationBalance

	entries := []*domain.Entry{
		{
			ID:               uc.idGen.Generate(),
			TransactionID:    txn.ID,
			AccountID:        source.ID,
			Direction:        domain.EntryDirectionDebit,
			Amount:           txn.Amount,
			ResultingBalance: sourceBalance,
			CreatedAt:        now,
		},
		{
			ID:               uc.idGen.Generate(),
			TransactionID:    txn.ID,
			AccountID:        destination.ID,
			Direction:        domain.EntryDirectionCredit,
			Amount:           txn.Amount,
			ResultingBalance: destinationBalance,
			CreatedAt:        now,
		},
	}

	if err := uc.entryRepo.Append(ctx, uow, entries); err != nil {
		return err
	}

	if err := uc.txnRepo.MarkCompleted(ctx, uow, txn.ID, now); err != nil {
		return err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   txn.ID,
			AggregateType: domain.AggregateTypeTransaction,
			EventType:     domain.EventTypeTransactionCompleted,
			Payload: domain.MarshalState(domain.TransactionCompletedEvent{
				TransactionID:        txn.ID,
				SourceAccountID:      txn.SourceAccountID,
				DestinationAccountID: txn.DestinationAccountID,
				Amount:               txn.Amount.String(),
				Currency:             txn.Currency,
				CompletedAt:          now.Format(time.RFC3339Nano),
			}),
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, uow, event); err != nil {
			return err
		}
	}

	return nil
}

// recordFailure writes a failed transaction row outside the rolled-back
// unit. Best effort: the original error is what the caller sees.
func (uc *TransferUseCase) recordFailure(ctx context.Context, txn *domain.Transaction, now time.Time) {
	failed := *txn
	failed.Status = domain.TransactionStatusFailed
	failed.CompletedAt = &now

	_ = uc.txnRepo.RecordFailed(context.WithoutCancel(ctx), &failed)
}

// afterCommit refreshes display caches and writes the audit trail. None of
// this affects the already-committed transfer.
func (uc *TransferUseCase) afterCommit(ctx context.Context, txn *domain.Transaction, actorID string, source, destination *domain.Account) {
	if uc.balanceCache != nil {
		_ = uc.balanceCache.Set(ctx, balanceCacheKey(source.ID), source.Balance.String(), uc.cacheTTL)
		_ = uc.balanceCache.Set(ctx, balanceCacheKey(destination.ID), destination.Balance.String(), uc.cacheTTL)
	}

	if uc.auditRepo != nil {
		action := domain.AuditActionTransferExecute
		if txn.ReversedTransactionID != nil {
			action = domain.AuditActionTransferReverse
		}

		_ = uc.auditRepo.Create(ctx, &domain.AuditLog{
			ID:           uc.idGen.Generate(),
			ActorID:      actorID,
			Action:       action,
			ResourceType: domain.AggregateTypeTransaction,
			ResourceID:   txn.ID,
			AfterState:   domain.MarshalState(txn),
			Status:       domain.AuditStatusSuccess,
			CreatedAt:    txn.CreatedAt,
		})
	}
}

// ReverseTransferInput represents a request to reverse a completed transfer.
type ReverseTransferInput struct {
	TransactionID    string
	IdempotencyKey   string
	ActorID          string
	ActorIsSuperuser bool
}

// ReverseTransfer issues a compensating transfer for a completed
// transaction and marks the original reversed, atomically.
func (uc *TransferUseCase) ReverseTransfer(ctx context.Context, input ReverseTransferInput) (*domain.Transaction, error) {
	original, err := uc.txnRepo.GetByID(ctx, input.TransactionID)
	if err != nil {
		return nil, err
	}

	if original.Status != domain.TransactionStatusCompleted {
		return nil, domain.ErrTransactionNotFinal
	}

	ctx, cancel := context.WithTimeout(ctx, uc.transferTimeout)
	defer cancel()

	ids := orderAccountIDs(original.SourceAccountID, original.DestinationAccountID)

	uow, err := uc.uowManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer uow.Rollback(ctx)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, uow, ids)
	if err != nil {
		return nil, err
	}

	// The reversal debits the original destination and credits the source.
	source, destination := pickPair(accounts, original.DestinationAccountID, original.SourceAccountID)
	if source == nil || destination == nil {
		return nil, domain.ErrAccountNotFound
	}

	if !source.IsActive() || !destination.IsActive() {
		return nil, domain.ErrAccountNotActive
	}

	// Only whoever could spend from the original source may undo the spend.
	actor := &domain.User{ID: input.ActorID, Superuser: input.ActorIsSuperuser}
	if input.ActorID != "" && !actor.CanTransferFrom(destination) {
		return nil, domain.ErrForbidden
	}

	if err := source.ValidateDebit(original.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	reversal := &domain.Transaction{
		ID:                    uc.idGen.Generate(),
		SourceAccountID:       source.ID,
		DestinationAccountID:  destination.ID,
		Amount:                original.Amount,
		Currency:              original.Currency,
		Status:                domain.TransactionStatusPending,
		IdempotencyKey:        input.IdempotencyKey,
		ReversedTransactionID: &original.ID,
		CreatedAt:             now,
	}

	if err := uc.txnRepo.Create(ctx, uow, reversal); err != nil {
		return nil, err
	}

	if err := uc.writeLedger(ctx, uow, reversal, source, destination, now); err != nil {
		uc.recordFailure(ctx, reversal, now)
		return nil, err
	}

	if err := uc.txnRepo.MarkReversed(ctx, uow, original.ID, reversal.ID); err != nil {
		return nil, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   original.ID,
			AggregateType: domain.AggregateTypeTransaction,
			EventType:     domain.EventTypeTransactionReversed,
			Payload: domain.MarshalState(domain.TransactionReversedEvent{
				ReversalTransactionID: reversal.ID,
				OriginalTransactionID: original.ID,
				Amount:                original.Amount.String(),
				Currency:              original.Currency,
			}),
			CreatedAt: now,
		}

		if err := uc.outboxRepo.Create(ctx, uow, event); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		uc.recordFailure(ctx, reversal, now)
		return nil, err
	}

	reversal.Status = domain.TransactionStatusCompleted
	reversal.CompletedAt = &now

	uc.afterCommit(ctx, reversal, input.ActorID, source, destination)

	if uc.metrics != nil {
		uc.metrics.TransfersReversed.Inc()
	}

	return reversal, nil
}

func transferErrorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrAccountNotActive):
		return "account_not_active"
	case errors.Is(err, domain.ErrCurrencyMismatch):
		return "currency_mismatch"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrStorageTimeout):
		return "storage_timeout"
	default:
		return "other"
	}
}

// orderAccountIDs returns the two IDs in their total lexical order.
func orderAccountIDs(a, b string) []string {
	if b < a {
		return []string{b, a}
	}
	return []string{a, b}
}

func pickPair(accounts []*domain.Account, sourceID, destinationID string) (source, destination *domain.Account) {
	for _, a := range accounts {
		switch a.ID {
		case sourceID:
			source = a
		case destinationID:
			destination = a
		}
	}
	return source, destination
}
