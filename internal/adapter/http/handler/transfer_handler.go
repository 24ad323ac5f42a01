package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finwallet/ledger/internal/adapter/http/dto"
	"github.com/finwallet/ledger/internal/adapter/http/middleware"
	"github.com/finwallet/ledger/internal/domain"
	"github.com/finwallet/ledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	ExecuteTransfer(ctx context.Context, input usecase.ExecuteTransferInput) (*domain.Transaction, error)
	ReverseTransfer(ctx context.Context, input usecase.ReverseTransferInput) (*domain.Transaction, error)
}

// QueryService defines read access to transactions and entries.
type QueryService interface {
	GetTransaction(ctx context.Context, id string) (*domain.Transaction, []*domain.Entry, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) (*usecase.TransactionPage, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
	queryUC    QueryService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, queryUC QueryService) *TransferHandler {
	return &TransferHandler{
		transferUC: transferUC,
		queryUC:    queryUC,
	}
}

// Create executes a new transfer.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var actorID string
	var superuser bool
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		actorID = user.ID
		superuser = user.Superuser
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	input, err := req.ToUseCaseInput(idempotencyKey, actorID, superuser)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	txn, err := h.transferUC.ExecuteTransfer(r.Context(), input)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to execute transfer", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Reverse issues a compensating transfer for a completed transaction.
func (h *TransferHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	var req dto.ReverseTransferRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	var actorID string
	var superuser bool
	if user, ok := middleware.GetUserFromContext(r.Context()); ok {
		actorID = user.ID
		superuser = user.Superuser
	}

	reversal, err := h.transferUC.ReverseTransfer(r.Context(), req.ToUseCaseInput(id, actorID, superuser))
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(reversal))
}

// Get retrieves a transaction with its ledger entries.
func (h *TransferHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing transaction ID", "")
		return
	}

	txn, entries, err := h.queryUC.GetTransaction(r.Context(), id)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get transaction", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionDetailResponse{
		Transaction: dto.TransactionFromDomain(txn),
		Entries:     dto.EntriesFromDomain(entries),
	})
}

// ListByAccount lists transactions touching an account, newest first.
func (h *TransferHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	page, err := h.queryUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		AccountID: accountID,
		Cursor:    r.URL.Query().Get("cursor"),
		Limit:     parseIntQuery(r, "limit", 20),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionPageFromUseCase(page))
}
