package dto

import (
	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/usecase"
)

// RegisterRequest represents a request to register a user.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest represents a request to authenticate.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	Currency string `json:"currency"`
	// OwnerID is honored only when the request carries no authenticated
	// user; otherwise the authenticated user owns the account.
	OwnerID string `json:"owner_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ownerID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:  ownerID,
		Currency: r.Currency,
	}
}

// UpdateAccountStatusRequest represents a request to change account status.
type UpdateAccountStatusRequest struct {
	Status string `json:"status"`
}

// CreateTransferRequest represents a request to move funds between accounts.
type CreateTransferRequest struct {
	SourceAccountID      string `json:"source_account_id"`
	DestinationAccountID string `json:"destination_account_id"`
	Amount               string `json:"amount"`
	Currency             string `json:"currency,omitempty"`
}

// ToUseCaseInput converts to use case input. The amount travels as a
// string to avoid any float step on the wire.
func (r *CreateTransferRequest) ToUseCaseInput(idempotencyKey, actorID string, actorIsSuperuser bool) (usecase.ExecuteTransferInput, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return usecase.ExecuteTransferInput{}, err
	}

	return usecase.ExecuteTransferInput{
		SourceAccountID:      r.SourceAccountID,
		DestinationAccountID: r.DestinationAccountID,
		Amount:               amount,
		Currency:             r.Currency,
		IdempotencyKey:       idempotencyKey,
		ActorID:              actorID,
		ActorIsSuperuser:     actorIsSuperuser,
	}, nil
}

// ReverseTransferRequest represents a request to reverse a transfer.
type ReverseTransferRequest struct {
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ReverseTransferRequest) ToUseCaseInput(transactionID, actorID string, actorIsSuperuser bool) usecase.ReverseTransferInput {
	return usecase.ReverseTransferInput{
		TransactionID:    transactionID,
		IdempotencyKey:   r.IdempotencyKey,
		ActorID:          actorID,
		ActorIsSuperuser: actorIsSuperuser,
	}
}
