package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountNotActive = errors.New("account is not active")
	ErrAccountNotEmpty  = errors.New("account balance must be zero before closing")

	// Transfer errors
	ErrSelfTransfer         = errors.New("cannot transfer to the same account")
	ErrInvalidAmount        = errors.New("amount must be a positive value with valid precision")
	ErrCurrencyMismatch     = errors.New("cannot transfer between different currencies")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrTransactionNotFinal  = errors.New("transaction is not in a reversible state")
	ErrDuplicateIdempotency = errors.New("idempotency key already used for this account")

	// Storage and concurrency errors
	ErrLockTimeout    = errors.New("timed out acquiring account locks")
	ErrStorageTimeout = errors.New("storage operation timed out")
	ErrStorage        = errors.New("storage failure")
)

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrEmailTaken   = errors.New("email is already registered")
	ErrForbidden    = errors.New("caller does not own the source account")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
