package dto

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreateTransferRequest_ToUseCaseInput(t *testing.T) {
	req := CreateTransferRequest{
		SourceAccountID:      "acc-a",
		DestinationAccountID: "acc-b",
		Amount:               "10.25",
		Currency:             "USD",
	}

	input, err := req.ToUseCaseInput("key-1", "user-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if input.SourceAccountID != "acc-a" || input.DestinationAccountID != "acc-b" {
		t.Fatalf("unexpected accounts: %+v", input)
	}
	if !input.Amount.Equal(decimal.RequireFromString("10.25")) {
		t.Fatalf("expected amount 10.25, got %s", input.Amount)
	}
	if input.IdempotencyKey != "key-1" || input.ActorID != "user-1" {
		t.Fatalf("unexpected actor fields: %+v", input)
	}
}

func TestCreateTransferRequest_RejectsBadAmount(t *testing.T) {
	for _, amount := range []string{"", "ten", "10,50"} {
		req := CreateTransferRequest{Amount: amount}
		if _, err := req.ToUseCaseInput("", "", false); err == nil {
			t.Errorf("expected error for amount %q", amount)
		}
	}
}

func TestCreateTransferRequest_PreservesExactDecimal(t *testing.T) {
	// String amounts must not pass through a float step.
	req := CreateTransferRequest{Amount: "0.1"}
	input, err := req.ToUseCaseInput("", "", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if input.Amount.String() != "0.1" {
		t.Fatalf("expected exact 0.1, got %s", input.Amount)
	}
}
