package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/usecase"
	"github.com/finwallet/ledger/internal/usecase/mocks"
)

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	tests := []struct {
		name         string
		balanceTotal string
		entryTotal   string
		unbalanced   []string
		repoErr      error
		wantOK       bool
		wantErr      error
	}{
		{
			name:         "balanced ledger",
			balanceTotal: "0",
			entryTotal:   "0",
			wantOK:       true,
		},
		{
			name:         "balances drifted from entries",
			balanceTotal: "0.01",
			entryTotal:   "0",
			wantErr:      usecase.ErrInconsistentLedger,
		},
		{
			name:         "entry log out of balance",
			balanceTotal: "0",
			entryTotal:   "-5.00",
			wantErr:      usecase.ErrInconsistentLedger,
		},
		{
			// Two corrupted accounts cancel in the totals but not in the
			// per-account comparison.
			name:         "opposite corruptions cancel globally",
			balanceTotal: "0",
			entryTotal:   "0",
			unbalanced:   []string{"acc-1", "acc-2"},
			wantErr:      usecase.ErrInconsistentLedger,
		},
		{
			name:    "storage error propagated",
			repoErr: errors.New("query timeout"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockLedgerRepository{
				CheckConsistencyFunc: func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
					if tt.repoErr != nil {
						return decimal.Zero, decimal.Zero, tt.repoErr
					}
					return decimal.RequireFromString(tt.balanceTotal),
						decimal.RequireFromString(tt.entryTotal), nil
				},
				FindUnbalancedAccountsFunc: func(ctx context.Context, limit int) ([]string, error) {
					return tt.unbalanced, nil
				},
			}

			uc := usecase.NewLedgerUseCase(repo)
			ok, err := uc.CheckConsistency(context.Background())

			if tt.repoErr != nil {
				if !errors.Is(err, tt.repoErr) {
					t.Fatalf("expected %v, got %v", tt.repoErr, err)
				}
				return
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("expected ok=%v, got %v", tt.wantOK, ok)
			}
		})
	}
}
