package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/finwallet/ledger/internal/adapter/http/dto"
)

func TestTransferAPI(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	stack, cleanup := newTestStack(t)
	defer cleanup()

	postTransfer := func(t *testing.T, req dto.CreateTransferRequest, idempotencyKey string) *httptest.ResponseRecorder {
		t.Helper()

		body, _ := json.Marshal(req)
		r := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", bytes.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		if idempotencyKey != "" {
			r.Header.Set("Idempotency-Key", idempotencyKey)
		}

		w := httptest.NewRecorder()
		stack.Router.ServeHTTP(w, r)
		return w
	}

	t.Run("completed transfer moves funds and writes two entries", func(t *testing.T) {
		stack.DB.TruncateAll(ctx)

		owner := stack.DB.CreateTestUser(ctx, "owner@example.com", false)
		source := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.RequireFromString("1000.00"))
		dest := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.Zero)

		w := postTransfer(t, dto.CreateTransferRequest{
			SourceAccountID:      source.ID,
			DestinationAccountID: dest.ID,
			Amount:               "100.50",
		}, "")

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var resp dto.TransactionResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
		if resp.Status != "completed" {
			t.Fatalf("expected completed transaction, got %s", resp.Status)
		}

		// The detail endpoint returns the debit and credit pair.
		r := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+resp.ID, nil)
		w2 := httptest.NewRecorder()
		stack.Router.ServeHTTP(w2, r)

		if w2.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w2.Code, w2.Body.String())
		}

		var detail dto.TransactionDetailResponse
		if err := json.Unmarshal(w2.Body.Bytes(), &detail); err != nil {
			t.Fatalf("failed to parse detail: %v", err)
		}
		if len(detail.Entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(detail.Entries))
		}

		var debits, credits int
		for _, e := range detail.Entries {
			switch e.Direction {
			case "debit":
				debits++
				if e.AccountID != source.ID {
					t.Fatalf("debit on wrong account: %s", e.AccountID)
				}
				if !e.ResultingBalance.Equal(decimal.RequireFromString("899.50")) {
					t.Fatalf("unexpected source resulting balance: %s", e.ResultingBalance)
				}
			case "credit":
				credits++
				if e.AccountID != dest.ID {
					t.Fatalf("credit on wrong account: %s", e.AccountID)
				}
				if !e.ResultingBalance.Equal(decimal.RequireFromString("100.50")) {
					t.Fatalf("unexpected destination resulting balance: %s", e.ResultingBalance)
				}
			}
		}
		if debits != 1 || credits != 1 {
			t.Fatalf("expected one debit and one credit, got %d/%d", debits, credits)
		}
	})

	t.Run("insufficient funds is rejected and nothing moves", func(t *testing.T) {
		stack.DB.TruncateAll(ctx)

		owner := stack.DB.CreateTestUser(ctx, "owner@example.com", false)
		source := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.RequireFromString("30.00"))
		dest := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.Zero)

		w := postTransfer(t, dto.CreateTransferRequest{
			SourceAccountID:      source.ID,
			DestinationAccountID: dest.ID,
			Amount:               "30.01",
		}, "")

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
		}

		balance, err := stack.QueryUC.GetEntriesByAccount(ctx, entriesInput(source.ID))
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(balance) != 0 {
			t.Fatalf("expected no entries after failed transfer, got %d", len(balance))
		}
	})

	t.Run("currency mismatch is rejected", func(t *testing.T) {
		stack.DB.TruncateAll(ctx)

		owner := stack.DB.CreateTestUser(ctx, "owner@example.com", false)
		source := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.RequireFromString("50.00"))
		dest := stack.DB.CreateTestAccount(ctx, owner.ID, "EUR", decimal.Zero)

		w := postTransfer(t, dto.CreateTransferRequest{
			SourceAccountID:      source.ID,
			DestinationAccountID: dest.ID,
			Amount:               "10.00",
		}, "")

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("repeated idempotency key replays the first response", func(t *testing.T) {
		stack.DB.TruncateAll(ctx)
		stack.RedisClient.FlushAll(ctx)

		owner := stack.DB.CreateTestUser(ctx, "owner@example.com", false)
		source := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.RequireFromString("100.00"))
		dest := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.Zero)

		req := dto.CreateTransferRequest{
			SourceAccountID:      source.ID,
			DestinationAccountID: dest.ID,
			Amount:               "25.00",
		}

		w1 := postTransfer(t, req, "transfer-key-1")
		if w1.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w1.Code, w1.Body.String())
		}

		w2 := postTransfer(t, req, "transfer-key-1")
		if w2.Header().Get("X-Idempotency-Replay") != "true" {
			t.Fatalf("expected replayed response, got status %d", w2.Code)
		}

		var first, second dto.TransactionResponse
		if err := json.Unmarshal(w1.Body.Bytes(), &first); err != nil {
			t.Fatalf("failed to parse first response: %v", err)
		}
		if err := json.Unmarshal(w2.Body.Bytes(), &second); err != nil {
			t.Fatalf("failed to parse second response: %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("expected same transaction, got %s and %s", first.ID, second.ID)
		}

		// Funds moved exactly once.
		entries, err := stack.QueryUC.GetEntriesByAccount(ctx, entriesInput(source.ID))
		if err != nil {
			t.Fatalf("failed to list entries: %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("expected a single debit entry, got %d", len(entries))
		}
	})
}

func TestTransferListPagination(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	stack, cleanup := newTestStack(t)
	defer cleanup()

	stack.DB.TruncateAll(ctx)

	owner := stack.DB.CreateTestUser(ctx, "owner@example.com", false)
	source := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.RequireFromString("1000.00"))
	dest := stack.DB.CreateTestAccount(ctx, owner.ID, "USD", decimal.Zero)

	for i := 0; i < 5; i++ {
		if _, err := stack.TransferUC.ExecuteTransfer(ctx, transferInput(source.ID, dest.ID, "1.00")); err != nil {
			t.Fatalf("transfer %d failed: %v", i, err)
		}
	}

	seen := map[string]bool{}
	cursor := ""
	pages := 0
	for {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/"+source.ID+"/transactions?limit=2&cursor="+cursor, nil)
		w := httptest.NewRecorder()
		stack.Router.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var page dto.TransactionPageResponse
		if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
			t.Fatalf("failed to parse page: %v", err)
		}

		for _, txn := range page.Transactions {
			if seen[txn.ID] {
				t.Fatalf("transaction %s returned twice", txn.ID)
			}
			seen[txn.ID] = true
		}

		pages++
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor

		if pages > 5 {
			t.Fatal("pagination did not terminate")
		}
	}

	if len(seen) != 5 {
		t.Fatalf("expected 5 distinct transactions across pages, got %d", len(seen))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages, got %d", pages)
	}
}

