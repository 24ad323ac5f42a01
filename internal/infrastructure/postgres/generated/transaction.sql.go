
package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :one
INSERT INTO transactions (id, source_account_id, destination_account_id, amount, currency, status, idempotency_key, reversed_transaction_id, created_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, source_account_id, destination_account_id, amount, currency, status, idempotency_key, reversed_transaction_id, created_at, completed_at
`

type CreateTransactionParams struct {
	ID                    string             `json:"id"`
	SourceAccountID       string             `json:"source_account_id"`
	DestinationAccountID  string             `json:"destination_account_id"`
	Amount                pgtype.Numeric     `json:"amount"`
	Currency              string             `json:"currency"`
	Status                string             `json:"status"`
	IdempotencyKey        pgtype.Text        `json:"idempotency_key"`
	ReversedTransactionID pgtype.Text        `json:"reversed_transaction_id"`
	CreatedAt             pgtype.Timestamptz `json:"created_at"`
	CompletedAt           pgtype.Timestamptz `json:"completed_at"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, createTransaction,
		arg.ID,
		arg.SourceAccountID,
		arg.DestinationAccountID,
		arg.Amount,
		arg.Currency,
		arg.Status,
		arg.IdempotencyKey,
		arg.ReversedTransactionID,
		arg.CreatedAt,
		arg.CompletedAt,
	)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.SourceAccountID,
		&i.DestinationAccountID,
		&i.Amount,
		&i.Currency,
		&i.Status,
		&i.IdempotencyKey,
		&i.ReversedTransactionID,
		&i.CreatedAt,
		&i.CompletedAt,
	)
	return i, err
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT id, source_account_id, destination_account_id, amount, currency, status, idempotency_key, reversed_transaction_id, created_at, completed_at FROM transactions WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.SourceAccountID,
		&i.DestinationAccountID,
		&i.Amount,
		&i.Currency,
		&i.Status,
		&i.IdempotencyKey,
		&i.ReversedTransactionID,
		&i.CreatedAt,
		&i.CompletedAt,
	)
	return i, err
}

const getTransactionByIdempotencyKey = `-- name: GetTransactionByIdempotencyKey :one
SELECT id, source_account_id, destination_account_id, amount, currency, status, idempotency_key, reversed_transaction_id, created_at, completed_at FROM transactions
WHERE source_account_id = $1 AND idempotency_key = $2 AND status <> 'failed'
`

type GetTransactionByIdempotencyKeyParams struct {
	SourceAccountID string      `json:"source_account_id"`
	IdempotencyKey  pgtype.Text `json:"idempotency_key"`
}

func (q *Queries) GetTransactionByIdempotencyKey(ctx context.Context, arg GetTransactionByIdempotencyKeyParams) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByIdempotencyKey, arg.SourceAccountID, arg.IdempotencyKey)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.SourceAccountID,
		&i.DestinationAccountID,
		&i.Amount,
		&i.Currency,
		&i.Status,
		&i.IdempotencyKey,
		&i.ReversedTransactionID,
		&i.CreatedAt,
		&i.CompletedAt,
	)
	return i, err
}

const listTransactionsByAccount = `-- name: ListTransactionsByAccount :many
SELECT id, source_account_id, destination_account_id, amount, currency, status, idempotency_key, reversed_transaction_id, created_at, completed_at FROM transactions
WHERE (source_account_id = $1 OR destination_account_id = $1)
ORDER BY id DESC
LIMIT $2
`

type ListTransactionsByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
}

func (q *Queries) ListTransactionsByAccount(ctx context.Context, arg ListTransactionsByAccountParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactionsByAccount, arg.AccountID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.SourceAccountID,
			&i.DestinationAccountID,
			&i.Amount,
			&i.Currency,
			&i.Status,
			&i.IdempotencyKey,
			&i.ReversedTransactionID,
			&i.CreatedAt,
			&i.CompletedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listTransactionsByAccountBefore = `-- name: ListTransactionsByAccountBefore :many
SELECT id, source_account_id, destination_account_id, amount, currency, status, idempotency_key, reversed_transaction_id, created_at, completed_at FROM transactions
WHERE (source_account_id = $1 OR destination_account_id = $1) AND id < $2
ORDER BY id DESC
LIMIT $3
`

type ListTransactionsByAccountBeforeParams struct {
	AccountID string `json:"account_id"`
	Cursor    string `json:"cursor"`
	Limit     int32  `json:"limit"`
}

func (q *Queries) ListTransactionsByAccountBefore(ctx context.Context, arg ListTransactionsByAccountBeforeParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactionsByAccountBefore, arg.AccountID, arg.Cursor, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.SourceAccountID,
			&i.DestinationAccountID,
			&i.Amount,
			&i.Currency,
			&i.Status,
			&i.IdempotencyKey,
			&i.ReversedTransactionID,
			&i.CreatedAt,
			&i.CompletedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markTransactionCompleted = `-- name: MarkTransactionCompleted :exec
UPDATE transactions
SET status = 'completed', completed_at = $2
WHERE id = $1 AND status = 'pending'
`

type MarkTransactionCompletedParams struct {
	ID          string             `json:"id"`
	CompletedAt pgtype.Timestamptz `json:"completed_at"`
}

func (q *Queries) MarkTransactionCompleted(ctx context.Context, arg MarkTransactionCompletedParams) error {
	_, err := q.db.Exec(ctx, markTransactionCompleted, arg.ID, arg.CompletedAt)
	return err
}

const markTransactionReversed = `-- name: MarkTransactionReversed :exec
UPDATE transactions
SET status = 'reversed', reversed_transaction_id = $2
WHERE id = $1 AND status = 'completed'
`

type MarkTransactionReversedParams struct {
	ID                    string      `json:"id"`
	ReversedTransactionID pgtype.Text `json:"reversed_transaction_id"`
}

func (q *Queries) MarkTransactionReversed(ctx context.Context, arg MarkTransactionReversedParams) error {
	_, err := q.db.Exec(ctx, markTransactionReversed, arg.ID, arg.ReversedTransactionID)
	return err
}

const upsertFailedTransaction = `-- name: UpsertFailedTransaction :exec
INSERT INTO transactions (id, source_account_id, destination_account_id, amount, currency, status, idempotency_key, reversed_transaction_id, created_at, completed_at)
VALUES ($1, $2, $3, $4, $5, 'failed', $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET status = 'failed', completed_at = EXCLUDED.completed_at
`

type UpsertFailedTransactionParams struct {
	ID                    string             `json:"id"`
	SourceAccountID       string             `json:"source_account_id"`
	DestinationAccountID  string             `json:"destination_account_id"`
	Amount                pgtype.Numeric     `json:"amount"`
	Currency              string             `json:"currency"`
	IdempotencyKey        pgtype.Text        `json:"idempotency_key"`
	ReversedTransactionID pgtype.Text        `json:"reversed_transaction_id"`
	CreatedAt             pgtype.Timestamptz `json:"created_at"`
	CompletedAt           pgtype.Timestamptz `json:"completed_at"`
}

func (q *Queries) UpsertFailedTransaction(ctx context.Context, arg UpsertFailedTransactionParams) error {
	_, err := q.db.Exec(ctx, upsertFailedTransaction,
		arg.ID,
		arg.SourceAccountID,
		arg.DestinationAccountID,
		arg.Amount,
		arg.Currency,
		arg.IdempotencyKey,
		arg.ReversedTransactionID,
		arg.CreatedAt,
		arg.CompletedAt,
	)
	return err
}
