
package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countEntriesByAccount = `-- name: CountEntriesByAccount :one
SELECT COUNT(*) FROM entries WHERE account_id = $1
`

func (q *Queries) CountEntriesByAccount(ctx context.Context, accountID string) (int64, error) {
	row := q.db.QueryRow(ctx, countEntriesByAccount, accountID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createEntry = `-- name: CreateEntry :one
INSERT INTO entries (id, transaction_id, account_id, direction, amount, resulting_balance, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, transaction_id, account_id, direction, amount, resulting_balance, created_at
`

type CreateEntryParams struct {
	ID               string             `json:"id"`
	TransactionID    string             `json:"transaction_id"`
	AccountID        string             `json:"account_id"`
	Direction        string             `json:"direction"`
	Amount           pgtype.Numeric     `json:"amount"`
	ResultingBalance pgtype.Numeric     `json:"resulting_balance"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateEntry(ctx context.Context, arg CreateEntryParams) (Entry, error) {
	row := q.db.QueryRow(ctx, createEntry,
		arg.ID,
		arg.TransactionID,
		arg.AccountID,
		arg.Direction,
		arg.Amount,
		arg.ResultingBalance,
		arg.CreatedAt,
	)
	var i Entry
	err := row.Scan(
		&i.ID,
		&i.TransactionID,
		&i.AccountID,
		&i.Direction,
		&i.Amount,
		&i.ResultingBalance,
		&i.CreatedAt,
	)
	return i, err
}

const getEntriesByAccount = `-- name: GetEntriesByAccount :many
SELECT id, transaction_id, account_id, direction, amount, resulting_balance, created_at FROM entries
WHERE account_id = $1
ORDER BY id DESC
LIMIT $2 OFFSET $3
`

type GetEntriesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) GetEntriesByAccount(ctx context.Context, arg GetEntriesByAccountParams) ([]Entry, error) {
	rows, err := q.db.Query(ctx, getEntriesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.TransactionID,
			&i.AccountID,
			&i.Direction,
			&i.Amount,
			&i.ResultingBalance,
			&i.CreatedAt,
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

const getEntriesByTransaction = `-- name: GetEntriesByTransaction :many
SELECT id, transaction_id, account_id, direction, amount, resulting_balance, created_at FROM entries
WHERE transaction_id = $1
ORDER BY id
`

func (q *Queries) GetEntriesByTransaction(ctx context.Context, transactionID string) ([]Entry, error) {
	rows, err := q.db.Query(ctx, getEntriesByTransaction, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Entry{}
	for rows.Next() {
		var i Entry
		if err := rows.Scan(
			&i.ID,
			&i.TransactionID,
			&i.AccountID,
			&i.Direction,
			&i.Amount,
			&i.ResultingBalance,
			&i.CreatedAt,
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

const sumSignedEntries = `-- name: SumSignedEntries :one
SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)::numeric FROM entries
`

func (q *Queries) SumSignedEntries(ctx context.Context) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumSignedEntries)
	var column_1 pgtype.Numeric
	err := row.Scan(&column_1)
	return column_1, err
}
