
package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const applyAccountDelta = `-- name: ApplyAccountDelta :one
UPDATE accounts
SET balance = balance + $2, version = version + 1, updated_at = $3
WHERE id = $1 AND balance + $2 >= $4
RETURNING balance
`

type ApplyAccountDeltaParams struct {
	ID         string             `json:"id"`
	Delta      pgtype.Numeric     `json:"delta"`
	UpdatedAt  pgtype.Timestamptz `json:"updated_at"`
	MinBalance pgtype.Numeric     `json:"min_balance"`
}

func (q *Queries) ApplyAccountDelta(ctx context.Context, arg ApplyAccountDeltaParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, applyAccountDelta,
		arg.ID,
		arg.Delta,
		arg.UpdatedAt,
		arg.MinBalance,
	)
	var balance pgtype.Numeric
	err := row.Scan(&balance)
	return balance, err
}

const countAccounts = `-- name: CountAccounts :one
SELECT COUNT(*) FROM accounts
`

func (q *Queries) CountAccounts(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countAccounts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (id, owner_id, currency, balance, status, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, owner_id, currency, balance, status, version, created_at, updated_at
`

type CreateAccountParams struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Currency  string             `json:"currency"`
	Balance   pgtype.Numeric     `json:"balance"`
	Status    string             `json:"status"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount,
		arg.ID,
		arg.OwnerID,
		arg.Currency,
		arg.Balance,
		arg.Status,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Balance,
		&i.Status,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, owner_id, currency, balance, status, version, created_at, updated_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Currency,
		&i.Balance,
		&i.Status,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountsByIDsForUpdate = `-- name: GetAccountsByIDsForUpdate :many
SELECT id, owner_id, currency, balance, status, version, created_at, updated_at FROM accounts WHERE id = ANY($1::text[]) ORDER BY id FOR UPDATE
`

func (q *Queries) GetAccountsByIDsForUpdate(ctx context.Context, dollar_1 []string) ([]Account, error) {
	rows, err := q.db.Query(ctx, getAccountsByIDsForUpdate, dollar_1)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Currency,
			&i.Balance,
			&i.Status,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listAccountsByOwner = `-- name: ListAccountsByOwner :many
SELECT id, owner_id, currency, balance, status, version, created_at, updated_at FROM accounts WHERE owner_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3
`

type ListAccountsByOwnerParams struct {
	OwnerID string `json:"owner_id"`
	Limit   int32  `json:"limit"`
	Offset  int32  `json:"offset"`
}

func (q *Queries) ListAccountsByOwner(ctx context.Context, arg ListAccountsByOwnerParams) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsByOwner, arg.OwnerID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Account{}
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.OwnerID,
			&i.Currency,
			&i.Balance,
			&i.Status,
			&i.Version,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const sumAccountBalances = `-- name: SumAccountBalances :one
SELECT COALESCE(SUM(balance), 0)::numeric FROM accounts
`

func (q *Queries) SumAccountBalances(ctx context.Context) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumAccountBalances)
	var column_1 pgtype.Numeric
	err := row.Scan(&column_1)
	return column_1, err
}

const listUnbalancedAccounts = `-- name: ListUnbalancedAccounts :many
SELECT a.id FROM accounts a
LEFT JOIN (
    SELECT account_id, SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END) AS total
    FROM entries
    GROUP BY account_id
) e ON e.account_id = a.id
WHERE a.balance <> COALESCE(e.total, 0)
ORDER BY a.id
LIMIT $1
`

func (q *Queries) ListUnbalancedAccounts(ctx context.Context, limit int32) ([]string, error) {
	rows, err := q.db.Query(ctx, listUnbalancedAccounts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateAccountStatus = `-- name: UpdateAccountStatus :exec
UPDATE accounts
SET status = $2, updated_at = $3
WHERE id = $1
`

type UpdateAccountStatusParams struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountStatus(ctx context.Context, arg UpdateAccountStatusParams) error {
	_, err := q.db.Exec(ctx, updateAccountStatus, arg.ID, arg.Status, arg.UpdatedAt)
	return err
}
