
package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Currency  string             `json:"currency"`
	Balance   pgtype.Numeric     `json:"balance"`
	Status    string             `json:"status"`
	Version   int64              `json:"version"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

type AuditLog struct {
	ID           string             `json:"id"`
	ActorID      pgtype.Text        `json:"actor_id"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	BeforeState  []byte             `json:"before_state"`
	AfterState   []byte             `json:"after_state"`
	Status       string             `json:"status"`
	ErrorMessage pgtype.Text        `json:"error_message"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type Entry struct {
	ID               string             `json:"id"`
	TransactionID    string             `json:"transaction_id"`
	AccountID        string             `json:"account_id"`
	Direction        string             `json:"direction"`
	Amount           pgtype.Numeric     `json:"amount"`
	ResultingBalance pgtype.Numeric     `json:"resulting_balance"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	Published     bool               `json:"published"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
}

type Transaction struct {
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

type User struct {
	ID             string             `json:"id"`
	Email          string             `json:"email"`
	HashedPassword string             `json:"hashed_password"`
	Active         bool               `json:"active"`
	Superuser      bool               `json:"superuser"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}
