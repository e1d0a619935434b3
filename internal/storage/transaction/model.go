package transaction

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "transactions"

var columns = []any{
	"id", "account_id", "family_id", "amount", "polarity",
	"category", "description", "currency", "created_at", "deleted_at",
}

type Polarity string

const (
	PolarityIncome  Polarity = "income"
	PolarityExpense Polarity = "expense"
)

func (p Polarity) Valid() bool {
	return p == PolarityIncome || p == PolarityExpense
}

// Transaction represents a transaction record. Rows are never updated except
// to set DeletedAt.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	FamilyID    *uuid.UUID
	Amount      decimal.Decimal
	Polarity    Polarity
	Category    string
	Description string
	Currency    string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// Visibility selects the account's own rows, plus rows tagged with FamilyID when set.
type Visibility struct {
	AccountID uuid.UUID
	FamilyID  *uuid.UUID
}

// TimeRange bounds created_at. A zero From or To leaves that side open.
type TimeRange struct {
	From          time.Time
	To            time.Time
	FromExclusive bool
	ToInclusive   bool
}

func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() {
		if t.Before(r.From) || (r.FromExclusive && t.Equal(r.From)) {
			return false
		}
	}
	if !r.To.IsZero() {
		if t.After(r.To) || (!r.ToInclusive && t.Equal(r.To)) {
			return false
		}
	}
	return true
}

// TransactionFilter specifies filters for listing live transactions.
type TransactionFilter struct {
	Visibility  Visibility
	Range       TimeRange
	Category    string
	Polarity    Polarity
	NewestFirst bool
	Limit       int
}

type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	List(ctx context.Context, filter *TransactionFilter) ([]*Transaction, error)
	// ListDeletedBetween returns ids of visible rows whose deleted_at is in (after, upTo].
	ListDeletedBetween(ctx context.Context, vis Visibility, after, upTo time.Time) ([]uuid.UUID, error)
}

type IWriter interface {
	IReader
	Insert(ctx context.Context, tx *Transaction) error
	// SoftDelete marks a live row owned by accountID as deleted and reports whether one was.
	SoftDelete(ctx context.Context, id, accountID uuid.UUID, at time.Time) (bool, error)
}

type row struct {
	ID          uuid.UUID       `db:"id"`
	AccountID   uuid.UUID       `db:"account_id"`
	FamilyID    uuid.NullUUID   `db:"family_id"`
	Amount      decimal.Decimal `db:"amount"`
	Polarity    string          `db:"polarity"`
	Category    string          `db:"category"`
	Description string          `db:"description"`
	Currency    string          `db:"currency"`
	CreatedAt   time.Time       `db:"created_at"`
	DeletedAt   sql.NullTime    `db:"deleted_at"`
}

func rowToTransaction(r row) *Transaction {
	t := &Transaction{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Amount:      r.Amount,
		Polarity:    Polarity(r.Polarity),
		Category:    r.Category,
		Description: r.Description,
		Currency:    r.Currency,
		CreatedAt:   r.CreatedAt,
	}
	if r.FamilyID.Valid {
		id := r.FamilyID.UUID
		t.FamilyID = &id
	}
	if r.DeletedAt.Valid {
		d := r.DeletedAt.Time
		t.DeletedAt = &d
	}
	return t
}
