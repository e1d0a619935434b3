package budget

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const tableName = "budgets"

var columns = []any{
	"id", "owner_account_id", "owner_family_id", "category", "limit_amount",
	"period", "active", "created_at", "retired_at",
}

type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return true
	}
	return false
}

// Owner is exactly one of an account or a family.
type Owner struct {
	AccountID *uuid.UUID
	FamilyID  *uuid.UUID
}

func AccountOwner(id uuid.UUID) Owner { return Owner{AccountID: &id} }

func FamilyOwner(id uuid.UUID) Owner { return Owner{FamilyID: &id} }

func (o Owner) id() uuid.UUID {
	if o.AccountID != nil {
		return *o.AccountID
	}
	return *o.FamilyID
}

type Budget struct {
	ID        uuid.UUID
	Owner     Owner
	Category  string
	Limit     decimal.Decimal
	Period    Period
	Active    bool
	CreatedAt time.Time
	RetiredAt *time.Time
}

type IReader interface {
	// ListActive returns active budgets owned by the account or, when set, its family.
	ListActive(ctx context.Context, accountID uuid.UUID, familyID *uuid.UUID) ([]*Budget, error)
}

type IWriter interface {
	IReader
	// RetireActive deactivates the active budget for (owner, category, period), if any.
	RetireActive(ctx context.Context, owner Owner, category string, period Period, at time.Time) error
	Insert(ctx context.Context, b *Budget) error
}

type row struct {
	ID             uuid.UUID       `db:"id"`
	OwnerAccountID uuid.NullUUID   `db:"owner_account_id"`
	OwnerFamilyID  uuid.NullUUID   `db:"owner_family_id"`
	Category       string          `db:"category"`
	LimitAmount    decimal.Decimal `db:"limit_amount"`
	Period         string          `db:"period"`
	Active         bool            `db:"active"`
	CreatedAt      time.Time       `db:"created_at"`
	RetiredAt      sql.NullTime    `db:"retired_at"`
}

func rowToBudget(r row) *Budget {
	b := &Budget{
		ID:        r.ID,
		Category:  r.Category,
		Limit:     r.LimitAmount,
		Period:    Period(r.Period),
		Active:    r.Active,
		CreatedAt: r.CreatedAt,
	}
	if r.OwnerAccountID.Valid {
		id := r.OwnerAccountID.UUID
		b.Owner.AccountID = &id
	}
	if r.OwnerFamilyID.Valid {
		id := r.OwnerFamilyID.UUID
		b.Owner.FamilyID = &id
	}
	if r.RetiredAt.Valid {
		t := r.RetiredAt.Time
		b.RetiredAt = &t
	}
	return b
}

func nullable(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
