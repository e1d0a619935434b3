package account

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid/v5"
)

const tableName = "accounts"

var columns = []any{"id", "external_id", "display_name", "family_id", "family_joined_at", "created_at"}

// Account represents an account record.
type Account struct {
	ID             uuid.UUID
	ExternalID     string
	DisplayName    string
	FamilyID       *uuid.UUID
	FamilyJoinedAt *time.Time
	CreatedAt      time.Time
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	ID          uuid.UUID
	ExternalID  string
	DisplayName string
	CreatedAt   time.Time
}

// IReader defines read access to accounts.
// Absent rows surface as ledgererr NotFound, driver failures as StorageUnavailable.
type IReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByExternalID(ctx context.Context, externalID string) (*Account, error)
	ListByFamily(ctx context.Context, familyID uuid.UUID) ([]*Account, error)
	// ListJoinedBetween returns family members whose family_joined_at is in (after, upTo].
	ListJoinedBetween(ctx context.Context, familyID uuid.UUID, after, upTo time.Time) ([]*Account, error)
}

// IWriter defines transactional write access to accounts.
type IWriter interface {
	IReader
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	// Insert creates the account unless the external id is already taken.
	Insert(ctx context.Context, create *AccountCreate) (created bool, err error)
	SetFamily(ctx context.Context, id uuid.UUID, familyID uuid.UUID, joinedAt time.Time) error
	UpdateDisplayName(ctx context.Context, id uuid.UUID, displayName string) error
}

type row struct {
	ID             uuid.UUID     `db:"id"`
	ExternalID     string        `db:"external_id"`
	DisplayName    string        `db:"display_name"`
	FamilyID       uuid.NullUUID `db:"family_id"`
	FamilyJoinedAt sql.NullTime  `db:"family_joined_at"`
	CreatedAt      time.Time     `db:"created_at"`
}

func rowToAccount(r row) *Account {
	a := &Account{
		ID:          r.ID,
		ExternalID:  r.ExternalID,
		DisplayName: r.DisplayName,
		CreatedAt:   r.CreatedAt,
	}
	if r.FamilyID.Valid {
		id := r.FamilyID.UUID
		a.FamilyID = &id
	}
	if r.FamilyJoinedAt.Valid {
		t := r.FamilyJoinedAt.Time
		a.FamilyJoinedAt = &t
	}
	return a
}
