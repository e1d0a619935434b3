package invite

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofrs/uuid/v5"
)

const tableName = "invites"

var columns = []any{"code", "issued_by", "created_at", "expires_at", "consumed", "consumed_by", "consumed_at"}

// Invite represents an invite record. Expiry is never stored as a state,
// callers compare ExpiresAt against their clock.
type Invite struct {
	Code       string
	IssuedBy   uuid.UUID
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Consumed   bool
	ConsumedBy *uuid.UUID
	ConsumedAt *time.Time
}

func (i *Invite) ExpiredAt(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

type IReader interface {
	FindByCode(ctx context.Context, code string) (*Invite, error)
	// ListChangedBetween returns invites issued by issuer that were created
	// or consumed in (after, upTo].
	ListChangedBetween(ctx context.Context, issuer uuid.UUID, after, upTo time.Time) ([]*Invite, error)
}

type IWriter interface {
	IReader
	FindByCodeForUpdate(ctx context.Context, code string) (*Invite, error)
	// Insert reports false when the code is already taken.
	Insert(ctx context.Context, invite *Invite) (bool, error)
	// MarkConsumed flips consumed only if it is still false and reports whether it did.
	MarkConsumed(ctx context.Context, code string, by uuid.UUID, at time.Time) (bool, error)
}

type row struct {
	Code       string        `db:"code"`
	IssuedBy   uuid.UUID     `db:"issued_by"`
	CreatedAt  time.Time     `db:"created_at"`
	ExpiresAt  time.Time     `db:"expires_at"`
	Consumed   bool          `db:"consumed"`
	ConsumedBy uuid.NullUUID `db:"consumed_by"`
	ConsumedAt sql.NullTime  `db:"consumed_at"`
}

func rowToInvite(r row) *Invite {
	inv := &Invite{
		Code:      r.Code,
		IssuedBy:  r.IssuedBy,
		CreatedAt: r.CreatedAt,
		ExpiresAt: r.ExpiresAt,
		Consumed:  r.Consumed,
	}
	if r.ConsumedBy.Valid {
		id := r.ConsumedBy.UUID
		inv.ConsumedBy = &id
	}
	if r.ConsumedAt.Valid {
		t := r.ConsumedAt.Time
		inv.ConsumedAt = &t
	}
	return inv
}
