package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/storage/family"
	"github.com/carson-networks/family-ledger/internal/storage/invite"
)

type Family struct {
	ID        uuid.UUID
	Name      string
	CreatedBy uuid.UUID
	CreatedAt time.Time
}

func familyFromStorage(row *family.Family) *Family {
	return &Family{
		ID:        row.ID,
		Name:      row.Name,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
	}
}

type Invite struct {
	Code       string
	IssuedBy   uuid.UUID
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Consumed   bool
	ConsumedBy *uuid.UUID
	ConsumedAt *time.Time
}

func inviteFromStorage(row *invite.Invite) Invite {
	return Invite{
		Code:       row.Code,
		IssuedBy:   row.IssuedBy,
		CreatedAt:  row.CreatedAt,
		ExpiresAt:  row.ExpiresAt,
		Consumed:   row.Consumed,
		ConsumedBy: row.ConsumedBy,
		ConsumedAt: row.ConsumedAt,
	}
}

// Members is a family together with its accounts, oldest member first.
type Members struct {
	Family   Family
	Accounts []Account
}
