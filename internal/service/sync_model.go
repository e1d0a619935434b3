package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// FamilyUpdate records an account joining the caller's family.
type FamilyUpdate struct {
	AccountID   uuid.UUID
	DisplayName string
	FamilyID    uuid.UUID
	JoinedAt    time.Time
}

// Changes is everything visible to the caller that changed in (since, AsOf].
// AsOf is the watermark to pass as since on the next call.
type Changes struct {
	Transactions          []Transaction
	DeletedTransactionIDs []uuid.UUID
	FamilyUpdates         []FamilyUpdate
	Invites               []Invite
	AsOf                  time.Time
}
