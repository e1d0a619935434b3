package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/storage"
)

type IAction interface {
	Perform(ctx context.Context, writer *storage.Writer) error
}

// Invalidator is implemented by actions that change report results. After a
// successful Perform it lists the accounts whose cached reports are stale.
type Invalidator interface {
	AffectedAccounts() []uuid.UUID
}

// Stamped is implemented by actions that record a write time. The operator
// sets it just before queueing the action.
type Stamped interface {
	SetNow(now time.Time)
}

// audience returns the actor plus every member of familyID, when set.
func audience(ctx context.Context, writer *storage.Writer, actor uuid.UUID, familyID *uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{actor}
	if familyID == nil {
		return ids, nil
	}
	members, err := writer.Accounts.ListByFamily(ctx, *familyID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if m.ID != actor {
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

var (
	_ Stamped = (*ResolveAccount)(nil)
	_ Stamped = (*CreateFamily)(nil)
	_ Stamped = (*IssueInvite)(nil)
	_ Stamped = (*RedeemInvite)(nil)
	_ Stamped = (*AppendTransaction)(nil)
	_ Stamped = (*DeleteTransaction)(nil)
	_ Stamped = (*SetBudget)(nil)
)
