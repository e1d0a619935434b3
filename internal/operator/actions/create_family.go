package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/family"
)

type CreateFamily struct {
	NewID   uuid.UUID
	OwnerID uuid.UUID
	Name    string
	Now     time.Time

	Family *family.Family
}

func (c *CreateFamily) SetNow(now time.Time) { c.Now = now }

func (c *CreateFamily) Perform(ctx context.Context, writer *storage.Writer) error {
	owner, err := writer.Accounts.FindByIDForUpdate(ctx, c.OwnerID)
	if err != nil {
		return err
	}
	if owner.FamilyID != nil {
		return ledgererr.ErrAlreadyInFamily
	}

	fam := &family.Family{
		ID:        c.NewID,
		Name:      c.Name,
		CreatedBy: owner.ID,
		CreatedAt: c.Now,
	}
	if err := writer.Families.Insert(ctx, fam); err != nil {
		return err
	}
	if err := writer.Accounts.SetFamily(ctx, owner.ID, fam.ID, c.Now); err != nil {
		return err
	}

	c.Family = fam
	return nil
}

func (c *CreateFamily) AffectedAccounts() []uuid.UUID {
	return []uuid.UUID{c.OwnerID}
}
