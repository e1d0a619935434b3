package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage"
)

// DeleteTransaction soft-deletes a live transaction owned by AccountID.
// Any other case is reported as NotFound.
type DeleteTransaction struct {
	AccountID     uuid.UUID
	TransactionID uuid.UUID
	Now           time.Time

	affected []uuid.UUID
}

func (d *DeleteTransaction) SetNow(now time.Time) { d.Now = now }

func (d *DeleteTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	tx, err := writer.Transactions.FindByID(ctx, d.TransactionID)
	if err != nil {
		return err
	}
	if tx.AccountID != d.AccountID || tx.DeletedAt != nil {
		return ledgererr.NotFound("transaction")
	}

	deleted, err := writer.Transactions.SoftDelete(ctx, tx.ID, d.AccountID, d.Now)
	if err != nil {
		return err
	}
	if !deleted {
		return ledgererr.NotFound("transaction")
	}

	d.affected, err = audience(ctx, writer, d.AccountID, tx.FamilyID)
	return err
}

func (d *DeleteTransaction) AffectedAccounts() []uuid.UUID {
	return d.affected
}
