package actions

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/account"
)

// ResolveAccount finds the account for ExternalID, creating it on first contact.
type ResolveAccount struct {
	NewID              uuid.UUID
	ExternalID         string
	DisplayName        string
	RefreshDisplayName bool
	Now                time.Time

	Account *account.Account
	Created bool
}

func (r *ResolveAccount) SetNow(now time.Time) { r.Now = now }

func (r *ResolveAccount) Perform(ctx context.Context, writer *storage.Writer) error {
	existing, err := writer.Accounts.FindByExternalID(ctx, r.ExternalID)
	switch {
	case err == nil:
		return r.refresh(ctx, writer, existing)
	case !errors.Is(err, ledgererr.ErrNotFound):
		return err
	}

	created, err := writer.Accounts.Insert(ctx, &account.AccountCreate{
		ID:          r.NewID,
		ExternalID:  r.ExternalID,
		DisplayName: r.DisplayName,
		CreatedAt:   r.Now,
	})
	if err != nil {
		return err
	}

	// Lost a race with a concurrent first contact; the winner's row is committed now.
	acc, err := writer.Accounts.FindByExternalID(ctx, r.ExternalID)
	if err != nil {
		return err
	}
	if !created {
		return r.refresh(ctx, writer, acc)
	}
	r.Account = acc
	r.Created = true
	return nil
}

func (r *ResolveAccount) refresh(ctx context.Context, writer *storage.Writer, acc *account.Account) error {
	if r.RefreshDisplayName && r.DisplayName != "" && r.DisplayName != acc.DisplayName {
		if err := writer.Accounts.UpdateDisplayName(ctx, acc.ID, r.DisplayName); err != nil {
			return err
		}
		acc.DisplayName = r.DisplayName
	}
	r.Account = acc
	return nil
}
