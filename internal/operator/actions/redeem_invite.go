package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/family"
)

// RedeemInvite joins JoinerID to the issuer's family. The invite row stays
// locked until the surrounding transaction ends, so at most one redemption wins.
type RedeemInvite struct {
	Code     string
	JoinerID uuid.UUID
	Now      time.Time

	Family   *family.Family
	affected []uuid.UUID
}

func (r *RedeemInvite) SetNow(now time.Time) { r.Now = now }

func (r *RedeemInvite) Perform(ctx context.Context, writer *storage.Writer) error {
	inv, err := writer.Invites.FindByCodeForUpdate(ctx, r.Code)
	if err != nil {
		return err
	}
	if inv.ExpiredAt(r.Now) {
		return ledgererr.Newf(ledgererr.KindInviteExpired, "invite expired at %s", inv.ExpiresAt.Format(time.RFC3339))
	}
	if inv.Consumed {
		return ledgererr.ErrInviteAlreadyUsed
	}

	issuer, err := writer.Accounts.FindByID(ctx, inv.IssuedBy)
	if err != nil {
		return err
	}
	if issuer.FamilyID == nil {
		return ledgererr.ErrIssuerHasNoFamily
	}

	joiner, err := writer.Accounts.FindByIDForUpdate(ctx, r.JoinerID)
	if err != nil {
		return err
	}
	if joiner.FamilyID != nil {
		return ledgererr.ErrAlreadyInFamily
	}

	swapped, err := writer.Invites.MarkConsumed(ctx, inv.Code, joiner.ID, r.Now)
	if err != nil {
		return err
	}
	if !swapped {
		return ledgererr.ErrInviteAlreadyUsed
	}

	if err := writer.Accounts.SetFamily(ctx, joiner.ID, *issuer.FamilyID, r.Now); err != nil {
		return err
	}

	fam, err := writer.Families.FindByID(ctx, *issuer.FamilyID)
	if err != nil {
		return err
	}
	r.Family = fam

	r.affected, err = audience(ctx, writer, joiner.ID, issuer.FamilyID)
	return err
}

func (r *RedeemInvite) AffectedAccounts() []uuid.UUID {
	return r.affected
}
