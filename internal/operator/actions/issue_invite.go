package actions

import (
	"context"
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/invite"
)

var errCodeSpaceExhausted = errors.New("no free invite code after retries")

type IssueInvite struct {
	IssuerID uuid.UUID
	Now      time.Time
	TTL      time.Duration
	Attempts int
	NewCode  func() (string, error)

	Invite *invite.Invite
}

func (i *IssueInvite) SetNow(now time.Time) { i.Now = now }

func (i *IssueInvite) Perform(ctx context.Context, writer *storage.Writer) error {
	if _, err := writer.Accounts.FindByID(ctx, i.IssuerID); err != nil {
		return err
	}

	attempts := max(i.Attempts, 1)
	for range attempts {
		code, err := i.NewCode()
		if err != nil {
			return ledgererr.Storage("invite.NewCode", err)
		}
		inv := &invite.Invite{
			Code:      code,
			IssuedBy:  i.IssuerID,
			CreatedAt: i.Now,
			ExpiresAt: i.Now.Add(i.TTL),
		}
		inserted, err := writer.Invites.Insert(ctx, inv)
		if err != nil {
			return err
		}
		if inserted {
			i.Invite = inv
			return nil
		}
	}
	return ledgererr.Storage("invites.Insert", errCodeSpaceExhausted)
}
