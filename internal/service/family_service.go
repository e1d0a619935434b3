package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/operator/actions"
	"github.com/carson-networks/family-ledger/internal/storage/account"
)

// FamilyService links accounts into families through one-shot invites.
type FamilyService struct {
	*core
}

func (s *FamilyService) CreateFamily(ctx context.Context, ownerID uuid.UUID, name string) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ledgererr.InvalidInput("family name is required")
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}

	action := &actions.CreateFamily{NewID: id, OwnerID: ownerID, Name: name}
	if err := s.run(ctx, action); err != nil {
		return nil, err
	}
	s.deps.Logger.WithFields(logrus.Fields{
		"family_id": action.Family.ID,
		"owner_id":  ownerID,
	}).Info("family created")
	return familyFromStorage(action.Family), nil
}

func (s *FamilyService) IssueInvite(ctx context.Context, issuerID uuid.UUID) (*Invite, error) {
	action := &actions.IssueInvite{
		IssuerID: issuerID,
		TTL:      s.opts.InviteTTL,
		Attempts: s.opts.InviteAttempts,
		NewCode:  inviteCodeSource(s.deps.Entropy),
	}
	if err := s.run(ctx, action); err != nil {
		return nil, err
	}
	inv := inviteFromStorage(action.Invite)
	return &inv, nil
}

// RedeemInvite moves joinerID into the issuer's family. Of two concurrent
// redemptions of one code, exactly one succeeds.
func (s *FamilyService) RedeemInvite(ctx context.Context, code string, joinerID uuid.UUID) (*Family, error) {
	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, ledgererr.InvalidInput("invite code is required")
	}

	action := &actions.RedeemInvite{Code: code, JoinerID: joinerID}
	if err := s.run(ctx, action); err != nil {
		return nil, err
	}
	s.deps.Logger.WithFields(logrus.Fields{
		"family_id":  action.Family.ID,
		"account_id": joinerID,
	}).Info("invite redeemed")
	return familyFromStorage(action.Family), nil
}

// Members returns the caller's family and everyone in it. NotFound when the
// caller has no family.
func (s *FamilyService) Members(ctx context.Context, accountID uuid.UUID) (*Members, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acc.FamilyID == nil {
		return nil, ledgererr.NotFound("family")
	}

	r := s.reader()
	fam, err := r.Families.FindByID(ctx, *acc.FamilyID)
	if err != nil {
		return nil, err
	}
	rows, err := r.Accounts.ListByFamily(ctx, fam.ID)
	if err != nil {
		return nil, err
	}
	return &Members{
		Family: *familyFromStorage(fam),
		Accounts: lo.Map(rows, func(row *account.Account, _ int) Account {
			return *accountFromStorage(row)
		}),
	}, nil
}
