package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/operator/actions"
)

// IdentityService maps external chat identities onto ledger accounts.
type IdentityService struct {
	*core
}

// Resolve returns the account for externalID, creating it on first contact.
// The stored display name is kept unless RefreshDisplayName is enabled.
func (s *IdentityService) Resolve(ctx context.Context, externalID, displayName string) (*Account, error) {
	externalID = strings.TrimSpace(externalID)
	displayName = strings.TrimSpace(displayName)
	if externalID == "" {
		return nil, ledgererr.InvalidInput("external id is required")
	}

	existing, err := s.reader().Accounts.FindByExternalID(ctx, externalID)
	switch {
	case err == nil && !s.needsRefresh(existing.DisplayName, displayName):
		return accountFromStorage(existing), nil
	case err != nil && ledgererr.KindOf(err) != ledgererr.KindNotFound:
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	action := &actions.ResolveAccount{
		NewID:              id,
		ExternalID:         externalID,
		DisplayName:        displayName,
		RefreshDisplayName: s.opts.RefreshDisplayName,
	}
	if err := s.run(ctx, action); err != nil {
		return nil, err
	}
	if action.Created {
		s.deps.Logger.WithField("account_id", action.Account.ID).Info("account created")
	}
	return accountFromStorage(action.Account), nil
}

func (s *IdentityService) needsRefresh(stored, incoming string) bool {
	return s.opts.RefreshDisplayName && incoming != "" && incoming != stored
}

// Get returns the account by its ledger ID.
func (s *IdentityService) Get(ctx context.Context, id uuid.UUID) (*Account, error) {
	return s.account(ctx, id)
}
