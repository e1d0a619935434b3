// Package caller resolves the account behind the identity headers a chat
// client sends with every request.
package caller

import (
	"context"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/logging"
	"github.com/carson-networks/family-ledger/internal/service"
)

// Headers is embedded in every /v1 input.
type Headers struct {
	ExternalID  string `header:"X-External-Id" required:"true" minLength:"1" maxLength:"255" doc:"Opaque identity of the caller on its chat platform"`
	DisplayName string `header:"X-Display-Name" maxLength:"255" doc:"Caller display name, stored on first contact"`
}

type Resolver interface {
	Resolve(ctx context.Context, externalID, displayName string) (*service.Account, error)
}

// Account resolves the caller, creating the account on first contact.
func (h Headers) Account(ctx context.Context, r Resolver) (*service.Account, error) {
	acc, err := r.Resolve(ctx, h.ExternalID, h.DisplayName)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	logging.GetLogData(ctx).AddData("accountID", acc.ID.String())
	return acc, nil
}
