package family

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/identity"
	"github.com/carson-networks/family-ledger/internal/service"
)

type GetFamilyInput struct {
	caller.Headers
}

type GetFamilyOutput struct {
	Body Members
}

type memberLister interface {
	Members(ctx context.Context, accountID uuid.UUID) (*service.Members, error)
}

// GetFamilyHandler handles GET /v1/family.
type GetFamilyHandler struct {
	Identity caller.Resolver
	Families memberLister
}

func NewGetFamilyHandler(identity caller.Resolver, families memberLister) *GetFamilyHandler {
	return &GetFamilyHandler{Identity: identity, Families: families}
}

func (h *GetFamilyHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-family",
		Method:      http.MethodGet,
		Path:        "/v1/family",
		Summary:     "Get family",
		Description: "Returns the caller's family and its members.",
		Tags:        []string{"Family"},
	}, h.handle)
}

func (h *GetFamilyHandler) handle(ctx context.Context, input *GetFamilyInput) (*GetFamilyOutput, error) {
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}
	members, err := h.Families.Members(ctx, acc.ID)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	return &GetFamilyOutput{Body: Members{
		Family: fromService(&members.Family),
		Accounts: lo.Map(members.Accounts, func(a service.Account, _ int) identity.Account {
			return identity.FromService(&a)
		}),
	}}, nil
}
