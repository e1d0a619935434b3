package family

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
	"github.com/carson-networks/family-ledger/internal/service"
)

type CreateFamilyBody struct {
	Name string `json:"name" minLength:"1" maxLength:"128" doc:"Family name"`
}

type CreateFamilyInput struct {
	caller.Headers
	Body CreateFamilyBody
}

type CreateFamilyOutput struct {
	Body Family
}

type familyCreator interface {
	CreateFamily(ctx context.Context, ownerID uuid.UUID, name string) (*service.Family, error)
}

// CreateFamilyHandler handles POST /v1/family.
type CreateFamilyHandler struct {
	Identity caller.Resolver
	Families familyCreator
}

func NewCreateFamilyHandler(identity caller.Resolver, families familyCreator) *CreateFamilyHandler {
	return &CreateFamilyHandler{Identity: identity, Families: families}
}

func (h *CreateFamilyHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-family",
		Method:        http.MethodPost,
		Path:          "/v1/family",
		Summary:       "Create family",
		Description:   "Creates a family owned by the caller. Fails when the caller already has one.",
		Tags:          []string{"Family"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *CreateFamilyHandler) handle(ctx context.Context, input *CreateFamilyInput) (*CreateFamilyOutput, error) {
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}
	fam, err := h.Families.CreateFamily(ctx, acc.ID, input.Body.Name)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	return &CreateFamilyOutput{Body: fromService(fam)}, nil
}
