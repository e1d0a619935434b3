package identity

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
)

type GetMeInput struct {
	caller.Headers
}

type GetMeOutput struct {
	Body Account
}

// GetMeHandler handles GET /v1/me.
type GetMeHandler struct {
	Identity caller.Resolver
}

func NewGetMeHandler(svc caller.Resolver) *GetMeHandler {
	return &GetMeHandler{Identity: svc}
}

func (h *GetMeHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/v1/me",
		Summary:     "Resolve caller",
		Description: "Returns the caller's account, creating it on first contact.",
		Tags:        []string{"Identity"},
	}, h.handle)
}

func (h *GetMeHandler) handle(ctx context.Context, input *GetMeInput) (*GetMeOutput, error) {
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}
	return &GetMeOutput{Body: FromService(acc)}, nil
}
