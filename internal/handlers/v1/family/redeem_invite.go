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

type RedeemInviteBody struct {
	Code string `json:"code" minLength:"1" maxLength:"64" doc:"Invite code, dashes and spaces are ignored"`
}

type RedeemInviteInput struct {
	caller.Headers
	Body RedeemInviteBody
}

type RedeemInviteOutput struct {
	Body Family
}

type inviteRedeemer interface {
	RedeemInvite(ctx context.Context, code string, joinerID uuid.UUID) (*service.Family, error)
}

// RedeemInviteHandler handles POST /v1/family/join.
type RedeemInviteHandler struct {
	Identity caller.Resolver
	Families inviteRedeemer
}

func NewRedeemInviteHandler(identity caller.Resolver, families inviteRedeemer) *RedeemInviteHandler {
	return &RedeemInviteHandler{Identity: identity, Families: families}
}

func (h *RedeemInviteHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "redeem-invite",
		Method:      http.MethodPost,
		Path:        "/v1/family/join",
		Summary:     "Redeem invite",
		Description: "Joins the caller to the family of the invite's issuer.",
		Tags:        []string{"Family"},
	}, h.handle)
}

func (h *RedeemInviteHandler) handle(ctx context.Context, input *RedeemInviteInput) (*RedeemInviteOutput, error) {
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}
	fam, err := h.Families.RedeemInvite(ctx, input.Body.Code, acc.ID)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	return &RedeemInviteOutput{Body: fromService(fam)}, nil
}
