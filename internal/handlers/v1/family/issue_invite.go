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

type IssueInviteInput struct {
	caller.Headers
}

type IssueInviteOutput struct {
	Body Invite
}

type inviteIssuer interface {
	IssueInvite(ctx context.Context, issuerID uuid.UUID) (*service.Invite, error)
}

// IssueInviteHandler handles POST /v1/family/invites.
type IssueInviteHandler struct {
	Identity caller.Resolver
	Families inviteIssuer
}

func NewIssueInviteHandler(identity caller.Resolver, families inviteIssuer) *IssueInviteHandler {
	return &IssueInviteHandler{Identity: identity, Families: families}
}

func (h *IssueInviteHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "issue-invite",
		Method:        http.MethodPost,
		Path:          "/v1/family/invites",
		Summary:       "Issue invite",
		Description:   "Issues a one-shot, time-limited invite into the caller's family.",
		Tags:          []string{"Family"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

func (h *IssueInviteHandler) handle(ctx context.Context, input *IssueInviteInput) (*IssueInviteOutput, error) {
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}
	inv, err := h.Families.IssueInvite(ctx, acc.ID)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	return &IssueInviteOutput{Body: InviteFromService(inv)}, nil
}
