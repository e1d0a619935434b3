package syncfeed

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/family"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/family-ledger/internal/logging"
	"github.com/carson-networks/family-ledger/internal/service"
)

type SyncBody struct {
	Since *time.Time `json:"since,omitempty" doc:"Watermark from the previous sync, omit for a full pull"`
}

type SyncInput struct {
	caller.Headers
	Body *SyncBody `required:"false"`
}

type FamilyUpdate struct {
	AccountID   string `json:"accountID"`
	DisplayName string `json:"displayName"`
	FamilyID    string `json:"familyID"`
	JoinedAt    string `json:"joinedAt"`
}

type SyncResponseBody struct {
	Transactions          []transaction.Transaction `json:"transactions" doc:"Created since the watermark, oldest first"`
	DeletedTransactionIDs []string                  `json:"deletedTransactionIDs"`
	FamilyUpdates         []FamilyUpdate            `json:"familyUpdates"`
	Invites               []family.Invite           `json:"invites"`
	AsOf                  string                    `json:"asOf" doc:"Pass as since on the next call"`
}

type SyncOutput struct {
	Body SyncResponseBody
}

type changeFeed interface {
	ChangesSince(ctx context.Context, accountID uuid.UUID, since *time.Time) (*service.Changes, error)
}

// Handler handles POST /v1/sync.
type Handler struct {
	Identity caller.Resolver
	Feed     changeFeed
}

func NewHandler(identity caller.Resolver, feed changeFeed) *Handler {
	return &Handler{Identity: identity, Feed: feed}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "sync",
		Method:      http.MethodPost,
		Path:        "/v1/sync",
		Summary:     "Pull changes",
		Description: "Returns everything visible to the caller that changed after the given watermark.",
		Tags:        []string{"Sync"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, input *SyncInput) (*SyncOutput, error) {
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}

	var since *time.Time
	if input.Body != nil {
		since = input.Body.Since
	}

	logData := logging.GetLogData(ctx)
	stopTimer := logData.AddTiming("syncMs")
	changes, err := h.Feed.ChangesSince(ctx, acc.ID, since)
	stopTimer()
	if err != nil {
		return nil, apierr.FromError(err)
	}
	logData.AddData("syncedTransactions", len(changes.Transactions))

	return &SyncOutput{Body: SyncResponseBody{
		Transactions: lo.Map(changes.Transactions, func(tx service.Transaction, _ int) transaction.Transaction {
			return transaction.FromService(tx)
		}),
		DeletedTransactionIDs: lo.Map(changes.DeletedTransactionIDs, func(id uuid.UUID, _ int) string {
			return id.String()
		}),
		FamilyUpdates: lo.Map(changes.FamilyUpdates, func(u service.FamilyUpdate, _ int) FamilyUpdate {
			return FamilyUpdate{
				AccountID:   u.AccountID.String(),
				DisplayName: u.DisplayName,
				FamilyID:    u.FamilyID.String(),
				JoinedAt:    u.JoinedAt.Format(time.RFC3339),
			}
		}),
		Invites: lo.Map(changes.Invites, func(inv service.Invite, _ int) family.Invite {
			return family.InviteFromService(&inv)
		}),
		AsOf: changes.AsOf.Format(time.RFC3339Nano),
	}}, nil
}
