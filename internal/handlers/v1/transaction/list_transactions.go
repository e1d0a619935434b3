package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
	"github.com/carson-networks/family-ledger/internal/logging"
	"github.com/carson-networks/family-ledger/internal/service"
)

// ListTransactionsInput is the Huma input for listing transactions.
type ListTransactionsInput struct {
	caller.Headers
	Scope string `query:"scope" doc:"personal or family, defaults to the ledger setting"`
	Limit int    `query:"limit" minimum:"0" maximum:"500" doc:"Maximum entries, 0 uses the default"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Transactions []Transaction `json:"transactions" doc:"Newest first"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the interface for listing transactions.
type transactionLister interface {
	List(ctx context.Context, accountID uuid.UUID, scope service.Scope, limit int) ([]service.Transaction, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	Identity     caller.Resolver
	Transactions transactionLister
	DefaultScope service.Scope
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(identity caller.Resolver, svc transactionLister, defaultScope service.Scope) *ListTransactionsHandler {
	return &ListTransactionsHandler{Identity: identity, Transactions: svc, DefaultScope: defaultScope}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns the most recent live transactions visible to the caller.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	scope, err := service.ParseScope(input.Scope, h.DefaultScope)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}

	stopTimer := logData.AddTiming("listTransactionsMs")
	transactions, err := h.Transactions.List(ctx, acc.ID, scope, input.Limit)
	stopTimer()
	if err != nil {
		return nil, apierr.FromError(err)
	}
	logData.AddData("transactionCount", len(transactions))

	return &ListTransactionsOutput{Body: ListTransactionsResponseBody{
		Transactions: lo.Map(transactions, func(tx service.Transaction, _ int) Transaction {
			return FromService(tx)
		}),
	}}, nil
}
