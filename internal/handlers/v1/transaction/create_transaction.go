package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
	"github.com/carson-networks/family-ledger/internal/service"
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Amount      string `json:"amount" required:"true" doc:"Decimal amount. Without polarity a negative amount is an expense"`
	Polarity    string `json:"polarity,omitempty" enum:"income,expense" doc:"Direction; when set, amount must be non-negative"`
	Category    string `json:"category" required:"true" minLength:"1" maxLength:"64" doc:"Free-text category"`
	Description string `json:"description,omitempty" maxLength:"512" doc:"Optional note"`
	Currency    string `json:"currency,omitempty" doc:"ISO 4217 code, defaults to the ledger currency"`
	Private     bool   `json:"private,omitempty" doc:"Keep the entry out of family reports"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	caller.Headers
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body Transaction
}

type transactionAppender interface {
	Append(ctx context.Context, accountID uuid.UUID, cmd service.AppendCommand) (*service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transactions.
type CreateTransactionHandler struct {
	Identity     caller.Resolver
	Transactions transactionAppender
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(identity caller.Resolver, svc transactionAppender) *CreateTransactionHandler {
	return &CreateTransactionHandler{Identity: identity, Transactions: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transactions",
		Summary:       "Create transaction",
		Description:   "Appends an income or expense entry to the caller's ledger.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput normalizes the signed-amount convention into a
// magnitude plus polarity.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.AppendCommand, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.AppendCommand{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}

	polarity := input.Body.Polarity
	if polarity == "" {
		polarity = string(service.PolarityIncome)
		if amount.IsNegative() {
			polarity = string(service.PolarityExpense)
			amount = amount.Neg()
		}
	}

	return service.AppendCommand{
		Amount:      amount,
		Polarity:    polarity,
		Category:    input.Body.Category,
		Description: input.Body.Description,
		Currency:    input.Body.Currency,
		Private:     input.Body.Private,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	cmd, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}

	tx, err := h.Transactions.Append(ctx, acc.ID, cmd)
	if err != nil {
		return nil, apierr.FromError(err)
	}
	return &CreateTransactionOutput{Body: FromService(*tx)}, nil
}
