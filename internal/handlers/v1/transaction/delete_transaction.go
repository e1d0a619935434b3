package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/caller"
)

type DeleteTransactionInput struct {
	caller.Headers
	ID string `path:"id" format:"uuid" doc:"Transaction UUID"`
}

type DeleteTransactionOutput struct{}

type transactionDeleter interface {
	Delete(ctx context.Context, accountID, transactionID uuid.UUID) error
}

// DeleteTransactionHandler handles DELETE /v1/transactions/{id}.
type DeleteTransactionHandler struct {
	Identity     caller.Resolver
	Transactions transactionDeleter
}

func NewDeleteTransactionHandler(identity caller.Resolver, svc transactionDeleter) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{Identity: identity, Transactions: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/v1/transactions/{id}",
		Summary:       "Delete transaction",
		Description:   "Deletes one of the caller's own transactions. Sync reports the deletion.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*DeleteTransactionOutput, error) {
	id, err := uuid.FromString(input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid id", err)
	}
	acc, err := input.Account(ctx, h.Identity)
	if err != nil {
		return nil, err
	}
	if err := h.Transactions.Delete(ctx, acc.ID, id); err != nil {
		return nil, apierr.FromError(err)
	}
	return &DeleteTransactionOutput{}, nil
}
