package service

import (
	"context"
	"strings"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"

	"github.com/carson-networks/family-ledger/internal/operator/actions"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

// TransactionService handles transaction business logic.
type TransactionService struct {
	*core
}

// Append records a new transaction for accountID. It is tagged with the
// account's family unless cmd.Private is set.
func (s *TransactionService) Append(ctx context.Context, accountID uuid.UUID, cmd AppendCommand) (*Transaction, error) {
	cmd.Polarity = strings.ToLower(strings.TrimSpace(cmd.Polarity))
	cmd.Category = strings.TrimSpace(cmd.Category)
	cmd.Description = strings.TrimSpace(cmd.Description)
	cmd.Currency = strings.ToUpper(strings.TrimSpace(cmd.Currency))
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	if cmd.Currency == "" {
		cmd.Currency = s.opts.DefaultCurrency
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}
	action := &actions.AppendTransaction{
		NewID:       id,
		AccountID:   accountID,
		Amount:      cmd.Amount,
		Polarity:    transaction.Polarity(cmd.Polarity),
		Category:    cmd.Category,
		Description: cmd.Description,
		Currency:    cmd.Currency,
		Private:     cmd.Private,
	}
	if err := s.run(ctx, action); err != nil {
		return nil, err
	}
	tx := transactionFromStorage(action.Transaction)
	return &tx, nil
}

// List returns the newest live transactions visible under scope. A limit
// below one uses the configured default.
func (s *TransactionService) List(ctx context.Context, accountID uuid.UUID, scope Scope, limit int) ([]Transaction, error) {
	acc, err := s.account(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		limit = s.opts.ListLimit
	}

	rows, err := s.reader().Transactions.List(ctx, &transaction.TransactionFilter{
		Visibility:  scope.visibility(acc),
		NewestFirst: true,
		Limit:       limit,
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row *transaction.Transaction, _ int) Transaction {
		return transactionFromStorage(row)
	}), nil
}

// Delete soft-deletes a transaction. Only its author may delete it; any other
// caller gets NotFound.
func (s *TransactionService) Delete(ctx context.Context, accountID, transactionID uuid.UUID) error {
	return s.run(ctx, &actions.DeleteTransaction{
		AccountID:     accountID,
		TransactionID: transactionID,
	})
}
