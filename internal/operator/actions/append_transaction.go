package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

// AppendTransaction records a transaction, tagged with the account's family
// unless Private is set.
type AppendTransaction struct {
	NewID       uuid.UUID
	AccountID   uuid.UUID
	Amount      decimal.Decimal
	Polarity    transaction.Polarity
	Category    string
	Description string
	Currency    string
	Private     bool
	Now         time.Time

	Transaction *transaction.Transaction
	affected    []uuid.UUID
}

func (t *AppendTransaction) SetNow(now time.Time) { t.Now = now }

func (t *AppendTransaction) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Accounts.FindByIDForUpdate(ctx, t.AccountID)
	if err != nil {
		return err
	}

	var familyID *uuid.UUID
	if !t.Private {
		familyID = acc.FamilyID
	}

	tx := &transaction.Transaction{
		ID:          t.NewID,
		AccountID:   acc.ID,
		FamilyID:    familyID,
		Amount:      t.Amount,
		Polarity:    t.Polarity,
		Category:    t.Category,
		Description: t.Description,
		Currency:    t.Currency,
		CreatedAt:   t.Now,
	}
	if err := writer.Transactions.Insert(ctx, tx); err != nil {
		return err
	}
	t.Transaction = tx

	t.affected, err = audience(ctx, writer, acc.ID, familyID)
	return err
}

func (t *AppendTransaction) AffectedAccounts() []uuid.UUID {
	return t.affected
}
