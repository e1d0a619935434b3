package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

type Polarity = transaction.Polarity

const (
	PolarityIncome  = transaction.PolarityIncome
	PolarityExpense = transaction.PolarityExpense
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID          uuid.UUID
	AccountID   uuid.UUID
	FamilyID    *uuid.UUID
	Amount      decimal.Decimal
	Polarity    Polarity
	Category    string
	Description string
	Currency    string
	CreatedAt   time.Time
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:          row.ID,
		AccountID:   row.AccountID,
		FamilyID:    row.FamilyID,
		Amount:      row.Amount,
		Polarity:    row.Polarity,
		Category:    row.Category,
		Description: row.Description,
		Currency:    row.Currency,
		CreatedAt:   row.CreatedAt,
	}
}

// AppendCommand carries a new ledger entry. Amount is a magnitude, the
// direction is Polarity. An empty Currency means the configured default.
type AppendCommand struct {
	Amount      decimal.Decimal `validate:"gte=0,amount"`
	Polarity    string          `validate:"required,oneof=income expense"`
	Category    string          `validate:"required,max=64"`
	Description string          `validate:"max=512"`
	Currency    string          `validate:"currency"`
	Private     bool
}
