package transaction

import (
	"time"

	"github.com/carson-networks/family-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID          string `json:"id" doc:"Transaction UUID"`
	AccountID   string `json:"accountID" doc:"Author account UUID"`
	FamilyID    string `json:"familyID,omitempty" doc:"Family UUID the entry is shared with, absent when private"`
	Amount      string `json:"amount" doc:"Decimal magnitude"`
	Polarity    string `json:"polarity" enum:"income,expense" doc:"Direction of the amount"`
	Category    string `json:"category" doc:"Free-text category"`
	Description string `json:"description,omitempty" doc:"Optional note"`
	Currency    string `json:"currency" doc:"ISO 4217 currency label"`
	CreatedAt   string `json:"createdAt" doc:"RFC3339 creation time"`
}

func FromService(tx service.Transaction) Transaction {
	out := Transaction{
		ID:          tx.ID.String(),
		AccountID:   tx.AccountID.String(),
		Amount:      tx.Amount.String(),
		Polarity:    string(tx.Polarity),
		Category:    tx.Category,
		Description: tx.Description,
		Currency:    tx.Currency,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
	if tx.FamilyID != nil {
		out.FamilyID = tx.FamilyID.String()
	}
	return out
}
