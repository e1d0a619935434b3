package identity

import (
	"time"

	"github.com/carson-networks/family-ledger/internal/service"
)

// Account is the API response model for an account.
type Account struct {
	ID             string `json:"id" doc:"Account UUID"`
	ExternalID     string `json:"externalID" doc:"Chat platform identity"`
	DisplayName    string `json:"displayName" doc:"Display name"`
	FamilyID       string `json:"familyID,omitempty" doc:"Family UUID, absent when not in a family"`
	FamilyJoinedAt string `json:"familyJoinedAt,omitempty" doc:"RFC3339 time the account joined its family"`
	CreatedAt      string `json:"createdAt" doc:"RFC3339 creation time"`
}

func FromService(acc *service.Account) Account {
	out := Account{
		ID:          acc.ID.String(),
		ExternalID:  acc.ExternalID,
		DisplayName: acc.DisplayName,
		CreatedAt:   acc.CreatedAt.Format(time.RFC3339),
	}
	if acc.FamilyID != nil {
		out.FamilyID = acc.FamilyID.String()
	}
	if acc.FamilyJoinedAt != nil {
		out.FamilyJoinedAt = acc.FamilyJoinedAt.Format(time.RFC3339)
	}
	return out
}
