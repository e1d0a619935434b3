package service

import (
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/storage/account"
)

// Account represents an account in the service layer.
type Account struct {
	ID             uuid.UUID
	ExternalID     string
	DisplayName    string
	FamilyID       *uuid.UUID
	FamilyJoinedAt *time.Time
	CreatedAt      time.Time
}

func accountFromStorage(row *account.Account) *Account {
	return &Account{
		ID:             row.ID,
		ExternalID:     row.ExternalID,
		DisplayName:    row.DisplayName,
		FamilyID:       row.FamilyID,
		FamilyJoinedAt: row.FamilyJoinedAt,
		CreatedAt:      row.CreatedAt,
	}
}
