package family

import (
	"time"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/identity"
	"github.com/carson-networks/family-ledger/internal/service"
)

// Family is the API response model for a family.
type Family struct {
	ID        string `json:"id" doc:"Family UUID"`
	Name      string `json:"name" doc:"Family name"`
	CreatedBy string `json:"createdBy" doc:"Account UUID of the creator"`
	CreatedAt string `json:"createdAt" doc:"RFC3339 creation time"`
}

func fromService(f *service.Family) Family {
	return Family{
		ID:        f.ID.String(),
		Name:      f.Name,
		CreatedBy: f.CreatedBy.String(),
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
}

type Members struct {
	Family   Family             `json:"family"`
	Accounts []identity.Account `json:"accounts" doc:"Members, oldest first"`
}

// Invite is the API response model for an invite.
type Invite struct {
	Code       string `json:"code" doc:"Invite code to share"`
	Display    string `json:"display" doc:"Code grouped for reading aloud or retyping"`
	IssuedBy   string `json:"issuedBy" doc:"Issuer account UUID"`
	CreatedAt  string `json:"createdAt" doc:"RFC3339 issue time"`
	ExpiresAt  string `json:"expiresAt" doc:"RFC3339 expiry time"`
	Consumed   bool   `json:"consumed"`
	ConsumedBy string `json:"consumedBy,omitempty" doc:"Account UUID that redeemed the invite"`
	ConsumedAt string `json:"consumedAt,omitempty" doc:"RFC3339 redemption time"`
}

func InviteFromService(inv *service.Invite) Invite {
	out := Invite{
		Code:      inv.Code,
		Display:   service.FormatInviteCode(inv.Code),
		IssuedBy:  inv.IssuedBy.String(),
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		Consumed:  inv.Consumed,
	}
	if inv.ConsumedBy != nil {
		out.ConsumedBy = inv.ConsumedBy.String()
	}
	if inv.ConsumedAt != nil {
		out.ConsumedAt = inv.ConsumedAt.Format(time.RFC3339)
	}
	return out
}
