package service

import (
	"strings"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

// Scope selects whose transactions a read covers.
type Scope string

const (
	ScopePersonal Scope = "personal"
	ScopeFamily   Scope = "family"
)

// ParseScope accepts personal or family; an empty string yields def.
func ParseScope(s string, def Scope) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return def, nil
	case ScopePersonal:
		return ScopePersonal, nil
	case ScopeFamily:
		return ScopeFamily, nil
	default:
		return "", ledgererr.InvalidInput("unknown scope %q", s)
	}
}

func (s Scope) visibility(acc *Account) transaction.Visibility {
	vis := transaction.Visibility{AccountID: acc.ID}
	if s == ScopeFamily {
		vis.FamilyID = acc.FamilyID
	}
	return vis
}
