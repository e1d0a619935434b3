package actions

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/budget"
)

// SetBudget replaces the active budget for (owner, category, period).
type SetBudget struct {
	NewID     uuid.UUID
	AccountID uuid.UUID
	Category  string
	Limit     decimal.Decimal
	Period    budget.Period
	ForFamily bool
	Now       time.Time

	Budget   *budget.Budget
	affected []uuid.UUID
}

func (s *SetBudget) SetNow(now time.Time) { s.Now = now }

func (s *SetBudget) Perform(ctx context.Context, writer *storage.Writer) error {
	acc, err := writer.Accounts.FindByID(ctx, s.AccountID)
	if err != nil {
		return err
	}

	owner := budget.AccountOwner(acc.ID)
	var familyID *uuid.UUID
	if s.ForFamily {
		if acc.FamilyID == nil {
			return ledgererr.InvalidInput("account has no family to budget for")
		}
		owner = budget.FamilyOwner(*acc.FamilyID)
		familyID = acc.FamilyID
	}

	if err := writer.Budgets.RetireActive(ctx, owner, s.Category, s.Period, s.Now); err != nil {
		return err
	}

	b := &budget.Budget{
		ID:        s.NewID,
		Owner:     owner,
		Category:  s.Category,
		Limit:     s.Limit,
		Period:    s.Period,
		Active:    true,
		CreatedAt: s.Now,
	}
	if err := writer.Budgets.Insert(ctx, b); err != nil {
		return err
	}
	s.Budget = b

	s.affected, err = audience(ctx, writer, acc.ID, familyID)
	return err
}

func (s *SetBudget) AffectedAccounts() []uuid.UUID {
	return s.affected
}
