package service

import (
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/family-ledger/internal/storage/budget"
)

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

type MonthlyReport struct {
	Scope        Scope           `json:"scope"`
	Month        time.Time       `json:"month"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
	Categories   []CategoryTotal `json:"categories"`
}

// CategoryBreakdown.Total is Income minus Expense.
type CategoryBreakdown struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Total   decimal.Decimal `json:"total"`
}

type CategoryReport struct {
	Scope        Scope                        `json:"scope"`
	Start        time.Time                    `json:"start"`
	End          time.Time                    `json:"end"`
	ByCategory   map[string]CategoryBreakdown `json:"by_category"`
	TotalIncome  decimal.Decimal              `json:"total_income"`
	TotalExpense decimal.Decimal              `json:"total_expense"`
	Balance      decimal.Decimal              `json:"balance"`
}

type Period = budget.Period

const (
	PeriodDaily   = budget.PeriodDaily
	PeriodWeekly  = budget.PeriodWeekly
	PeriodMonthly = budget.PeriodMonthly
)

// BudgetStatus is one budget measured against the period window containing now.
type BudgetStatus struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	Period      Period          `json:"period"`
	Shared      bool            `json:"shared"`
	Limit       decimal.Decimal `json:"limit"`
	Spent       decimal.Decimal `json:"spent"`
	Remaining   decimal.Decimal `json:"remaining"`
	Percentage  decimal.Decimal `json:"percentage"`
	WindowStart time.Time       `json:"window_start"`
	WindowEnd   time.Time       `json:"window_end"`
}

type BudgetReport struct {
	Scope      Scope           `json:"scope"`
	Budgets    []BudgetStatus  `json:"budgets"`
	TotalLimit decimal.Decimal `json:"total_limit"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

type Budget struct {
	ID        uuid.UUID
	Category  string
	Limit     decimal.Decimal
	Period    Period
	Shared    bool
	CreatedAt time.Time
}

func budgetFromStorage(row *budget.Budget) *Budget {
	return &Budget{
		ID:        row.ID,
		Category:  row.Category,
		Limit:     row.Limit,
		Period:    row.Period,
		Shared:    row.Owner.FamilyID != nil,
		CreatedAt: row.CreatedAt,
	}
}

// SetBudgetCommand replaces the active budget for (owner, Category, Period).
// ForFamily makes the caller's family the owner.
type SetBudgetCommand struct {
	Category  string          `validate:"required,max=64"`
	Limit     decimal.Decimal `validate:"gte=0,amount"`
	Period    string          `validate:"required,oneof=daily weekly monthly"`
	ForFamily bool
}
