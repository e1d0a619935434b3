package report

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/samber/lo"

	"github.com/carson-networks/family-ledger/internal/handlers/v1/apierr"
	"github.com/carson-networks/family-ledger/internal/service"
)

// Settings are the ledger defaults report handlers fall back on.
type Settings struct {
	DefaultScope    service.Scope
	DefaultCurrency string
	Location        *time.Location
}

func (s Settings) scope(raw string) (service.Scope, error) {
	scope, err := service.ParseScope(raw, s.DefaultScope)
	if err != nil {
		return "", apierr.FromError(err)
	}
	return scope, nil
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// parseBound accepts RFC3339 timestamps or bare dates, which mean midnight in
// the ledger time zone. Empty input yields nil.
func (s Settings) parseBound(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, s.location())
	if err != nil {
		return nil, huma.NewError(http.StatusBadRequest, "invalid "+name+": use RFC3339 or YYYY-MM-DD", err)
	}
	return &t, nil
}

type CategoryTotal struct {
	Category string `json:"category"`
	Total    string `json:"total" doc:"Decimal expense total"`
}

type MonthlyReport struct {
	Scope        string          `json:"scope"`
	Month        string          `json:"month" doc:"YYYY-MM"`
	TotalIncome  string          `json:"totalIncome"`
	TotalExpense string          `json:"totalExpense"`
	Balance      string          `json:"balance"`
	Categories   []CategoryTotal `json:"categories" doc:"Expense categories, largest first"`
}

func monthlyFromService(r *service.MonthlyReport) MonthlyReport {
	return MonthlyReport{
		Scope:        string(r.Scope),
		Month:        r.Month.Format("2006-01"),
		TotalIncome:  r.TotalIncome.String(),
		TotalExpense: r.TotalExpense.String(),
		Balance:      r.Balance.String(),
		Categories: lo.Map(r.Categories, func(c service.CategoryTotal, _ int) CategoryTotal {
			return CategoryTotal{Category: c.Category, Total: c.Total.String()}
		}),
	}
}

type CategoryBreakdown struct {
	Income  string `json:"income"`
	Expense string `json:"expense"`
	Total   string `json:"total" doc:"Income minus expense"`
}

type CategoryReport struct {
	Scope        string                       `json:"scope"`
	Start        string                       `json:"start" doc:"RFC3339 inclusive lower bound"`
	End          string                       `json:"end" doc:"RFC3339 exclusive upper bound"`
	ByCategory   map[string]CategoryBreakdown `json:"byCategory"`
	TotalIncome  string                       `json:"totalIncome"`
	TotalExpense string                       `json:"totalExpense"`
	Balance      string                       `json:"balance"`
}

func categoriesFromService(r *service.CategoryReport) CategoryReport {
	return CategoryReport{
		Scope: string(r.Scope),
		Start: r.Start.Format(time.RFC3339),
		End:   r.End.Format(time.RFC3339),
		ByCategory: lo.MapValues(r.ByCategory, func(b service.CategoryBreakdown, _ string) CategoryBreakdown {
			return CategoryBreakdown{Income: b.Income.String(), Expense: b.Expense.String(), Total: b.Total.String()}
		}),
		TotalIncome:  r.TotalIncome.String(),
		TotalExpense: r.TotalExpense.String(),
		Balance:      r.Balance.String(),
	}
}

type BudgetStatus struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Period      string `json:"period" enum:"daily,weekly,monthly"`
	Shared      bool   `json:"shared" doc:"Owned by the family rather than the caller"`
	Limit       string `json:"limit"`
	Spent       string `json:"spent"`
	Remaining   string `json:"remaining"`
	Percentage  string `json:"percentage" doc:"Spent as a percentage of the limit, 0 for a zero limit"`
	WindowStart string `json:"windowStart"`
	WindowEnd   string `json:"windowEnd"`
}

type BudgetReport struct {
	Scope      string         `json:"scope"`
	Budgets    []BudgetStatus `json:"budgets"`
	TotalLimit string         `json:"totalLimit"`
	TotalSpent string         `json:"totalSpent"`
	Summary    string         `json:"summary" doc:"Chat-ready text rendering"`
}

func budgetsFromService(r *service.BudgetReport) BudgetReport {
	return BudgetReport{
		Scope: string(r.Scope),
		Budgets: lo.Map(r.Budgets, func(b service.BudgetStatus, _ int) BudgetStatus {
			return BudgetStatus{
				ID:          b.ID.String(),
				Category:    b.Category,
				Period:      string(b.Period),
				Shared:      b.Shared,
				Limit:       b.Limit.String(),
				Spent:       b.Spent.String(),
				Remaining:   b.Remaining.String(),
				Percentage:  b.Percentage.StringFixed(2),
				WindowStart: b.WindowStart.Format(time.RFC3339),
				WindowEnd:   b.WindowEnd.Format(time.RFC3339),
			}
		}),
		TotalLimit: r.TotalLimit.String(),
		TotalSpent: r.TotalSpent.String(),
	}
}
