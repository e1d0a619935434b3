package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/family-ledger/internal/cache"
	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/operator/actions"
	"github.com/carson-networks/family-ledger/internal/storage/budget"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

const budgetReadConcurrency = 4

var hundred = decimal.NewFromInt(100)

// ReportService aggregates the ledger into reports and manages budgets.
type ReportService struct {
	*core
}

// MonthlyReport covers the calendar month containing now.
func (s *ReportService) MonthlyReport(ctx context.Context, accountID uuid.UUID, scope Scope) (*MonthlyReport, error) {
	now := s.now()
	start, end := monthWindow(now)
	key := cache.Key{Kind: "monthly", Scope: string(scope), AccountID: accountID, Window: start.Format("2006-01")}

	return readThrough(ctx, s.deps.Cache, key, func() (*MonthlyReport, error) {
		acc, err := s.account(ctx, accountID)
		if err != nil {
			return nil, err
		}
		rows, err := s.reader().Transactions.List(ctx, &transaction.TransactionFilter{
			Visibility: scope.visibility(acc),
			Range:      transaction.TimeRange{From: start, To: end},
		})
		if err != nil {
			return nil, err
		}

		report := &MonthlyReport{Scope: scope, Month: start, Categories: []CategoryTotal{}}
		expenses := map[string]decimal.Decimal{}
		for _, row := range rows {
			switch row.Polarity {
			case transaction.PolarityIncome:
				report.TotalIncome = report.TotalIncome.Add(row.Amount)
			case transaction.PolarityExpense:
				report.TotalExpense = report.TotalExpense.Add(row.Amount)
				expenses[row.Category] = expenses[row.Category].Add(row.Amount)
			}
		}
		report.Balance = report.TotalIncome.Sub(report.TotalExpense)
		report.Categories = append(report.Categories, lo.MapToSlice(expenses, func(category string, total decimal.Decimal) CategoryTotal {
			return CategoryTotal{Category: category, Total: total}
		})...)
		slices.SortFunc(report.Categories, func(a, b CategoryTotal) int {
			if c := b.Total.Cmp(a.Total); c != 0 {
				return c
			}
			return strings.Compare(a.Category, b.Category)
		})
		return report, nil
	})
}

// CategoryReport sums income and expense per category over [start, end).
// A nil start means the epoch. A nil end leaves the range open and reports
// End as now.
func (s *ReportService) CategoryReport(ctx context.Context, accountID uuid.UUID, scope Scope, start, end *time.Time) (*CategoryReport, error) {
	from := time.Unix(0, 0).In(s.now().Location())
	if start != nil {
		from = *start
	}
	to := s.now()
	rng := transaction.TimeRange{From: from}
	if end != nil {
		to = *end
		rng.To = to
	}
	if !from.Before(to) {
		return nil, ledgererr.InvalidInput("start must be before end")
	}

	load := func() (*CategoryReport, error) {
		acc, err := s.account(ctx, accountID)
		if err != nil {
			return nil, err
		}
		rows, err := s.reader().Transactions.List(ctx, &transaction.TransactionFilter{
			Visibility: scope.visibility(acc),
			Range:      rng,
		})
		if err != nil {
			return nil, err
		}

		report := &CategoryReport{Scope: scope, Start: from, End: to, ByCategory: map[string]CategoryBreakdown{}}
		for _, row := range rows {
			b := report.ByCategory[row.Category]
			switch row.Polarity {
			case transaction.PolarityIncome:
				b.Income = b.Income.Add(row.Amount)
				report.TotalIncome = report.TotalIncome.Add(row.Amount)
			case transaction.PolarityExpense:
				b.Expense = b.Expense.Add(row.Amount)
				report.TotalExpense = report.TotalExpense.Add(row.Amount)
			}
			b.Total = b.Income.Sub(b.Expense)
			report.ByCategory[row.Category] = b
		}
		report.Balance = report.TotalIncome.Sub(report.TotalExpense)
		return report, nil
	}

	// An open end moves with the clock, so only closed ranges are cached.
	if end == nil {
		return load()
	}
	key := cache.Key{
		Kind:      "categories",
		Scope:     string(scope),
		AccountID: accountID,
		Window:    fmt.Sprintf("%d-%d", from.UnixNano(), to.UnixNano()),
	}
	return readThrough(ctx, s.deps.Cache, key, load)
}

// BudgetReport measures every active budget of the account and its family
// against the period window containing now.
func (s *ReportService) BudgetReport(ctx context.Context, accountID uuid.UUID, scope Scope) (*BudgetReport, error) {
	now := s.now()
	key := cache.Key{Kind: "budgets", Scope: string(scope), AccountID: accountID, Window: now.Format(time.DateOnly)}

	return readThrough(ctx, s.deps.Cache, key, func() (*BudgetReport, error) {
		acc, err := s.account(ctx, accountID)
		if err != nil {
			return nil, err
		}
		r := s.reader()
		budgets, err := r.Budgets.ListActive(ctx, acc.ID, acc.FamilyID)
		if err != nil {
			return nil, err
		}

		statuses := make([]BudgetStatus, len(budgets))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(budgetReadConcurrency)
		for i, b := range budgets {
			g.Go(func() error {
				start, end := periodWindow(b.Period, now)
				rows, err := r.Transactions.List(gctx, &transaction.TransactionFilter{
					Visibility: scope.visibility(acc),
					Range:      transaction.TimeRange{From: start, To: end},
					Category:   b.Category,
					Polarity:   transaction.PolarityExpense,
				})
				if err != nil {
					return err
				}
				spent := decimal.Sum(decimal.Zero, lo.Map(rows, func(row *transaction.Transaction, _ int) decimal.Decimal {
					return row.Amount
				})...)
				statuses[i] = budgetStatus(b, spent, start, end)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		report := &BudgetReport{Scope: scope, Budgets: statuses}
		for _, st := range statuses {
			report.TotalLimit = report.TotalLimit.Add(st.Limit)
			report.TotalSpent = report.TotalSpent.Add(st.Spent)
		}
		return report, nil
	})
}

func budgetStatus(b *budget.Budget, spent decimal.Decimal, start, end time.Time) BudgetStatus {
	pct := decimal.Zero
	if !b.Limit.IsZero() {
		pct = spent.Div(b.Limit).Mul(hundred)
	}
	return BudgetStatus{
		ID:          b.ID,
		Category:    b.Category,
		Period:      b.Period,
		Shared:      b.Owner.FamilyID != nil,
		Limit:       b.Limit,
		Spent:       spent,
		Remaining:   b.Limit.Sub(spent),
		Percentage:  pct,
		WindowStart: start,
		WindowEnd:   end,
	}
}

// SetBudget replaces the active budget for the category and period.
func (s *ReportService) SetBudget(ctx context.Context, accountID uuid.UUID, cmd SetBudgetCommand) (*Budget, error) {
	cmd.Category = strings.TrimSpace(cmd.Category)
	cmd.Period = strings.ToLower(strings.TrimSpace(cmd.Period))
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	id, err := newID()
	if err != nil {
		return nil, err
	}

	action := &actions.SetBudget{
		NewID:     id,
		AccountID: accountID,
		Category:  cmd.Category,
		Limit:     cmd.Limit,
		Period:    budget.Period(cmd.Period),
		ForFamily: cmd.ForFamily,
	}
	if err := s.run(ctx, action); err != nil {
		return nil, err
	}
	return budgetFromStorage(action.Budget), nil
}

func readThrough[T any](ctx context.Context, c cache.Store, key cache.Key, load func() (*T, error)) (*T, error) {
	var hit T
	gen, ok := c.Get(ctx, key, &hit)
	if ok {
		return &hit, nil
	}
	v, err := load()
	if err != nil {
		return nil, err
	}
	c.Set(ctx, key, gen, v)
	return v, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func monthWindow(t time.Time) (time.Time, time.Time) {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}

// periodWindow returns the half-open window of p containing t. Weeks start on
// Monday.
func periodWindow(p budget.Period, t time.Time) (time.Time, time.Time) {
	switch p {
	case budget.PeriodDaily:
		start := dayStart(t)
		return start, start.AddDate(0, 0, 1)
	case budget.PeriodWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		start := dayStart(t).AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	default:
		return monthWindow(t)
	}
}
