// Package presenter renders reports as plain text for chat clients.
package presenter

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/family-ledger/internal/service"
)

const topCategories = 5

var (
	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Money formats d in currency. Amounts are truncated, not rounded, to the
// currency's minor unit. Totals too large for int64 minor units are printed
// as plain numbers.
func Money(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	fraction := int32(cur.Fraction)
	minor := d.Shift(fraction).Truncate(0)
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return d.Truncate(fraction).StringFixed(fraction) + " " + cur.Code
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}

// Percent renders p truncated to one decimal place.
func Percent(p decimal.Decimal) string {
	return p.Truncate(1).StringFixed(1) + "%"
}

func MonthlySummary(r *service.MonthlyReport, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", r.Month.Format("January 2006"), r.Scope)
	fmt.Fprintf(&b, "Income: %s\n", Money(r.TotalIncome, currency))
	fmt.Fprintf(&b, "Expenses: %s\n", Money(r.TotalExpense, currency))
	fmt.Fprintf(&b, "Balance: %s\n", Money(r.Balance, currency))

	if len(r.Categories) == 0 {
		b.WriteString("\nNo expenses this month.")
		return b.String()
	}

	b.WriteString("\nTop expenses:\n")
	for i, c := range r.Categories {
		if i == topCategories {
			fmt.Fprintf(&b, "  ...and %d more\n", len(r.Categories)-topCategories)
			break
		}
		fmt.Fprintf(&b, "  %s: %s\n", c.Category, Money(c.Total, currency))
	}
	return strings.TrimRight(b.String(), "\n")
}

func BudgetSummary(r *service.BudgetReport, currency string) string {
	if len(r.Budgets) == 0 {
		return "No budgets set."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Budgets (%s)\n", r.Scope)
	for _, st := range r.Budgets {
		owner := "personal"
		if st.Shared {
			owner = "family"
		}
		fmt.Fprintf(&b, "%s [%s, %s]: %s of %s (%s), ",
			st.Category, st.Period, owner,
			Money(st.Spent, currency), Money(st.Limit, currency), Percent(st.Percentage))
		if st.Remaining.IsNegative() {
			fmt.Fprintf(&b, "over by %s\n", Money(st.Remaining.Neg(), currency))
		} else {
			fmt.Fprintf(&b, "%s left\n", Money(st.Remaining, currency))
		}
	}
	fmt.Fprintf(&b, "Total: %s of %s", Money(r.TotalSpent, currency), Money(r.TotalLimit, currency))
	return b.String()
}
