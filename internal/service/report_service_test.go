package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/family-ledger/internal/cache"
	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/storage/budget"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func TestMonthlyReport_Empty(t *testing.T) {
	f := newFixture(t)
	alice := f.account(t, "tg:alice")

	report, err := f.svc.Report.MonthlyReport(context.Background(), alice.ID, ScopePersonal)
	require.NoError(t, err)

	assert.True(t, report.TotalIncome.IsZero())
	assert.True(t, report.TotalExpense.IsZero())
	assert.True(t, report.Balance.IsZero())
	assert.NotNil(t, report.Categories)
	assert.Empty(t, report.Categories)
	assert.True(t, report.Month.Equal(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)))
}

func TestMonthlyReport_ExcludesOtherMonths(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")

	f.clock.Set(time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC))
	_, err := f.svc.Transaction.Append(ctx, alice.ID, expense("2000", "food"))
	require.NoError(t, err)

	f.clock.Set(testNow)
	_, err = f.svc.Transaction.Append(ctx, alice.ID, income("5000", "salary"))
	require.NoError(t, err)
	_, err = f.svc.Transaction.Append(ctx, alice.ID, expense("1500", "food"))
	require.NoError(t, err)

	report, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopePersonal)
	require.NoError(t, err)

	assertDecimal(t, "5000", report.TotalIncome)
	assertDecimal(t, "1500", report.TotalExpense)
	assertDecimal(t, "3500", report.Balance)
	require.Len(t, report.Categories, 1)
	assert.Equal(t, "food", report.Categories[0].Category)
	assertDecimal(t, "1500", report.Categories[0].Total)
}

func TestMonthlyReport_CategoryOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")

	for _, cmd := range []AppendCommand{
		expense("10", "taxi"), expense("30", "food"), expense("10", "cinema"), expense("5", "food"),
	} {
		_, err := f.svc.Transaction.Append(ctx, alice.ID, cmd)
		require.NoError(t, err)
	}

	report, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopePersonal)
	require.NoError(t, err)

	var order []string
	for _, c := range report.Categories {
		order = append(order, c.Category)
	}
	assert.Equal(t, []string{"food", "cinema", "taxi"}, order)
}

func TestMonthlyReport_FamilyScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")
	bob := f.account(t, "tg:bob")
	f.family(t, alice, bob)

	_, err := f.svc.Transaction.Append(ctx, alice.ID, expense("100", "food"))
	require.NoError(t, err)
	_, err = f.svc.Transaction.Append(ctx, bob.ID, expense("50", "food"))
	require.NoError(t, err)
	private := expense("7", "gifts")
	private.Private = true
	_, err = f.svc.Transaction.Append(ctx, bob.ID, private)
	require.NoError(t, err)

	pooled, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopeFamily)
	require.NoError(t, err)
	assertDecimal(t, "150", pooled.TotalExpense)

	own, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopePersonal)
	require.NoError(t, err)
	assertDecimal(t, "100", own.TotalExpense)
}

func TestCategoryReport_ExplicitRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")

	f.clock.Set(time.Date(2025, 4, 20, 10, 0, 0, 0, time.UTC))
	_, err := f.svc.Transaction.Append(ctx, alice.ID, expense("2000", "food"))
	require.NoError(t, err)
	f.clock.Set(time.Date(2025, 5, 10, 10, 0, 0, 0, time.UTC))
	_, err = f.svc.Transaction.Append(ctx, alice.ID, expense("1500", "food"))
	require.NoError(t, err)
	f.clock.Set(time.Date(2025, 5, 12, 10, 0, 0, 0, time.UTC))
	_, err = f.svc.Transaction.Append(ctx, alice.ID, income("5000", "salary"))
	require.NoError(t, err)
	f.clock.Set(testNow)

	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)
	report, err := f.svc.Report.CategoryReport(ctx, alice.ID, ScopePersonal, &start, &end)
	require.NoError(t, err)

	require.Len(t, report.ByCategory, 1)
	food := report.ByCategory["food"]
	assertDecimal(t, "0", food.Income)
	assertDecimal(t, "3500", food.Expense)
	assertDecimal(t, "-3500", food.Total)

	all, err := f.svc.Report.CategoryReport(ctx, alice.ID, ScopePersonal, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all.ByCategory, 2)
	assertDecimal(t, "1500", all.Balance)
}

func TestCategoryReport_EmptyAndInvalidRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")

	report, err := f.svc.Report.CategoryReport(ctx, alice.ID, ScopeFamily, nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, report.ByCategory)
	assert.Empty(t, report.ByCategory)
	assert.True(t, report.Balance.IsZero())

	start := testNow
	end := testNow
	_, err = f.svc.Report.CategoryReport(ctx, alice.ID, ScopeFamily, &start, &end)
	assert.ErrorIs(t, err, ledgererr.ErrInvalidInput)
}

func TestAppend_RoundTripsIntoReports(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")

	_, err := f.svc.Transaction.Append(ctx, alice.ID, expense("1234.5678", "Coffee & Tea"))
	require.NoError(t, err)

	monthly, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopePersonal)
	require.NoError(t, err)
	require.Len(t, monthly.Categories, 1)
	assert.Equal(t, "Coffee & Tea", monthly.Categories[0].Category)
	assertDecimal(t, "1234.5678", monthly.Categories[0].Total)

	byCategory, err := f.svc.Report.CategoryReport(ctx, alice.ID, ScopePersonal, nil, nil)
	require.NoError(t, err)
	assertDecimal(t, "1234.5678", byCategory.ByCategory["Coffee & Tea"].Expense)
	assertDecimal(t, "0", byCategory.ByCategory["Coffee & Tea"].Income)
	assert.True(t, byCategory.End.Equal(testNow), "an open end is reported as now")
}

func TestReports_CacheInvalidatedByFamilyMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")
	bob := f.account(t, "tg:bob")
	f.family(t, alice, bob)

	_, err := f.svc.Transaction.Append(ctx, alice.ID, expense("10", "food"))
	require.NoError(t, err)

	first, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopeFamily)
	require.NoError(t, err)
	cached, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopeFamily)
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Hits())
	assertDecimal(t, first.TotalExpense.String(), cached.TotalExpense)

	_, err = f.svc.Transaction.Append(ctx, bob.ID, expense("5", "food"))
	require.NoError(t, err)

	fresh, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopeFamily)
	require.NoError(t, err)
	assertDecimal(t, "15", fresh.TotalExpense)
	assert.Equal(t, 1, f.cache.Hits())
}

// racingCache runs beforeSet once, between loading a report and storing it.
type racingCache struct {
	*mapCache
	beforeSet func()
}

func (c *racingCache) Set(ctx context.Context, k cache.Key, gen cache.Generation, v any) {
	if f := c.beforeSet; f != nil {
		c.beforeSet = nil
		f()
	}
	c.mapCache.Set(ctx, k, gen, v)
}

func TestReports_WriteDuringLoadIsNotCached(t *testing.T) {
	racing := &racingCache{mapCache: newMapCache()}
	f := newFixture(t, func(d *Deps, _ *Options) { d.Cache = racing })
	ctx := context.Background()
	alice := f.account(t, "tg:alice")
	_, err := f.svc.Transaction.Append(ctx, alice.ID, expense("10", "food"))
	require.NoError(t, err)

	racing.beforeSet = func() {
		_, err := f.svc.Transaction.Append(ctx, alice.ID, expense("5", "food"))
		require.NoError(t, err)
	}
	loaded, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopePersonal)
	require.NoError(t, err)
	assertDecimal(t, "10", loaded.TotalExpense)

	fresh, err := f.svc.Report.MonthlyReport(ctx, alice.ID, ScopePersonal)
	require.NoError(t, err)
	assertDecimal(t, "15", fresh.TotalExpense)
	assert.Zero(t, racing.Hits())
}

func TestBudgetReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")
	bob := f.account(t, "tg:bob")
	f.family(t, alice, bob)

	_, err := f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "food", Limit: dec("200"), Period: "monthly", ForFamily: true})
	require.NoError(t, err)
	_, err = f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "taxi", Limit: dec("30"), Period: "weekly"})
	require.NoError(t, err)
	_, err = f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "gifts", Limit: dec("0"), Period: "daily"})
	require.NoError(t, err)

	// Last Sunday is outside the weekly window that starts on Monday 12 May.
	f.clock.Set(time.Date(2025, 5, 11, 9, 0, 0, 0, time.UTC))
	_, err = f.svc.Transaction.Append(ctx, alice.ID, expense("25", "taxi"))
	require.NoError(t, err)
	f.clock.Set(time.Date(2025, 5, 12, 9, 0, 0, 0, time.UTC))
	_, err = f.svc.Transaction.Append(ctx, alice.ID, expense("10", "taxi"))
	require.NoError(t, err)
	f.clock.Set(testNow)
	_, err = f.svc.Transaction.Append(ctx, alice.ID, expense("100", "food"))
	require.NoError(t, err)
	_, err = f.svc.Transaction.Append(ctx, bob.ID, expense("50", "food"))
	require.NoError(t, err)
	_, err = f.svc.Transaction.Append(ctx, alice.ID, expense("3", "gifts"))
	require.NoError(t, err)

	report, err := f.svc.Report.BudgetReport(ctx, alice.ID, ScopeFamily)
	require.NoError(t, err)
	require.Len(t, report.Budgets, 3)

	byCategory := map[string]BudgetStatus{}
	for _, b := range report.Budgets {
		byCategory[b.Category] = b
	}

	food := byCategory["food"]
	assert.True(t, food.Shared)
	assertDecimal(t, "150", food.Spent)
	assertDecimal(t, "50", food.Remaining)
	assertDecimal(t, "75", food.Percentage)

	taxi := byCategory["taxi"]
	assert.False(t, taxi.Shared)
	assertDecimal(t, "10", taxi.Spent)
	assertDecimal(t, "20", taxi.Remaining)
	assert.True(t, taxi.WindowStart.Equal(time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)))

	gifts := byCategory["gifts"]
	assertDecimal(t, "3", gifts.Spent)
	assertDecimal(t, "-3", gifts.Remaining)
	assert.True(t, gifts.Percentage.IsZero(), "zero limit never divides")

	assertDecimal(t, "230", report.TotalLimit)
	assertDecimal(t, "163", report.TotalSpent)

	bobsView, err := f.svc.Report.BudgetReport(ctx, bob.ID, ScopeFamily)
	require.NoError(t, err)
	require.Len(t, bobsView.Budgets, 1, "bob sees the family budget only")
	assert.Equal(t, "food", bobsView.Budgets[0].Category)
}

func TestSetBudget_ReplacesActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")

	_, err := f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "food", Limit: dec("100"), Period: "monthly"})
	require.NoError(t, err)
	updated, err := f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "food", Limit: dec("300"), Period: "Monthly"})
	require.NoError(t, err)
	assert.Equal(t, PeriodMonthly, updated.Period)

	report, err := f.svc.Report.BudgetReport(ctx, alice.ID, ScopePersonal)
	require.NoError(t, err)
	require.Len(t, report.Budgets, 1)
	assertDecimal(t, "300", report.Budgets[0].Limit)
}

func TestSetBudget_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")

	_, err := f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "food", Limit: dec("-1"), Period: "monthly"})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidInput)

	_, err = f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "food", Limit: dec("0.12345"), Period: "monthly"})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidInput)

	_, err = f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "food", Limit: dec("1e15"), Period: "monthly"})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidInput)

	_, err = f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "food", Limit: dec("1"), Period: "yearly"})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidInput)

	_, err = f.svc.Report.SetBudget(ctx, alice.ID, SetBudgetCommand{Category: "food", Limit: dec("1"), Period: "daily", ForFamily: true})
	assert.ErrorIs(t, err, ledgererr.ErrInvalidInput)
}

func TestPeriodWindow(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	sunday := time.Date(2025, 5, 18, 23, 30, 0, 0, loc)

	tests := []struct {
		period     budget.Period
		start, end time.Time
	}{
		{budget.PeriodDaily, time.Date(2025, 5, 18, 0, 0, 0, 0, loc), time.Date(2025, 5, 19, 0, 0, 0, 0, loc)},
		{budget.PeriodWeekly, time.Date(2025, 5, 12, 0, 0, 0, 0, loc), time.Date(2025, 5, 19, 0, 0, 0, 0, loc)},
		{budget.PeriodMonthly, time.Date(2025, 5, 1, 0, 0, 0, 0, loc), time.Date(2025, 6, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			start, end := periodWindow(tt.period, sunday)
			assert.True(t, start.Equal(tt.start), "start %s", start)
			assert.True(t, end.Equal(tt.end), "end %s", end)
		})
	}
}

func TestParseScope(t *testing.T) {
	s, err := ParseScope("", ScopePersonal)
	require.NoError(t, err)
	assert.Equal(t, ScopePersonal, s)

	s, err = ParseScope(" Family ", ScopePersonal)
	require.NoError(t, err)
	assert.Equal(t, ScopeFamily, s)

	_, err = ParseScope("world", ScopePersonal)
	assert.ErrorIs(t, err, ledgererr.ErrInvalidInput)
}
