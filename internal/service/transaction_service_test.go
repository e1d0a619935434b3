package service

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
)

func expense(amount, category string) AppendCommand {
	return AppendCommand{Amount: decimal.RequireFromString(amount), Polarity: "expense", Category: category}
}

func income(amount, category string) AppendCommand {
	return AppendCommand{Amount: decimal.RequireFromString(amount), Polarity: "income", Category: category}
}

func TestAppend_DefaultsAndFamilyTag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")
	fam := f.family(t, alice)

	tx, err := f.svc.Transaction.Append(ctx, alice.ID, AppendCommand{
		Amount:      decimal.RequireFromString("12.34"),
		Polarity:    " Expense ",
		Category:    " food ",
		Description: "lunch",
	})
	require.NoError(t, err)

	assert.Equal(t, PolarityExpense, tx.Polarity)
	assert.Equal(t, "food", tx.Category)
	assert.Equal(t, "RUB", tx.Currency)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("12.34")))
	require.NotNil(t, tx.FamilyID)
	assert.Equal(t, fam.ID, *tx.FamilyID)

	private, err := f.svc.Transaction.Append(ctx, alice.ID, AppendCommand{
		Amount: decimal.NewFromInt(1), Polarity: "income", Category: "gift", Currency: "usd", Private: true,
	})
	require.NoError(t, err)
	assert.Nil(t, private.FamilyID)
	assert.Equal(t, "USD", private.Currency)
}

func TestAppend_Validation(t *testing.T) {
	f := newFixture(t)
	alice := f.account(t, "tg:alice")

	tests := []struct {
		name     string
		cmd      AppendCommand
		fragment string
	}{
		{"negative amount", expense("-1", "food"), "amount"},
		{"too many decimal places", expense("1.00005", "food"), "decimal places"},
		{"too large", expense("1000000000000000", "food"), "amount"},
		{"unknown polarity", AppendCommand{Amount: decimal.NewFromInt(1), Polarity: "transfer", Category: "x"}, "polarity"},
		{"missing category", expense("1", "  "), "category"},
		{"unknown currency", AppendCommand{Amount: decimal.NewFromInt(1), Polarity: "income", Category: "x", Currency: "ZZZ"}, "currency"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Transaction.Append(context.Background(), alice.ID, tt.cmd)
			require.ErrorIs(t, err, ledgererr.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.fragment)
		})
	}
}

func TestAppend_AmountsAtTheStorageLimits(t *testing.T) {
	f := newFixture(t)
	alice := f.account(t, "tg:alice")

	for _, amount := range []string{"0", "1.10000", "0.0001", "999999999999999.9999"} {
		tx, err := f.svc.Transaction.Append(context.Background(), alice.ID, expense(amount, "food"))
		require.NoError(t, err, amount)
		assert.True(t, tx.Amount.Equal(decimal.RequireFromString(amount)), amount)
	}
}

func TestAppend_UnknownAccount(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Transaction.Append(context.Background(), uuid.Must(uuid.NewV4()), expense("1", "food"))
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)
}

func TestList_NewestFirstWithScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")
	bob := f.account(t, "tg:bob")
	f.family(t, alice, bob)

	var ids []uuid.UUID
	for _, who := range []*Account{alice, bob, alice} {
		f.clock.Advance(time.Minute)
		tx, err := f.svc.Transaction.Append(ctx, who.ID, expense("1", "food"))
		require.NoError(t, err)
		ids = append(ids, tx.ID)
	}

	family, err := f.svc.Transaction.List(ctx, alice.ID, ScopeFamily, 0)
	require.NoError(t, err)
	require.Len(t, family, 3)
	assert.Equal(t, []uuid.UUID{ids[2], ids[1], ids[0]}, []uuid.UUID{family[0].ID, family[1].ID, family[2].ID})

	personal, err := f.svc.Transaction.List(ctx, alice.ID, ScopePersonal, 1)
	require.NoError(t, err)
	require.Len(t, personal, 1)
	assert.Equal(t, ids[2], personal[0].ID)
}

func TestDelete_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.account(t, "tg:alice")
	bob := f.account(t, "tg:bob")
	f.family(t, alice, bob)

	tx, err := f.svc.Transaction.Append(ctx, alice.ID, expense("10", "food"))
	require.NoError(t, err)

	err = f.svc.Transaction.Delete(ctx, bob.ID, tx.ID)
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)

	require.NoError(t, f.svc.Transaction.Delete(ctx, alice.ID, tx.ID))

	err = f.svc.Transaction.Delete(ctx, alice.ID, tx.ID)
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)

	left, err := f.svc.Transaction.List(ctx, bob.ID, ScopeFamily, 0)
	require.NoError(t, err)
	assert.Empty(t, left)
}
