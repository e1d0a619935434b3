package service

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
)

func TestResolve_CreatesOnFirstContact(t *testing.T) {
	f := newFixture(t)

	acc, err := f.svc.Identity.Resolve(context.Background(), " tg:42 ", "Alice")
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, acc.ID)
	assert.Equal(t, "tg:42", acc.ExternalID)
	assert.Equal(t, "Alice", acc.DisplayName)
	assert.Nil(t, acc.FamilyID)
	assert.True(t, acc.CreatedAt.Equal(testNow))
}

func TestResolve_IsIdempotentAndFirstNameWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.Identity.Resolve(ctx, "tg:42", "Alice")
	require.NoError(t, err)
	second, err := f.svc.Identity.Resolve(ctx, "tg:42", "Alice Cooper")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Alice", second.DisplayName)
}

func TestResolve_RefreshDisplayName(t *testing.T) {
	f := newFixture(t, withRefreshDisplayName())
	ctx := context.Background()

	first, err := f.svc.Identity.Resolve(ctx, "tg:42", "Alice")
	require.NoError(t, err)
	renamed, err := f.svc.Identity.Resolve(ctx, "tg:42", "Alice Cooper")
	require.NoError(t, err)
	blank, err := f.svc.Identity.Resolve(ctx, "tg:42", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, renamed.ID)
	assert.Equal(t, "Alice Cooper", renamed.DisplayName)
	assert.Equal(t, "Alice Cooper", blank.DisplayName, "an empty name never overwrites")
}

func TestResolve_RequiresExternalID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Identity.Resolve(context.Background(), "   ", "Alice")
	assert.ErrorIs(t, err, ledgererr.ErrInvalidInput)
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	acc := f.account(t, "tg:1")

	got, err := f.svc.Identity.Get(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)

	_, err = f.svc.Identity.Get(context.Background(), uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)
}
