package syncfeed

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/service"
)

var asOf = time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, externalID, displayName string) (*service.Account, error) {
	args := m.Called(ctx, externalID, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Account), args.Error(1)
}

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) ChangesSince(ctx context.Context, accountID uuid.UUID, since *time.Time) (*service.Changes, error) {
	args := m.Called(ctx, accountID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Changes), args.Error(1)
}

func newTestAPI(t *testing.T) (humatest.TestAPI, *service.Account, *mockFeed) {
	t.Helper()
	acc := &service.Account{ID: uuid.Must(uuid.NewV4()), ExternalID: "tg:1"}
	resolver := new(mockResolver)
	resolver.On("Resolve", mock.Anything, "tg:1", "").Return(acc, nil)
	feed := new(mockFeed)

	_, api := humatest.New(t)
	NewHandler(resolver, feed).Register(api)
	return api, acc, feed
}

func TestHTTP_Sync_ReturnsChanges(t *testing.T) {
	api, acc, feed := newTestAPI(t)
	since := asOf.Add(-time.Hour)
	deleted := uuid.Must(uuid.NewV4())
	familyID := uuid.Must(uuid.NewV4())
	feed.On("ChangesSince", mock.Anything, acc.ID, mock.MatchedBy(func(s *time.Time) bool {
		return s != nil && s.Equal(since)
	})).Return(&service.Changes{
		Transactions: []service.Transaction{{
			ID: uuid.Must(uuid.NewV4()), AccountID: acc.ID, Amount: decimal.NewFromInt(12),
			Polarity: service.PolarityExpense, Category: "food", Currency: "USD", CreatedAt: asOf.Add(-time.Minute),
		}},
		DeletedTransactionIDs: []uuid.UUID{deleted},
		FamilyUpdates: []service.FamilyUpdate{{
			AccountID: uuid.Must(uuid.NewV4()), DisplayName: "Bob", FamilyID: familyID, JoinedAt: asOf.Add(-30 * time.Minute),
		}},
		Invites: []service.Invite{},
		AsOf:    asOf,
	}, nil)

	resp := api.Post("/v1/sync", "X-External-Id: tg:1", map[string]any{"since": since.Format(time.RFC3339)})

	require.Equal(t, http.StatusOK, resp.Code)
	var body SyncResponseBody
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Transactions, 1)
	assert.Equal(t, "food", body.Transactions[0].Category)
	assert.Equal(t, []string{deleted.String()}, body.DeletedTransactionIDs)
	require.Len(t, body.FamilyUpdates, 1)
	assert.Equal(t, "Bob", body.FamilyUpdates[0].DisplayName)
	assert.Equal(t, familyID.String(), body.FamilyUpdates[0].FamilyID)
	assert.Empty(t, body.Invites)
	assert.Equal(t, "2025-05-15T12:00:00Z", body.AsOf)
}

func TestHTTP_Sync_WithoutWatermark(t *testing.T) {
	api, acc, feed := newTestAPI(t)
	feed.On("ChangesSince", mock.Anything, acc.ID, (*time.Time)(nil)).Return(&service.Changes{
		Transactions:          []service.Transaction{},
		DeletedTransactionIDs: []uuid.UUID{},
		FamilyUpdates:         []service.FamilyUpdate{},
		Invites:               []service.Invite{},
		AsOf:                  asOf,
	}, nil)

	resp := api.Post("/v1/sync", "X-External-Id: tg:1", map[string]any{})

	require.Equal(t, http.StatusOK, resp.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.JSONEq(t, `[]`, string(body["transactions"]))
	assert.JSONEq(t, `[]`, string(body["deletedTransactionIDs"]))
	feed.AssertExpectations(t)
}

func TestHTTP_Sync_StorageUnavailable(t *testing.T) {
	api, acc, feed := newTestAPI(t)
	feed.On("ChangesSince", mock.Anything, acc.ID, mock.Anything).
		Return(nil, ledgererr.Storage("sync", assert.AnError))

	resp := api.Post("/v1/sync", "X-External-Id: tg:1", map[string]any{})

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.NotContains(t, resp.Body.String(), assert.AnError.Error())
}

func TestHTTP_Sync_RequiresCaller(t *testing.T) {
	api, _, feed := newTestAPI(t)

	resp := api.Post("/v1/sync", map[string]any{})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	feed.AssertNotCalled(t, "ChangesSince", mock.Anything, mock.Anything, mock.Anything)
}
