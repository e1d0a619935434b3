package service

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/family-ledger/internal/cache"
	"github.com/carson-networks/family-ledger/internal/operator"
	"github.com/carson-networks/family-ledger/internal/storage/memory"
)

// 2025-05-15 is a Thursday.
var testNow = time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.Set(c.Now().Add(d))
}

// mapCache is an in-process cache.Store with the same generation semantics
// as the Redis one.
type mapCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	generations map[uuid.UUID]cache.Generation
	hits        int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}, generations: map[uuid.UUID]cache.Generation{}}
}

func mapKey(k cache.Key, gen cache.Generation) string {
	b, _ := json.Marshal([]any{k.String(), gen})
	return string(b)
}

func (c *mapCache) Get(_ context.Context, k cache.Key, dst any) (cache.Generation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	gen := c.generations[k.AccountID]
	data, ok := c.entries[mapKey(k, gen)]
	if !ok {
		return gen, false
	}
	c.hits++
	return gen, json.Unmarshal(data, dst) == nil
}

func (c *mapCache) Set(_ context.Context, k cache.Key, gen cache.Generation, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := json.Marshal(v)
	if err == nil {
		c.entries[mapKey(k, gen)] = data
	}
}

func (c *mapCache) Invalidate(_ context.Context, ids ...uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		c.generations[id]++
	}
}

func (c *mapCache) Hits() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits
}

// repeatingEntropy hands out the given 16-byte blocks in order, then repeats the last.
type repeatingEntropy struct {
	mu     sync.Mutex
	blocks [][]byte
}

func (r *repeatingEntropy) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	block := r.blocks[0]
	if len(r.blocks) > 1 {
		r.blocks = r.blocks[1:]
	}
	return copy(p, block), nil
}

type fixture struct {
	svc   *Service
	store *memory.Store
	ops   *operator.OperatorDelegator
	clock *fakeClock
	cache *mapCache
}

type fixtureOption func(*Deps, *Options)

func withEntropy(blocks ...[]byte) fixtureOption {
	return func(d *Deps, _ *Options) {
		d.Entropy = &repeatingEntropy{blocks: blocks}
	}
}

func withRefreshDisplayName() fixtureOption {
	return func(_ *Deps, o *Options) {
		o.RefreshDisplayName = true
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	store := memory.New()
	clock := &fakeClock{now: testNow}
	ops := operator.NewOperatorDelegator(store, operator.NewWriteClock(clock.Now), 2, 16, logger)
	ops.Start()
	t.Cleanup(ops.Stop)

	f := &fixture{store: store, ops: ops, clock: clock, cache: newMapCache()}
	deps := Deps{
		Storage:  store,
		Operator: ops,
		Cache:    f.cache,
		Clock:    f.clock,
		Logger:   logger,
	}
	options := Options{
		InviteTTL:       24 * time.Hour,
		InviteAttempts:  3,
		DefaultScope:    ScopeFamily,
		DefaultCurrency: "RUB",
		ListLimit:       50,
	}
	for _, opt := range opts {
		opt(&deps, &options)
	}
	f.svc = NewService(deps, options)
	return f
}

func (f *fixture) account(t *testing.T, externalID string) *Account {
	t.Helper()
	acc, err := f.svc.Identity.Resolve(context.Background(), externalID, externalID)
	require.NoError(t, err)
	return acc
}

// family creates a family owned by the first account and joins the rest.
func (f *fixture) family(t *testing.T, owner *Account, members ...*Account) *Family {
	t.Helper()
	ctx := context.Background()
	fam, err := f.svc.Family.CreateFamily(ctx, owner.ID, "Home")
	require.NoError(t, err)
	for _, m := range members {
		inv, err := f.svc.Family.IssueInvite(ctx, owner.ID)
		require.NoError(t, err)
		_, err = f.svc.Family.RedeemInvite(ctx, inv.Code, m.ID)
		require.NoError(t, err)
	}
	return fam
}

func block(b byte) []byte {
	return bytes.Repeat([]byte{b}, inviteCodeBytes)
}
