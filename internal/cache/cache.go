// Package cache is a read-through cache for report results.
//
// Entries are keyed by the requesting account's generation. Invalidate bumps
// the generation, so stale entries are never read again and simply expire.
// Get reports the generation it looked under and Set writes under that same
// generation, so a result loaded before an invalidation lands in a dead slot.
package cache

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
)

type Key struct {
	Kind      string
	Scope     string
	AccountID uuid.UUID
	Window    string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.Kind, k.Scope, k.AccountID, k.Window)
}

// Generation is the invalidation counter of one account.
type Generation int64

// UnknownGeneration is returned by Get when the counter could not be read.
// Set ignores it.
const UnknownGeneration Generation = -1

// Store never reports failures to callers; a broken cache behaves like a miss.
type Store interface {
	Get(ctx context.Context, key Key, dst any) (Generation, bool)
	Set(ctx context.Context, key Key, gen Generation, value any)
	Invalidate(ctx context.Context, accountIDs ...uuid.UUID)
}

var _ Store = Noop{}

// Noop is used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, Key, any) (Generation, bool) { return UnknownGeneration, false }

func (Noop) Set(context.Context, Key, Generation, any) {}

func (Noop) Invalidate(context.Context, ...uuid.UUID) {}
