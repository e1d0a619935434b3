package cache

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/assert"
)

func TestKey_String(t *testing.T) {
	id := uuid.Must(uuid.FromString("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	key := Key{Kind: "monthly", Scope: "family", AccountID: id, Window: "2025-05"}

	assert.Equal(t, "monthly:family:6ba7b810-9dad-11d1-80b4-00c04fd430c8:2025-05", key.String())
	assert.Equal(t, "ledger:report:monthly:family:6ba7b810-9dad-11d1-80b4-00c04fd430c8:2025-05:g3", entryKey(key, 3))
	assert.Equal(t, "ledger:gen:6ba7b810-9dad-11d1-80b4-00c04fd430c8", generationKey(id))
}

func TestNoop(t *testing.T) {
	var dst map[string]int
	c := Noop{}
	c.Set(context.Background(), Key{}, 0, map[string]int{"a": 1})
	c.Invalidate(context.Background(), uuid.Must(uuid.NewV4()))

	gen, hit := c.Get(context.Background(), Key{}, &dst)
	assert.False(t, hit)
	assert.Equal(t, UnknownGeneration, gen)
	assert.Nil(t, dst)
}
