package operator

import (
	"sync"
	"time"
)

// writeResolution matches the timestamp precision of Postgres.
const writeResolution = time.Microsecond

// WriteClock hands out the write time of every action and remembers which of
// those writes are still running. Settled reports the latest time up to which
// every write has finished, so a reader that stops there never skips a row
// committed later with an earlier stamp.
type WriteClock struct {
	now func() time.Time

	mu       sync.Mutex
	nextID   uint64
	inflight map[uint64]time.Time
	settled  time.Time
}

func NewWriteClock(now func() time.Time) *WriteClock {
	if now == nil {
		now = time.Now
	}
	return &WriteClock{now: now, inflight: map[uint64]time.Time{}}
}

// begin stamps a new write. Stamps are always after any time already
// reported by Settled.
func (c *WriteClock) begin() (uint64, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stamp := c.now().Truncate(writeResolution)
	if !stamp.After(c.settled) {
		stamp = c.settled.Add(writeResolution)
	}
	c.nextID++
	c.inflight[c.nextID] = stamp
	return c.nextID, stamp
}

func (c *WriteClock) end(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, id)
}

// Settled returns the current time, held back to just before the oldest
// write still in flight. It never goes backwards.
func (c *WriteClock) Settled() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().Truncate(writeResolution)
	for _, stamp := range c.inflight {
		if !stamp.After(t) {
			t = stamp.Add(-writeResolution)
		}
	}
	if t.Before(c.settled) {
		t = c.settled
	}
	c.settled = t
	return t
}

// InFlight returns the number of stamped writes that have not finished.
func (c *WriteClock) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}
