package operator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/family-ledger/internal/operator/actions"
	"github.com/carson-networks/family-ledger/internal/storage"
)

var ErrStopped = errors.New("operator: stopped")

// Processor runs an action inside exactly one store transaction.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
	// Settled is the latest write time up to which every write has finished.
	Settled() time.Time
}

var _ Processor = (*OperatorDelegator)(nil)

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	storage    storage.Storage
	clock      *WriteClock
	logger     logrus.FieldLogger
	queue      chan ActionItem
	numWorkers int
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stateMu    sync.RWMutex
	stopped    bool
}

// NewOperatorDelegator builds the worker pool. A nil clock stamps writes with
// time.Now.
func NewOperatorDelegator(s storage.Storage, clock *WriteClock, numWorkers, queueSize int, logger logrus.FieldLogger) *OperatorDelegator {
	if clock == nil {
		clock = NewWriteClock(nil)
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	if queueSize < 1 {
		queueSize = 1000
	}
	return &OperatorDelegator{
		storage:    s,
		clock:      clock,
		logger:     logger,
		queue:      make(chan ActionItem, queueSize),
		numWorkers: numWorkers,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.storage, d.queue, d.logger)
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
}

// Stop closes the queue and waits for in-flight items to finish.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.stateMu.Lock()
		d.stopped = true
		close(d.queue)
		d.stateMu.Unlock()
		d.wg.Wait()
	})
}

func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
		done:     func() {},
	}

	if stamped, ok := action.(actions.Stamped); ok {
		id, now := d.clock.begin()
		stamped.SetNow(now)
		item.done = func() { d.clock.end(id) }
	}

	if err := d.enqueue(ctx, item); err != nil {
		item.done()
		return err
	}

	select {
	case resp := <-respCh:
		return resp.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *OperatorDelegator) Settled() time.Time {
	return d.clock.Settled()
}

func (d *OperatorDelegator) InFlight() int {
	return d.clock.InFlight()
}

func (d *OperatorDelegator) enqueue(ctx context.Context, item ActionItem) error {
	d.stateMu.RLock()
	defer d.stateMu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.queue <- item:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
