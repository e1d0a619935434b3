package operator

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/operator/actions"
	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/account"
	"github.com/carson-networks/family-ledger/internal/storage/memory"
)

type funcAction func(ctx context.Context, writer *storage.Writer) error

func (f funcAction) Perform(ctx context.Context, writer *storage.Writer) error {
	return f(ctx, writer)
}

func newDelegator(t *testing.T, s storage.Storage, workers int) *OperatorDelegator {
	t.Helper()
	logger, _ := test.NewNullLogger()
	d := NewOperatorDelegator(s, nil, workers, 16, logger)
	d.Start()
	t.Cleanup(d.Stop)
	return d
}

func insertAccount(externalID string) funcAction {
	return func(ctx context.Context, writer *storage.Writer) error {
		_, err := writer.Accounts.Insert(ctx, &account.AccountCreate{
			ID:         uuid.Must(uuid.NewV4()),
			ExternalID: externalID,
		})
		return err
	}
}

func TestProcess_CommitsOnSuccess(t *testing.T) {
	s := memory.New()
	d := newDelegator(t, s, 2)

	require.NoError(t, d.Process(context.Background(), insertAccount("tg:1")))

	_, err := s.Reader().Accounts.FindByExternalID(context.Background(), "tg:1")
	assert.NoError(t, err)
}

func TestProcess_RollsBackOnError(t *testing.T) {
	s := memory.New()
	d := newDelegator(t, s, 1)
	boom := errors.New("boom")

	err := d.Process(context.Background(), funcAction(func(ctx context.Context, writer *storage.Writer) error {
		if err := insertAccount("tg:1")(ctx, writer); err != nil {
			return err
		}
		return boom
	}))

	assert.ErrorIs(t, err, boom)
	_, err = s.Reader().Accounts.FindByExternalID(context.Background(), "tg:1")
	assert.ErrorIs(t, err, ledgererr.ErrNotFound, "partial writes are rolled back")
}

func TestProcess_RecoversFromPanic(t *testing.T) {
	s := memory.New()
	d := newDelegator(t, s, 1)

	err := d.Process(context.Background(), funcAction(func(context.Context, *storage.Writer) error {
		panic("unexpected")
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")

	assert.NoError(t, d.Process(context.Background(), insertAccount("tg:2")), "worker survives and the store is unlocked")
}

func TestProcess_HonoursCancelledContext(t *testing.T) {
	s := memory.New()
	d := newDelegator(t, s, 1)

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = d.Process(context.Background(), funcAction(func(context.Context, *storage.Writer) error {
			close(started)
			<-release
			return nil
		}))
	}()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	var ran atomic.Bool
	err := d.Process(ctx, funcAction(func(context.Context, *storage.Writer) error {
		ran.Store(true)
		return nil
	}))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, d.Process(context.Background(), insertAccount("tg:3")))
	assert.False(t, ran.Load(), "expired items are skipped by the worker")
}

func TestProcess_AfterStop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	d := NewOperatorDelegator(memory.New(), nil, 1, 1, logger)
	d.Start()
	d.Stop()
	d.Stop()

	err := d.Process(context.Background(), insertAccount("tg:1"))
	assert.ErrorIs(t, err, ErrStopped)
}

type failingStorage struct {
	storage.Storage
}

func (failingStorage) Write(context.Context) (*storage.Writer, error) {
	return nil, errors.New("connection refused")
}

func TestProcess_BeginFailureIsStorageUnavailable(t *testing.T) {
	d := newDelegator(t, failingStorage{Storage: memory.New()}, 1)

	err := d.Process(context.Background(), insertAccount("tg:1"))

	assert.ErrorIs(t, err, ledgererr.ErrStorageUnavailable)
	assert.True(t, ledgererr.Retryable(err))
}

var _ actions.IAction = funcAction(nil)
