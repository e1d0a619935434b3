// Package memory is an in-process Storage used by tests and the dev server.
//
// Writers are serialized and work on a private copy of the data, which
// replaces the shared copy on Commit. Readers never observe a partial write.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/gofrs/uuid/v5"

	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/account"
	"github.com/carson-networks/family-ledger/internal/storage/budget"
	"github.com/carson-networks/family-ledger/internal/storage/family"
	"github.com/carson-networks/family-ledger/internal/storage/invite"
	"github.com/carson-networks/family-ledger/internal/storage/transaction"
)

var _ storage.Storage = (*Store)(nil)

var errTxnDone = errors.New("memory: transaction already finished")

type state struct {
	accounts     map[uuid.UUID]account.Account
	byExternalID map[string]uuid.UUID
	families     map[uuid.UUID]family.Family
	invites      map[string]invite.Invite
	transactions []transaction.Transaction
	budgets      []budget.Budget
}

func newState() *state {
	return &state{
		accounts:     make(map[uuid.UUID]account.Account),
		byExternalID: make(map[string]uuid.UUID),
		families:     make(map[uuid.UUID]family.Family),
		invites:      make(map[string]invite.Invite),
	}
}

func (s *state) clone() *state {
	c := &state{
		accounts:     make(map[uuid.UUID]account.Account, len(s.accounts)),
		byExternalID: make(map[string]uuid.UUID, len(s.byExternalID)),
		families:     make(map[uuid.UUID]family.Family, len(s.families)),
		invites:      make(map[string]invite.Invite, len(s.invites)),
		transactions: append([]transaction.Transaction(nil), s.transactions...),
		budgets:      append([]budget.Budget(nil), s.budgets...),
	}
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.byExternalID {
		c.byExternalID[k] = v
	}
	for k, v := range s.families {
		c.families[k] = v
	}
	for k, v := range s.invites {
		c.invites[k] = v
	}
	return c
}

// source hands out the state a reader or writer operates on.
type source interface {
	current() *state
}

type Store struct {
	mu      sync.RWMutex
	writeMu sync.Mutex
	data    *state
	reader  *storage.Reader
}

func New() *Store {
	s := &Store{data: newState()}
	s.reader = &storage.Reader{
		Accounts:     &accounts{src: s},
		Families:     &families{src: s},
		Invites:      &invites{src: s},
		Transactions: &transactions{src: s},
		Budgets:      &budgets{src: s},
	}
	return s
}

func (s *Store) current() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

func (s *Store) Reader() *storage.Reader {
	return s.reader
}

// Write blocks until no other writer is active, or ctx is done.
func (s *Store) Write(ctx context.Context) (*storage.Writer, error) {
	acquired := make(chan struct{})
	go func() {
		s.writeMu.Lock()
		close(acquired)
	}()
	select {
	case <-acquired:
	case <-ctx.Done():
		go func() {
			<-acquired
			s.writeMu.Unlock()
		}()
		return nil, ctx.Err()
	}

	t := &txn{store: s, data: s.current().clone()}
	return &storage.Writer{
		Txn:          t,
		Accounts:     &accounts{src: t},
		Families:     &families{src: t},
		Invites:      &invites{src: t},
		Transactions: &transactions{src: t},
		Budgets:      &budgets{src: t},
	}, nil
}

func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Close() error {
	return nil
}

type txn struct {
	store *Store
	data  *state
	done  bool
}

func (t *txn) current() *state {
	return t.data
}

func (t *txn) Commit(context.Context) error {
	if t.done {
		return errTxnDone
	}
	t.done = true
	t.store.mu.Lock()
	t.store.data = t.data
	t.store.mu.Unlock()
	t.store.writeMu.Unlock()
	return nil
}

func (t *txn) Rollback(context.Context) error {
	if t.done {
		return errTxnDone
	}
	t.done = true
	t.store.writeMu.Unlock()
	return nil
}
