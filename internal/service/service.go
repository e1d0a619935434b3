package service

import (
	"context"
	"crypto/rand"
	"io"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/family-ledger/internal/cache"
	"github.com/carson-networks/family-ledger/internal/config"
	"github.com/carson-networks/family-ledger/internal/ledgererr"
	"github.com/carson-networks/family-ledger/internal/operator"
	"github.com/carson-networks/family-ledger/internal/operator/actions"
	"github.com/carson-networks/family-ledger/internal/storage"
)

// Options are the ledger settings the services read.
type Options struct {
	InviteTTL          time.Duration
	InviteAttempts     int
	DefaultScope       Scope
	DefaultCurrency    string
	RefreshDisplayName bool
	ListLimit          int
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InviteTTL:          cfg.Ledger.InviteTTL,
		InviteAttempts:     cfg.Ledger.InviteAttempts,
		DefaultScope:       Scope(cfg.Ledger.ReportScope),
		DefaultCurrency:    cfg.Ledger.DefaultCurrency,
		RefreshDisplayName: cfg.Ledger.RefreshDisplayName,
		ListLimit:          cfg.Ledger.ListLimit,
	}
}

// Deps are the collaborators shared by every service. Cache, Clock, Entropy and
// Logger fall back to a no-op cache, the UTC system clock, crypto/rand and the
// standard logrus logger.
type Deps struct {
	Storage  storage.Storage
	Operator operator.Processor
	Cache    cache.Store
	Clock    Clock
	Entropy  io.Reader
	Logger   logrus.FieldLogger
}

// Service holds all business logic services.
type Service struct {
	Identity    *IdentityService
	Family      *FamilyService
	Transaction *TransactionService
	Report      *ReportService
	Sync        *SyncService
}

// NewService creates a new Service with the given dependencies.
func NewService(deps Deps, opts Options) *Service {
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock(time.UTC)
	}
	if deps.Entropy == nil {
		deps.Entropy = rand.Reader
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if opts.DefaultScope == "" {
		opts.DefaultScope = ScopeFamily
	}
	if opts.ListLimit < 1 {
		opts.ListLimit = 50
	}
	if opts.InviteTTL <= 0 {
		opts.InviteTTL = 24 * time.Hour
	}

	c := &core{deps: deps, opts: opts}
	return &Service{
		Identity:    &IdentityService{core: c},
		Family:      &FamilyService{core: c},
		Transaction: &TransactionService{core: c},
		Report:      &ReportService{core: c},
		Sync:        &SyncService{core: c},
	}
}

type core struct {
	deps Deps
	opts Options
}

func (c *core) reader() *storage.Reader {
	return c.deps.Storage.Reader()
}

func (c *core) now() time.Time {
	return c.deps.Clock.Now()
}

// run sends action through the operator and, on success, drops cached reports
// of every account the action reports as affected.
func (c *core) run(ctx context.Context, action actions.IAction) error {
	if err := c.deps.Operator.Process(ctx, action); err != nil {
		return err
	}
	if inv, ok := action.(actions.Invalidator); ok {
		c.deps.Cache.Invalidate(ctx, inv.AffectedAccounts()...)
	}
	return nil
}

func (c *core) account(ctx context.Context, id uuid.UUID) (*Account, error) {
	row, err := c.reader().Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return accountFromStorage(row), nil
}

func newID() (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, ledgererr.Storage("uuid.NewV4", err)
	}
	return id, nil
}
