package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/family-ledger/api"
	"github.com/carson-networks/family-ledger/internal/cache"
	"github.com/carson-networks/family-ledger/internal/config"
	"github.com/carson-networks/family-ledger/internal/handlers/v1/report"
	"github.com/carson-networks/family-ledger/internal/logging"
	"github.com/carson-networks/family-ledger/internal/operator"
	"github.com/carson-networks/family-ledger/internal/service"
	"github.com/carson-networks/family-ledger/internal/storage"
	"github.com/carson-networks/family-ledger/internal/storage/memory"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, !skipMigrations)
		},
	}

	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "Do not apply pending migrations on startup")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, migrateUp bool) error {
	logger := logging.SetupLogging(cfg.Log.Level)
	logger.WithField("backend", cfg.Storage.Backend).Info("family-ledger starting")

	store, err := openStorage(cfg, logger, migrateUp)
	if err != nil {
		logger.WithError(err).Error("storage.open")
		return err
	}
	defer store.Close()

	reportCache, closeCache, err := openCache(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("cache.open")
		return err
	}
	defer closeCache()

	clock := service.SystemClock(cfg.Location())
	op := operator.NewOperatorDelegator(store, operator.NewWriteClock(clock.Now), cfg.Operator.Workers, cfg.Operator.QueueSize, logger)
	op.Start()
	defer op.Stop()

	svc := service.NewService(service.Deps{
		Storage:  store,
		Operator: op,
		Cache:    reportCache,
		Clock:    clock,
		Logger:   logger,
	}, service.OptionsFromConfig(cfg))

	rest := &api.Rest{
		Logger:  logger,
		Config:  cfg.HTTP,
		Storage: store,
		Service: svc,
		Settings: report.Settings{
			DefaultScope:    service.Scope(cfg.Ledger.ReportScope),
			DefaultCurrency: cfg.Ledger.DefaultCurrency,
			Location:        cfg.Location(),
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return rest.Serve(gctx)
	})
	err = g.Wait()
	logger.Info("family-ledger stopped")
	return err
}

func openStorage(cfg *config.Config, logger *logrus.Logger, migrateUp bool) (storage.Storage, error) {
	if cfg.Storage.Backend == config.BackendMemory {
		logger.Warn("using in-memory storage, data is lost on exit")
		return memory.New(), nil
	}

	pg, err := storage.NewStorage(cfg)
	if err != nil {
		return nil, err
	}
	if migrateUp {
		if _, err := storage.MigrateUp(pg.DB(), logger); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}
	return pg, nil
}

// openCache returns the Redis report cache, or a no-op cache when no address
// is configured.
func openCache(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (cache.Store, func(), error) {
	if cfg.Redis.Address == "" {
		return cache.Noop{}, func() {}, nil
	}

	client, err := cache.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logger.WithError(err).Warn("redis.Close")
		}
	}
	return cache.NewRedis(client, cfg.Redis.TTL, logger), closeFn, nil
}
