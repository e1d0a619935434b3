package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carson-networks/family-ledger/internal/config"
	"github.com/carson-networks/family-ledger/internal/logging"
	"github.com/carson-networks/family-ledger/internal/storage"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openPostgres()
			if err != nil {
				return err
			}
			defer pg.Close()

			logger := logging.SetupLogging("info")
			result, err := storage.MigrateUp(pg.DB(), logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d -> %d\n", result.PreVersion, result.PostVersion)
			return nil
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			pg, err := openPostgres()
			if err != nil {
				return err
			}
			defer pg.Close()
			return storage.MigrateDown(pg.DB(), steps)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func openPostgres() (*storage.Postgres, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Storage.Backend != config.BackendPostgres {
		return nil, fmt.Errorf("migrate: storage backend is %q, not %s", cfg.Storage.Backend, config.BackendPostgres)
	}
	return storage.NewStorage(cfg)
}
