package cli

import (
	"github.com/spf13/cobra"

	"github.com/carson-networks/family-ledger/internal/config"
)

var configPath string

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "family-ledger",
		Short:         "Shared family expense ledger",
		Long:          `A ledger service for families tracking income, expenses and budgets together.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.AddCommand(newServeCmd(), newMigrateCmd(), newConfigCmd())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
