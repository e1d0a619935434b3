package cli

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  `Show the configuration after defaults, the config file and the environment are applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			redacted := *cfg
			if redacted.Postgres.Password != "" {
				redacted.Postgres.Password = "********"
			}
			if redacted.Redis.Password != "" {
				redacted.Redis.Password = "********"
			}
			spew.Fdump(cmd.OutOrStdout(), redacted)
			return nil
		},
	}
}
