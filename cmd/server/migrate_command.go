package main

import (
	"github.com/spf13/cobra"

	"github.com/iliyamo/movielist/internal/database"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := ctx.load()
			if err := cfg.Validate("DB_URI"); err != nil {
				return err
			}
			if err := database.Migrate(cfg.DBURI); err != nil {
				return err
			}
			log.Info("migrations applied")
			return nil
		},
	}
}
