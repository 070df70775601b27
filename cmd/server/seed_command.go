package main

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iliyamo/movielist/internal/config"
	"github.com/iliyamo/movielist/internal/metrics"
	"github.com/iliyamo/movielist/internal/moviedb"
	"github.com/iliyamo/movielist/internal/repository"
	"github.com/iliyamo/movielist/internal/service"
)

func newSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Populate an empty catalog from the top-rated list",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := ctx.load()
			if err := cfg.Validate("API_KEY", "DB_URI"); err != nil {
				return err
			}
			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			res, err := seedCatalog(cmd.Context(), cfg, db, newLookup(cfg), log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: inserted=%d skipped=%d\n", res.State, res.Inserted, res.Skipped)
			return nil
		},
	}
}

func newLookup(cfg config.Config) *moviedb.Client {
	return moviedb.NewClient(moviedb.Config{
		BaseURL:      cfg.LookupBaseURL,
		ImageBaseURL: cfg.LookupImageURL,
		APIKey:       cfg.APIKey,
		Timeout:      cfg.LookupTimeout,
		MaxRetries:   cfg.LookupMaxRetries,
	})
}

func seedCatalog(ctx context.Context, cfg config.Config, db *sqlx.DB, lookup *moviedb.Client, log logrus.FieldLogger) (service.SeedResult, error) {
	catalog := repository.NewCatalogRepo(db)
	seeder := &service.Seeder{Source: lookup, Store: catalog, Pages: cfg.SeedPages, Log: log}
	res, err := seeder.Run(ctx)
	if err != nil {
		return res, err
	}
	if n, err := catalog.Count(ctx); err == nil {
		metrics.SetCatalogSeeded(n)
	}
	return res, nil
}
