package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/iliyamo/movielist/internal/config"
	"github.com/iliyamo/movielist/internal/database"
	"github.com/iliyamo/movielist/internal/handler"
	"github.com/iliyamo/movielist/internal/middleware"
	"github.com/iliyamo/movielist/internal/repository"
	"github.com/iliyamo/movielist/internal/router"
	"github.com/iliyamo/movielist/internal/service"
	"github.com/iliyamo/movielist/internal/utils"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var migrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Seed the catalog if empty and serve HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log := ctx.load()
			if err := cfg.Validate("API_KEY", "SESSION_SECRET", "DB_URI", "APP_PORT"); err != nil {
				return err
			}
			if migrate {
				if err := database.Migrate(cfg.DBURI); err != nil {
					return err
				}
			}

			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			lookup := newLookup(cfg)
			// A failed seed leaves the catalog empty; the next start tries again.
			if res, err := seedCatalog(cmd.Context(), cfg, db, lookup, log); err != nil {
				log.WithError(err).Warn("catalog seeding failed; serving with an empty catalog")
			} else {
				log.WithField("state", res.State).WithField("inserted", res.Inserted).Info("catalog ready")
			}

			signer, err := utils.NewFlashSigner(cfg.SessionSecret, time.Minute)
			if err != nil {
				return err
			}
			rdb := config.NewRedisClient()
			if rdb == nil {
				log.Warn("redis unavailable; response cache and rate limiter disabled")
			} else {
				defer rdb.Close()
			}

			events := service.NewAMQPPublisher(cfg.AMQPURL)
			h := handler.NewMovieHandler(
				repository.NewCatalogRepo(db),
				repository.NewPersonalRepo(db),
				lookup,
				signer,
				events,
				log,
			)

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
			e.Use(echomw.Recover())
			e.Use(middleware.RequestLogger(log))
			e.Use(middleware.Metrics())
			e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
			e.Use(middleware.Flash(signer))

			router.RegisterRoutes(e)
			router.RegisterMovies(e, h, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			addr := ":" + cfg.Port
			errCh := make(chan error, 1)
			go func() {
				log.WithField("addr", addr).WithField("env", cfg.Env).Info("listening")
				errCh <- e.Start(addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-runCtx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&migrate, "migrate", true, "Apply pending migrations before serving")
	return cmd
}

func openStore(cfg config.Config) (*sqlx.DB, error) {
	db, err := database.Open(cfg.DBURI)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return db, nil
}
