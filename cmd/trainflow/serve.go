package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/auth"
	httpapi "github.com/tbourn/trainflow-backend/internal/http"
	"github.com/tbourn/trainflow-backend/internal/observability"
	"github.com/tbourn/trainflow-backend/internal/repo"
	"github.com/tbourn/trainflow-backend/internal/seed"
	"github.com/tbourn/trainflow-backend/internal/sysutil"
)

const shutdownTimeout = 10 * time.Second

var seedOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API on PORT.

The schema is migrated on start. With --seed (or SEED_ON_START=true) the demo
data is loaded too. Expired idempotency keys are purged every
IDEMPOTENCY_PURGE_INTERVAL. When REDIS_ADDR is set, rate limits are shared through
Redis. SIGINT or SIGTERM drains in-flight requests before exiting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := observability.SetupTracing(ctx, cfg.OTEL, serviceInfo())
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownTracing(sctx); err != nil {
				logger.Warn().Err(err).Msg("tracer shutdown")
			}
		}()

		db, closeDB, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB()

		hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
		if seedOnStart || sysutil.IsTruthy(os.Getenv("SEED_ON_START")) {
			if _, err := seed.Run(ctx, db, hasher, time.Now()); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}

		if cfg.IdempotencyPurge > 0 {
			go purgeIdempotency(ctx, db, cfg.IdempotencyPurge)
		}

		deps := httpapi.Deps{
			DB:     db,
			Tokens: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
			Hasher: hasher,
		}
		if cfg.RedisAddr != "" {
			rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
			defer rdb.Close()
			// The limiter fails open, so an unreachable Redis is not fatal.
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable")
			}
			deps.Redis = rdb
		}

		gin.SetMode(cfg.GinMode)
		r := gin.New()
		httpapi.RegisterRoutes(r, deps, cfg)

		srv := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadTimeout:       cfg.ReadTimeout,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    cfg.MaxHeaderBytes,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.ListenAndServe()
		}()
		logger.Info().
			Str("addr", srv.Addr).
			Str("db", cfg.DBDriver).
			Str("base_path", cfg.APIBasePath).
			Bool("redis", deps.Redis != nil).
			Msg("listening")
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ TrainFlow API on http://localhost%s%s", srv.Addr, cfg.APIBasePath))

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		logger.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

// purgeIdempotency deletes expired idempotency records every interval until
// ctx is done.
func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeIdempotency(ctx, db, now)
			if err != nil {
				logger.Warn().Err(err).Msg("idempotency purge failed")
				continue
			}
			if n > 0 {
				logger.Debug().Int64("deleted", n).Msg("idempotency purge")
			}
		}
	}
}

func init() {
	serveCmd.Flags().BoolVar(&seedOnStart, "seed", false, "load demo data before serving")
	rootCmd.AddCommand(serveCmd)
}
