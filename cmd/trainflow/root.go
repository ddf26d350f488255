package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/config"
	"github.com/tbourn/trainflow-backend/internal/observability"
	"github.com/tbourn/trainflow-backend/internal/repo"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	envFile string

	cfg    config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "trainflow",
	Short: "TrainFlow workout planning backend",
	Long: `TrainFlow serves the workout-planning API: a catalog of workout videos,
a per-user schedule with completion tracking, training preferences and a
coach chat.

QUICK START:

  $ trainflow migrate     # Create or update the schema
  $ trainflow seed        # Load the demo account and starter catalog
  $ trainflow serve       # Start the HTTP API

CONFIGURATION:

  Settings come from the environment. A .env file in the working directory
  is loaded first without overriding variables that are already set; point
  --env-file elsewhere to use another file. CONFIG_FILE may name an
  additional env-format file read beneath both.

  JWT_SECRET is required (at least 16 bytes).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		if err := loadEnvFile(envFile, cmd.Flags().Changed("env-file")); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		logger = observability.SetupLogging(cfg, cmd.ErrOrStderr(), serviceInfo())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "trainflow", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "env file loaded before reading configuration")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadEnvFile loads path into the environment. A missing file is only an
// error when the path was given explicitly.
func loadEnvFile(path string, explicit bool) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

func serviceInfo() observability.ServiceInfo {
	return observability.ServiceInfo{
		Name:        cfg.OTEL.ServiceName,
		Version:     version,
		Environment: cfg.GinMode,
	}
}

// openDB connects to the configured database and brings the schema up to
// date. The returned func closes the pool.
func openDB() (*gorm.DB, func(), error) {
	db, err := repo.Open(cfg.DBDriver, cfg.DBDSN, repo.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		SlowQuery:    cfg.DBSlowQuery,
		Logger:       &logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("enable query tracing: %w", err)
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}
	return db, closeDB, nil
}
