// Package repo is the GORM persistence layer: connection setup, migrations,
// and one file of query helpers per table. Helpers are free functions taking
// the *gorm.DB to run on, so services can pass a transaction instead.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options tunes a connection. Zero values pick per-driver defaults.
type Options struct {
	MaxOpenConns int           // sqlite 10, postgres 25
	SlowQuery    time.Duration // queries slower than this log at warn; 200ms
	Logger       *zerolog.Logger
}

func (o Options) withDefaults(driver string) Options {
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 10
		if driver == DriverPostgres {
			o.MaxOpenConns = 25
		}
	}
	if o.SlowQuery <= 0 {
		o.SlowQuery = 200 * time.Millisecond
	}
	if o.Logger == nil {
		o.Logger = &log.Logger
	}
	return o
}

// gormConfig routes GORM's own logging (slow queries, errors other than "not
// found") through zerolog.
func (o Options) gormConfig() *gorm.Config {
	l := o.Logger.With().Str("component", "gorm").Logger()
	return &gorm.Config{
		TranslateError: true,
		Logger: logger.New(&l, logger.Config{
			SlowThreshold:             o.SlowQuery,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	}
}

// Open connects to driver ("sqlite" or "postgres"). For sqlite the DSN is a
// file path whose directory must exist.
func Open(driver, dsn string, opts Options) (*gorm.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = DriverSQLite
	}
	opts = opts.withDefaults(driver)

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = openSQLite(dsn, opts.gormConfig())
	case DriverPostgres:
		db, err = gorm.Open(postgres.Open(dsn), opts.gormConfig())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
		sqlDB.SetMaxIdleConns(opts.MaxOpenConns)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// sqlitePragmas are passed in the DSN so every pooled connection gets them;
// foreign_keys in particular is per connection.
var sqlitePragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
}

// sqliteDSN appends the pragmas to path, keeping any query it already has.
func sqliteDSN(path string) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}

func openSQLite(path string, cfg *gorm.Config) (*gorm.DB, error) {
	// Without this check a missing directory surfaces as "out of memory (14)".
	file, _, _ := strings.Cut(strings.TrimPrefix(path, "file:"), "?")
	if dir := filepath.Dir(file); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}
	return gorm.Open(sqlite.Open(sqliteDSN(path)), cfg)
}

// EnableTracing adds a child span per query to the request trace.
func EnableTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}

// AutoMigrate creates or updates every table. Videos come before scheduled
// workouts so the RESTRICT foreign key can be created.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Preferences{},
		&domain.WorkoutVideo{},
		&domain.ScheduledWorkout{},
		&domain.ChatMessage{},
		&domain.Idempotency{},
	)
}

// IsPostgres reports whether db talks to PostgreSQL.
func IsPostgres(db *gorm.DB) bool {
	return db != nil && db.Dialector != nil && db.Dialector.Name() == DriverPostgres
}
