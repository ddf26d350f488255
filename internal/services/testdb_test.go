package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"
)

// ---------- test helpers ----------

func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	// One connection serializes writers like the real SQLite setup.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

type videoOpt func(*domain.WorkoutVideo)

func seedVideo(t *testing.T, db *gorm.DB, title string, opts ...videoOpt) *domain.WorkoutVideo {
	t.Helper()
	v := domain.WorkoutVideo{
		YouTubeID:       "yt-" + strings.ReplaceAll(strings.ToLower(title), " ", "-"),
		Title:           title,
		ChannelName:     "Coach",
		ThumbnailURL:    "https://img/" + title,
		Duration:        1800,
		Intensity:       domain.IntensityMedium,
		MuscleGroups:    []string{"core"},
		EquipmentNeeded: []string{},
		Exercises:       []domain.Exercise{},
	}
	for _, o := range opts {
		o(&v)
	}
	out, err := repo.UpsertVideo(t.Context(), db, v)
	if err != nil {
		t.Fatalf("seed video %q: %v", title, err)
	}
	return out
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func asValidation(t *testing.T, err error, field string) {
	t.Helper()
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T %v", err, err)
	}
	if ve.Field != field {
		t.Fatalf("expected field %q, got %q (%v)", field, ve.Field, ve)
	}
}
