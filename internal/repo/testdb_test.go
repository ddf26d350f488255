package repo

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// newTestDB opens a private in-memory database. A single connection keeps
// PRAGMA foreign_keys in force for every statement.
func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	db.Exec("PRAGMA foreign_keys=ON;")

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedVideo(t *testing.T, db *gorm.DB, id, youtubeID, title string) *domain.WorkoutVideo {
	t.Helper()
	now := time.Now().UTC()
	v := &domain.WorkoutVideo{
		ID:              id,
		YouTubeID:       youtubeID,
		Title:           title,
		ChannelName:     "Channel",
		Duration:        1800,
		Intensity:       domain.IntensityMedium,
		MuscleGroups:    []string{"core"},
		EquipmentNeeded: []string{},
		Exercises:       []domain.Exercise{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed video %s: %v", id, err)
	}
	return v
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
