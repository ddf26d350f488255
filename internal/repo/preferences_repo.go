package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// GetPreferences returns the preferences row for userID or ErrNotFound.
func GetPreferences(ctx context.Context, db *gorm.DB, userID string) (*domain.Preferences, error) {
	var p domain.Preferences
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// EnsurePreferences inserts p unless a row for p.UserID already exists
// (ON CONFLICT DO NOTHING) and returns the stored row. Concurrent callers
// all observe the same row.
func EnsurePreferences(ctx context.Context, db *gorm.DB, p domain.Preferences) (*domain.Preferences, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}
	return GetPreferences(ctx, db, p.UserID)
}

// UpsertPreferences inserts or overwrites the row keyed by p.UserID and
// returns the stored row.
func UpsertPreferences(ctx context.Context, db *gorm.DB, p domain.Preferences) (*domain.Preferences, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"goal",
				"preferred_duration",
				"preferred_intensity",
				"available_equipment",
				"preferred_days",
				"updated_at",
			}),
		}).
		Create(&p).Error
	if err != nil {
		return nil, err
	}
	return GetPreferences(ctx, db, p.UserID)
}
