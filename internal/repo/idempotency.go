package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// GetIdempotency returns the live record for (userID, scope, key) at now, or
// ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, scope, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(scope) == "" || strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND scope = ? AND key = ? AND expires_at > ?", userID, scope, key, now.UTC()).
		Take(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	case err != nil:
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency stores rec, assigning an ID when empty. A key already
// stored for the same user and scope yields ErrDuplicate.
func CreateIdempotency(ctx context.Context, db *gorm.DB, rec *domain.Idempotency) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	return dup(db.WithContext(ctx).Create(rec).Error)
}

// PurgeIdempotency deletes records that expired at or before now and returns
// how many were removed.
func PurgeIdempotency(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&domain.Idempotency{})
	return res.RowsAffected, res.Error
}
