package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// ScheduleRange narrows a scheduled-workout listing. Zero bounds are open.
// From is inclusive and To exclusive; Limit <= 0 means no limit.
type ScheduleRange struct {
	From  time.Time
	To    time.Time
	Limit int
}

// FindScheduled looks a workout up by its unique key.
func FindScheduled(ctx context.Context, db *gorm.DB, userID, videoID string, date time.Time) (*domain.ScheduledWorkout, error) {
	var w domain.ScheduledWorkout
	err := db.WithContext(ctx).
		Where("user_id = ? AND video_id = ? AND scheduled_date = ?", userID, videoID, date).
		First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// CreateScheduled inserts w, assigning an ID when empty. Returns ErrDuplicate
// when (user_id, video_id, scheduled_date) already exists.
func CreateScheduled(ctx context.Context, db *gorm.DB, w *domain.ScheduledWorkout) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	w.CreatedAt, w.UpdatedAt = now, now
	return dup(db.WithContext(ctx).Omit(clause.Associations).Create(w).Error)
}

// GetScheduled fetches a workout by id scoped to its owner. With forUpdate
// on PostgreSQL the row is locked until the surrounding transaction ends;
// SQLite already serializes writers.
func GetScheduled(ctx context.Context, db *gorm.DB, id, userID string, forUpdate bool) (*domain.ScheduledWorkout, error) {
	q := db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID)
	if forUpdate && IsPostgres(db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var w domain.ScheduledWorkout
	if err := q.First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// SetCompletion moves a workout from completion state from to state to,
// stamping completedAt. The update only applies while the row still holds
// from, so the returned count is 0 when another writer got there first.
func SetCompletion(ctx context.Context, db *gorm.DB, id, userID string, from, to bool, completedAt *time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.ScheduledWorkout{}).
		Where("id = ? AND user_id = ? AND is_completed = ?", id, userID, from).
		Updates(map[string]any{
			"is_completed": to,
			"completed_at": completedAt,
			"updated_at":   time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// DeleteScheduled removes a workout owned by userID. Returns ErrNotFound when
// nothing matched.
func DeleteScheduled(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.ScheduledWorkout{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListScheduled returns a user's workouts with their videos preloaded,
// ordered by date and then by scheduling order.
func ListScheduled(ctx context.Context, db *gorm.DB, userID string, r ScheduleRange) ([]domain.ScheduledWorkout, error) {
	q := db.WithContext(ctx).
		Preload("Video").
		Where("user_id = ?", userID)
	if !r.From.IsZero() {
		q = q.Where("scheduled_date >= ?", r.From)
	}
	if !r.To.IsZero() {
		q = q.Where("scheduled_date < ?", r.To)
	}
	q = q.Order("scheduled_date ASC, created_at ASC, id ASC")
	if r.Limit > 0 {
		q = q.Limit(r.Limit)
	}
	var out []domain.ScheduledWorkout
	err := q.Find(&out).Error
	return out, err
}

// CountCompleted returns how many of userID's workouts are completed.
func CountCompleted(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.ScheduledWorkout{}).
		Where("user_id = ? AND is_completed = ?", userID, true).
		Count(&n).Error
	return n, err
}
