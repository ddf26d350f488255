package repo

import (
	"context"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// Version summarizes a row set for cache validation. Writes move Latest and
// deletes move Count, so an unchanged Version means an unchanged set.
type Version struct {
	Count  int64
	Latest time.Time // zero when Count is 0
}

// String renders the version as "count:unixnano".
func (v Version) String() string {
	var ts int64
	if !v.Latest.IsZero() {
		ts = v.Latest.UnixNano()
	}
	return strconv.FormatInt(v.Count, 10) + ":" + strconv.FormatInt(ts, 10)
}

// ETag builds a weak entity tag for a response derived from this version,
// e.g. W/"workouts:u1:2025-03-10:2025-03-16:4:1741770000000000000". parts
// carry whatever else shapes the response (user, range, page).
func (v Version) ETag(kind string, parts ...string) string {
	var b strings.Builder
	b.WriteString(`W/"`)
	b.WriteString(kind)
	for _, p := range parts {
		b.WriteByte(':')
		b.WriteString(p)
	}
	b.WriteByte(':')
	b.WriteString(v.String())
	b.WriteByte('"')
	return b.String()
}

// WorkoutsVersion covers a user's schedule. Toggling completion bumps
// updated_at, so it is reflected too.
func WorkoutsVersion(ctx context.Context, db *gorm.DB, userID string) (Version, error) {
	return version(db.WithContext(ctx).Model(&domain.ScheduledWorkout{}).Where("user_id = ?", userID), "updated_at")
}

// ChatVersion covers a user's chat log. Messages are never edited.
func ChatVersion(ctx context.Context, db *gorm.DB, userID string) (Version, error) {
	return version(db.WithContext(ctx).Model(&domain.ChatMessage{}).Where("user_id = ?", userID), "created_at")
}

// CatalogVersion covers the whole video catalog.
func CatalogVersion(ctx context.Context, db *gorm.DB) (Version, error) {
	return version(db.WithContext(ctx).Model(&domain.WorkoutVideo{}), "updated_at")
}

func version(q *gorm.DB, column string) (Version, error) {
	var v Version
	if err := q.Session(&gorm.Session{}).Count(&v.Count).Error; err != nil {
		return Version{}, err
	}
	if v.Count == 0 {
		return v, nil
	}
	// ORDER BY rather than MAX(): SQLite hands MAX() back as TEXT.
	var row struct{ TS time.Time }
	if err := q.Session(&gorm.Session{}).Select(column + " AS ts").Order(column + " DESC").Limit(1).Scan(&row).Error; err != nil {
		return Version{}, err
	}
	v.Latest = row.TS
	return v, nil
}
