package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// ListVideos returns the catalog ordered by title, optionally narrowed to
// titles containing titleQuery (case-insensitive).
func ListVideos(ctx context.Context, db *gorm.DB, titleQuery string) ([]domain.WorkoutVideo, error) {
	var out []domain.WorkoutVideo
	q := db.WithContext(ctx).Order("title ASC, id ASC")
	if s := strings.TrimSpace(titleQuery); s != "" {
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(s))+"%")
	}
	err := q.Find(&out).Error
	return out, err
}

// GetVideo fetches a catalog entry by ID.
func GetVideo(ctx context.Context, db *gorm.DB, id string) (*domain.WorkoutVideo, error) {
	var v domain.WorkoutVideo
	if err := db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// UpsertVideo inserts v or refreshes the catalog fields of the row with the
// same YouTube ID, then returns the stored row.
func UpsertVideo(ctx context.Context, db *gorm.DB, v domain.WorkoutVideo) (*domain.WorkoutVideo, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	v.CreatedAt, v.UpdatedAt = now, now

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "youtube_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "channel_name", "channel_thumbnail", "thumbnail_url",
				"duration", "intensity", "muscle_groups", "equipment_needed",
				"exercises", "updated_at",
			}),
		}).
		Create(&v).Error
	if err != nil {
		return nil, err
	}

	var out domain.WorkoutVideo
	if err := db.WithContext(ctx).Where("youtube_id = ?", v.YouTubeID).First(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike neutralizes LIKE wildcards in user input.
func escapeLike(s string) string { return likeEscaper.Replace(s) }
