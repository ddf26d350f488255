package seed

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/trainflow-backend/internal/auth"
	"github.com/tbourn/trainflow-backend/internal/calendar"
	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

func TestRun_SeedsDemoData(t *testing.T) {
	db := newSeedDB(t)
	h := auth.NewPasswordHasher(4)
	now := time.Date(2025, 3, 12, 18, 30, 0, 0, time.UTC)

	res, err := Run(t.Context(), db, h, now)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Videos)
	assert.Equal(t, 3, res.Scheduled)
	assert.Equal(t, 2, res.Messages)

	u, err := repo.GetUserByEmail(t.Context(), db, DemoEmail)
	require.NoError(t, err)
	assert.Equal(t, DemoName, u.Name)
	require.NoError(t, h.Compare(u.PasswordHash, DemoPassword))

	p, err := repo.GetPreferences(t.Context(), db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "muscle-gain", p.Goal)
	assert.Equal(t, []string{"monday", "wednesday", "friday", "saturday"}, []string(p.PreferredDays))

	rows, err := repo.ListScheduled(t.Context(), db, u.ID, repo.ScheduleRange{})
	require.NoError(t, err)
	require.Len(t, rows, 3)

	days := calendar.ToWorkoutDays(rows)
	require.Len(t, days, 3)
	assert.Equal(t, "2025-03-10", days[0].Date)
	assert.True(t, days[0].IsCompleted)
	assert.Equal(t, "ml6cT4AZdqI", days[0].Videos[0].YouTubeID)
	assert.Equal(t, "2025-03-12", days[1].Date)
	assert.False(t, days[1].IsCompleted)
	assert.Equal(t, "2025-03-14", days[2].Date)

	msgs, err := repo.ListChatMessagesPage(t.Context(), db, u.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
}

func TestRun_Idempotent(t *testing.T) {
	db := newSeedDB(t)
	h := auth.NewPasswordHasher(4)
	now := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

	first, err := Run(t.Context(), db, h, now)
	require.NoError(t, err)

	// Mark today's workout done; a second run restores the seeded state.
	rows, err := repo.ListScheduled(t.Context(), db, first.UserID, repo.ScheduleRange{})
	require.NoError(t, err)
	for _, w := range rows {
		if !w.IsCompleted {
			at := now
			_, err := repo.SetCompletion(t.Context(), db, w.ID, first.UserID, false, true, &at)
			require.NoError(t, err)
			break
		}
	}

	second, err := Run(t.Context(), db, h, now)
	require.NoError(t, err)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Zero(t, second.Scheduled)
	assert.Zero(t, second.Messages)

	var users, videos, workouts, messages int64
	db.Model(&domain.User{}).Count(&users)
	db.Model(&domain.WorkoutVideo{}).Count(&videos)
	db.Model(&domain.ScheduledWorkout{}).Count(&workouts)
	db.Model(&domain.ChatMessage{}).Count(&messages)
	assert.Equal(t, []int64{1, 3, 3, 2}, []int64{users, videos, workouts, messages})

	done, err := repo.CountCompleted(t.Context(), db, first.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, done)
}

func TestRun_KeepsExistingPreferences(t *testing.T) {
	db := newSeedDB(t)
	h := auth.NewPasswordHasher(4)

	hash, err := h.Hash("whatever-pass")
	require.NoError(t, err)
	u := &domain.User{Name: "Existing", Email: DemoEmail, PasswordHash: hash}
	require.NoError(t, repo.CreateUser(t.Context(), db, u))
	_, err = repo.EnsurePreferences(t.Context(), db, domain.DefaultPreferences(u.ID))
	require.NoError(t, err)

	res, err := Run(t.Context(), db, h, time.Now())
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.UserID)

	p, err := repo.GetPreferences(t.Context(), db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GoalGeneralFitness, p.Goal)
}
