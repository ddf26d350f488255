package repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

func TestVersion_Format(t *testing.T) {
	assert.Equal(t, "0:0", Version{}.String())

	at := time.Unix(0, 1741770000000000000)
	v := Version{Count: 4, Latest: at}
	assert.Equal(t, "4:1741770000000000000", v.String())
	assert.Equal(t, `W/"workouts:u1:2025-03-10::4:1741770000000000000"`, v.ETag("workouts", "u1", "2025-03-10", ""))
	assert.Equal(t, `W/"catalog:0:0"`, Version{}.ETag("catalog"))
}

func TestWorkoutsVersion(t *testing.T) {
	ctx := t.Context()
	_, err := WorkoutsVersion(ctx, newTestDB(t), "u1")
	assert.Error(t, err, "missing table")

	db := newTestDB(t, &domain.WorkoutVideo{}, &domain.ScheduledWorkout{})
	v, err := WorkoutsVersion(ctx, db, "u1")
	require.NoError(t, err)
	assert.Equal(t, Version{}, v)

	seedVideo(t, db, "v1", "yt1", "A")
	t1 := time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 3, 4, 10, 30, 0, 0, time.UTC)
	t3 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	for _, w := range []domain.ScheduledWorkout{
		{ID: "w1", UserID: "u1", VideoID: "v1", ScheduledDate: day(2025, 1, 1), CreatedAt: t1, UpdatedAt: t1},
		{ID: "w2", UserID: "u1", VideoID: "v1", ScheduledDate: day(2025, 1, 2), CreatedAt: t2, UpdatedAt: t2},
		{ID: "w3", UserID: "u2", VideoID: "v1", ScheduledDate: day(2025, 1, 2), CreatedAt: t3, UpdatedAt: t3},
	} {
		require.NoError(t, db.Omit("Video").Create(&w).Error)
	}

	v, err = WorkoutsVersion(ctx, db, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, v.Count)
	assert.True(t, v.Latest.Equal(t2), "other users' rows do not count")
}

func TestChatVersion(t *testing.T) {
	db := newTestDB(t, &domain.ChatMessage{})
	ctx := t.Context()
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{base, base.Add(time.Minute)} {
		_, err := CreateChatMessage(ctx, db, "u1", domain.RoleUser, "hi", at)
		require.NoError(t, err)
	}
	_, err := CreateChatMessage(ctx, db, "u2", domain.RoleUser, "x", base.Add(time.Hour))
	require.NoError(t, err)

	v, err := ChatVersion(ctx, db, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, v.Count)
	assert.True(t, v.Latest.Equal(base.Add(time.Minute)))

	v, err = ChatVersion(ctx, db, "nobody")
	require.NoError(t, err)
	assert.Equal(t, Version{}, v)
}

func TestCatalogVersion(t *testing.T) {
	db := newTestDB(t, &domain.WorkoutVideo{})
	v, err := CatalogVersion(t.Context(), db)
	require.NoError(t, err)
	assert.Equal(t, Version{}, v)

	seedVideo(t, db, "v1", "yt1", "A")
	seedVideo(t, db, "v2", "yt2", "B")
	v, err = CatalogVersion(t.Context(), db)
	require.NoError(t, err)
	assert.EqualValues(t, 2, v.Count)
	assert.False(t, v.Latest.IsZero())
}
