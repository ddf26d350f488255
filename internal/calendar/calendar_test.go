package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

func video(id string, dur int, groups ...string) *domain.WorkoutVideo {
	return &domain.WorkoutVideo{
		ID:           id,
		YouTubeID:    "yt-" + id,
		Title:        "Video " + id,
		ChannelName:  "Channel",
		Duration:     dur,
		Intensity:    domain.IntensityMedium,
		MuscleGroups: groups,
	}
}

func row(id string, date time.Time, v *domain.WorkoutVideo, done bool) domain.ScheduledWorkout {
	w := domain.ScheduledWorkout{ID: id, UserID: "u1", ScheduledDate: date, IsCompleted: done, Video: v}
	if v != nil {
		w.VideoID = v.ID
	}
	if done {
		at := date.Add(8 * time.Hour)
		w.CompletedAt = &at
	}
	return w
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestToWorkoutDays_SingleScheduled(t *testing.T) {
	v1 := video("v1", 1800)
	days := ToWorkoutDays([]domain.ScheduledWorkout{row("w1", day(2024, 6, 10, 0), v1, false)})

	require.Len(t, days, 1)
	assert.Equal(t, "2024-06-10", days[0].Date)
	assert.Equal(t, "day-2024-06-10", days[0].ID)
	require.Len(t, days[0].Videos, 1)
	assert.Equal(t, "w1", days[0].Videos[0].ScheduledID)
	assert.Equal(t, "v1", days[0].Videos[0].VideoID)
	assert.False(t, days[0].IsCompleted)
}

func TestToWorkoutDays_GroupsByDateIgnoringTimeOfDay(t *testing.T) {
	v1, v2 := video("v1", 600), video("v2", 900)
	rows := []domain.ScheduledWorkout{
		row("w1", day(2024, 6, 10, 6), v1, false),
		row("w2", day(2024, 6, 10, 21), v2, false),
	}
	days := ToWorkoutDays(rows)

	require.Len(t, days, 1)
	require.Len(t, days[0].Videos, 2)
	assert.Equal(t, "w1", days[0].Videos[0].ScheduledID)
	assert.Equal(t, "w2", days[0].Videos[1].ScheduledID)
}

func TestToWorkoutDays_OrderedByDateStableWithinDay(t *testing.T) {
	a, b, c := video("a", 60), video("b", 60), video("c", 60)
	rows := []domain.ScheduledWorkout{
		row("w3", day(2024, 6, 12, 0), c, false),
		row("w1", day(2024, 6, 10, 0), a, false),
		row("w2", day(2024, 6, 12, 0), b, false),
		row("w0", day(2024, 6, 10, 0), b, false),
	}
	days := ToWorkoutDays(rows)

	require.Len(t, days, 2)
	assert.Equal(t, "2024-06-10", days[0].Date)
	assert.Equal(t, "2024-06-12", days[1].Date)
	assert.Equal(t, []string{"w1", "w0"}, scheduledIDs(days[0]))
	assert.Equal(t, []string{"w3", "w2"}, scheduledIDs(days[1]))
}

func TestToWorkoutDays_GroupingIndependentOfCrossDayOrder(t *testing.T) {
	a, b := video("a", 60), video("b", 60)
	r1 := row("w1", day(2024, 6, 10, 0), a, false)
	r2 := row("w2", day(2024, 6, 11, 0), b, true)
	r3 := row("w3", day(2024, 6, 10, 0), b, true)

	first := ToWorkoutDays([]domain.ScheduledWorkout{r1, r2, r3})
	second := ToWorkoutDays([]domain.ScheduledWorkout{r2, r1, r3})
	assert.Equal(t, first, second)
}

func TestToWorkoutDays_CompletionIsAndOverVideos(t *testing.T) {
	a, b := video("a", 60), video("b", 60)
	d := day(2024, 6, 10, 0)

	partial := ToWorkoutDays([]domain.ScheduledWorkout{row("w1", d, a, true), row("w2", d, b, false)})
	require.Len(t, partial, 1)
	assert.False(t, partial[0].IsCompleted)

	full := ToWorkoutDays([]domain.ScheduledWorkout{row("w1", d, a, true), row("w2", d, b, true)})
	require.Len(t, full, 1)
	assert.True(t, full[0].IsCompleted)
	assert.NotNil(t, full[0].Videos[0].CompletedAt)
}

func TestToWorkoutDays_SkipsMissingVideoAndEmptyDays(t *testing.T) {
	a := video("a", 60)
	rows := []domain.ScheduledWorkout{
		row("w1", day(2024, 6, 10, 0), nil, false),
		row("w2", day(2024, 6, 11, 0), a, true),
		row("w3", day(2024, 6, 11, 0), nil, false),
	}
	days := ToWorkoutDays(rows)

	require.Len(t, days, 1)
	assert.Equal(t, "2024-06-11", days[0].Date)
	assert.Equal(t, []string{"w2"}, scheduledIDs(days[0]))
	// The orphaned incomplete row does not drag the day's completion down.
	assert.True(t, days[0].IsCompleted)
}

func TestToWorkoutDays_EmptyInput(t *testing.T) {
	assert.Empty(t, ToWorkoutDays(nil))
	assert.Empty(t, ToWorkoutDays([]domain.ScheduledWorkout{}))
}

func TestToWorkoutDays_DeterministicAndDoesNotAlias(t *testing.T) {
	a := video("a", 60, "abs")
	rows := []domain.ScheduledWorkout{row("w1", day(2024, 6, 10, 0), a, true)}

	first := ToWorkoutDays(rows)
	second := ToWorkoutDays(rows)
	assert.Equal(t, first, second)

	first[0].Videos[0].MuscleGroups[0] = "mutated"
	*first[0].Videos[0].CompletedAt = time.Time{}
	assert.Equal(t, "abs", a.MuscleGroups[0])
	assert.False(t, rows[0].CompletedAt.IsZero())
}

// Drivers may hand stored UTC midnights back in another zone.
func TestToWorkoutDays_KeysStoredDatesInUTC(t *testing.T) {
	v1, v2 := video("v1", 600), video("v2", 900)
	stored := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	west := time.FixedZone("west", -5*3600)
	east := time.FixedZone("east", 10*3600)

	days := ToWorkoutDays([]domain.ScheduledWorkout{
		row("w1", stored.In(west), v1, false),
		row("w2", stored.In(east), v2, true),
	})
	require.Len(t, days, 1)
	assert.Equal(t, "2024-06-10", days[0].Date)
	assert.Equal(t, []string{"w1", "w2"}, scheduledIDs(days[0]))

	from, _ := Week(stored)
	week := FillWeek(days, from)
	assert.Len(t, week[0].Videos, 2, "Monday 2024-06-10 keeps its videos")
}

func TestNormalizeDateAndParseDate(t *testing.T) {
	got := NormalizeDate(time.Date(2024, 6, 10, 23, 59, 1, 5, time.UTC))
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), got)

	// Parsed input keeps the caller's calendar date; stored keys are UTC.
	east := time.FixedZone("east", 9*3600)
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, time.UTC), NormalizeDate(time.Date(2024, 6, 11, 1, 0, 0, 0, east)))
	assert.Equal(t, "2024-06-10", DateKey(time.Date(2024, 6, 11, 1, 0, 0, 0, east)))

	p, err := ParseDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), p)

	p, err = ParseDate("2024-06-10T18:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), p)

	for _, bad := range []string{"", "10/06/2024", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.ErrorIs(t, err, ErrBadDate, bad)
	}
}

func TestWeek_MondayStart(t *testing.T) {
	// 2024-06-13 is a Thursday.
	from, to := Week(day(2024, 6, 13, 15))
	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC), to)

	// Sunday belongs to the week that started six days earlier.
	from, _ = Week(day(2024, 6, 16, 0))
	assert.Equal(t, "2024-06-10", from.Format(DateLayout))

	// Monday starts its own week.
	from, _ = Week(day(2024, 6, 17, 0))
	assert.Equal(t, "2024-06-17", from.Format(DateLayout))
}

func TestFillWeek(t *testing.T) {
	a := video("a", 60)
	days := ToWorkoutDays([]domain.ScheduledWorkout{
		row("w1", day(2024, 6, 12, 0), a, true),
		row("w2", day(2024, 6, 20, 0), a, false), // next week
	})
	from, _ := Week(day(2024, 6, 12, 0))
	week := FillWeek(days, from)

	require.Len(t, week, 7)
	assert.Equal(t, "2024-06-10", week[0].Date)
	assert.Equal(t, "2024-06-16", week[6].Date)
	assert.Equal(t, days[0], week[2])
	for i, d := range week {
		if i == 2 {
			continue
		}
		assert.Empty(t, d.Videos)
		assert.False(t, d.IsCompleted)
	}
}

func TestSummarize(t *testing.T) {
	hiit := video("hiit", 1800, "full-body", "cardio")
	abs := video("abs", 900, "abs")
	arms := video("arms", 1200, "biceps")
	days := ToWorkoutDays([]domain.ScheduledWorkout{
		row("w1", day(2024, 6, 10, 0), hiit, true),
		row("w2", day(2024, 6, 10, 0), abs, true),
		row("w3", day(2024, 6, 12, 0), arms, false),
		row("w4", day(2024, 6, 13, 0), abs, true),
	})

	s := Summarize(days)
	assert.Equal(t, 4, s.Scheduled)
	assert.Equal(t, 3, s.Completed)
	assert.Equal(t, (1800+900+900)/60, s.ActiveMinutes)
	assert.Equal(t, "abs", s.MostTrained)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func scheduledIDs(d WorkoutDay) []string {
	out := make([]string, 0, len(d.Videos))
	for _, v := range d.Videos {
		out = append(out, v.ScheduledID)
	}
	return out
}
