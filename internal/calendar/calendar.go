// Package calendar turns flat scheduled-workout rows into the day-bucketed
// view models rendered by the weekly calendar and the dashboard.
//
// Everything here is pure: no I/O, no clocks, no errors. Callers pass the
// reference time explicitly so results are deterministic.
package calendar

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/tbourn/trainflow-backend/internal/domain"
)

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// ScheduledVideo is one video placed on a WorkoutDay, annotated with the
// scheduled workout it came from.
type ScheduledVideo struct {
	ScheduledID      string     `json:"scheduled_id"`
	VideoID          string     `json:"video_id"`
	YouTubeID        string     `json:"youtube_id"`
	Title            string     `json:"title"`
	ChannelName      string     `json:"channel_name"`
	ChannelThumbnail string     `json:"channel_thumbnail"`
	ThumbnailURL     string     `json:"thumbnail_url"`
	Duration         int        `json:"duration"`
	Intensity        string     `json:"intensity"`
	MuscleGroups     []string   `json:"muscle_groups"`
	EquipmentNeeded  []string   `json:"equipment_needed"`
	IsCompleted      bool       `json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// WorkoutDay aggregates the videos scheduled on one calendar date.
// IsCompleted is true iff every video that day is completed.
type WorkoutDay struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	Videos      []ScheduledVideo `json:"videos"`
	IsCompleted bool             `json:"is_completed"`
}

// NormalizeDate strips the time of day, keeping the calendar date as
// expressed in t's own location, and returns midnight UTC of that date.
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey returns the YYYY-MM-DD grouping key for a stored date. Stored
// dates are UTC midnight; drivers may scan them into time.Local, so the key
// is read in UTC.
func DateKey(t time.Time) string {
	return NormalizeDate(t.UTC()).Format(DateLayout)
}

// DayID is the surrogate identifier of the WorkoutDay for date.
func DayID(date string) string { return "day-" + date }

// ErrBadDate is returned by ParseDate for unparseable input.
var ErrBadDate = errors.New("date must be YYYY-MM-DD or RFC3339")

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns the
// normalized date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NormalizeDate(t), nil
	}
	return time.Time{}, ErrBadDate
}

// ToWorkoutDays groups rows by calendar date.
//
// One WorkoutDay is emitted per distinct date present in rows, ordered by
// date ascending. Videos keep their input order within a day. Rows whose
// joined video is missing are skipped, and a date left with no videos is not
// emitted. The result never aliases the input rows.
func ToWorkoutDays(rows []domain.ScheduledWorkout) []WorkoutDay {
	days := make([]WorkoutDay, 0)
	pos := make(map[string]int)

	for i := range rows {
		row := &rows[i]
		if row.Video == nil {
			continue
		}
		key := DateKey(row.ScheduledDate)
		idx, ok := pos[key]
		if !ok {
			idx = len(days)
			pos[key] = idx
			days = append(days, WorkoutDay{
				ID:          DayID(key),
				Date:        key,
				Videos:      []ScheduledVideo{},
				IsCompleted: true,
			})
		}
		day := &days[idx]
		day.Videos = append(day.Videos, toScheduledVideo(row))
		day.IsCompleted = day.IsCompleted && row.IsCompleted
	}

	sort.SliceStable(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days
}

func toScheduledVideo(row *domain.ScheduledWorkout) ScheduledVideo {
	v := row.Video
	var completedAt *time.Time
	if row.CompletedAt != nil {
		ts := *row.CompletedAt
		completedAt = &ts
	}
	return ScheduledVideo{
		ScheduledID:      row.ID,
		VideoID:          v.ID,
		YouTubeID:        v.YouTubeID,
		Title:            v.Title,
		ChannelName:      v.ChannelName,
		ChannelThumbnail: v.ChannelThumbnail,
		ThumbnailURL:     v.ThumbnailURL,
		Duration:         v.Duration,
		Intensity:        v.Intensity,
		MuscleGroups:     cloneStrings(v.MuscleGroups),
		EquipmentNeeded:  cloneStrings(v.EquipmentNeeded),
		IsCompleted:      row.IsCompleted,
		CompletedAt:      completedAt,
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Week returns the Monday-start window [from, to) containing anchor.
func Week(anchor time.Time) (from, to time.Time) {
	d := NormalizeDate(anchor)
	offset := (int(d.Weekday()) + 6) % 7
	from = d.AddDate(0, 0, -offset)
	return from, from.AddDate(0, 0, 7)
}

// FillWeek lays days out on the 7 slots starting at from. Slots without
// scheduled videos are returned empty and not completed. Days outside the
// window are ignored.
func FillWeek(days []WorkoutDay, from time.Time) []WorkoutDay {
	byDate := make(map[string]WorkoutDay, len(days))
	for _, d := range days {
		byDate[d.Date] = d
	}
	start := NormalizeDate(from)
	out := make([]WorkoutDay, 7)
	for i := range out {
		key := start.AddDate(0, 0, i).Format(DateLayout)
		if d, ok := byDate[key]; ok {
			out[i] = d
			continue
		}
		out[i] = WorkoutDay{ID: DayID(key), Date: key, Videos: []ScheduledVideo{}}
	}
	return out
}

// Summary is the weekly activity shown on the dashboard.
type Summary struct {
	Scheduled     int    `json:"scheduled"`
	Completed     int    `json:"completed"`
	ActiveMinutes int    `json:"active_minutes"`
	MostTrained   string `json:"most_trained,omitempty"`
}

// Summarize counts scheduled and completed videos across days. Active
// minutes sum the durations of completed videos; MostTrained is the muscle
// group appearing most often among completed videos (ties broken by name).
func Summarize(days []WorkoutDay) Summary {
	var s Summary
	seconds := 0
	groups := make(map[string]int)
	for _, d := range days {
		for _, v := range d.Videos {
			s.Scheduled++
			if !v.IsCompleted {
				continue
			}
			s.Completed++
			seconds += v.Duration
			for _, g := range v.MuscleGroups {
				groups[g]++
			}
		}
	}
	s.ActiveMinutes = seconds / 60

	best := 0
	for g, n := range groups {
		if n > best || (n == best && g < s.MostTrained) {
			best, s.MostTrained = n, g
		}
	}
	return s
}
