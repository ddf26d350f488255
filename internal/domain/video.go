package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Intensity tiers shared by videos and preferences.
const (
	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"
)

// GoalGeneralFitness is the goal assigned to new users.
const GoalGeneralFitness = "general-fitness"

// Goals lists the accepted preference goals.
var Goals = []string{
	"weight-loss",
	"muscle-gain",
	"endurance",
	"flexibility",
	"toning",
	GoalGeneralFitness,
}

// Weekdays lists the accepted preferred-day values, Monday first.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// ValidIntensity reports whether s is one of low, medium, high.
func ValidIntensity(s string) bool {
	switch s {
	case IntensityLow, IntensityMedium, IntensityHigh:
		return true
	}
	return false
}

// ValidGoal reports whether s is a known goal id.
func ValidGoal(s string) bool { return contains(Goals, s) }

// ValidWeekday reports whether s is a lower-case weekday name.
func ValidWeekday(s string) bool { return contains(Weekdays, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Exercise is one segment of a video timeline, in seconds from the start.
type Exercise struct {
	Name        string `json:"name"`
	StartTime   int    `json:"start_time"`
	EndTime     int    `json:"end_time"`
	MuscleGroup string `json:"muscle_group"`
	Difficulty  string `json:"difficulty"` // beginner|intermediate|advanced
}

// WorkoutVideo is shared, read-only catalog data referenced by scheduled
// workouts. Duration is in seconds.
type WorkoutVideo struct {
	ID               string                        `json:"id"                gorm:"type:char(36);primaryKey"`
	YouTubeID        string                        `json:"youtube_id"        gorm:"column:youtube_id;type:varchar(32);not null;uniqueIndex:ux_videos_youtube"`
	Title            string                        `json:"title"             gorm:"type:varchar(255);not null"`
	ChannelName      string                        `json:"channel_name"      gorm:"type:varchar(255);not null"`
	ChannelThumbnail string                        `json:"channel_thumbnail" gorm:"type:varchar(1024)"`
	ThumbnailURL     string                        `json:"thumbnail_url"     gorm:"type:varchar(1024)"`
	Duration         int                           `json:"duration"          gorm:"not null;check:duration > 0"`
	Intensity        string                        `json:"intensity"         gorm:"type:varchar(16);not null;check:intensity IN ('low','medium','high')"`
	MuscleGroups     datatypes.JSONSlice[string]   `json:"muscle_groups"`
	EquipmentNeeded  datatypes.JSONSlice[string]   `json:"equipment_needed"`
	Exercises        datatypes.JSONSlice[Exercise] `json:"exercises"`
	CreatedAt        time.Time                     `json:"created_at"`
	UpdatedAt        time.Time                     `json:"updated_at"`
}

// TableName returns the database table name for WorkoutVideo.
func (WorkoutVideo) TableName() string { return "workout_videos" }

// ErrInvalidVideo wraps every catalog validation failure.
var ErrInvalidVideo = errors.New("invalid workout video")

// Validate checks the catalog invariants: a positive duration, a known
// intensity, and exercises that satisfy 0 <= start < end <= duration.
// Exercises are sorted by start time in place before checking.
func (v *WorkoutVideo) Validate() error {
	if strings.TrimSpace(v.YouTubeID) == "" {
		return fmt.Errorf("%w: youtube id required", ErrInvalidVideo)
	}
	if strings.TrimSpace(v.Title) == "" {
		return fmt.Errorf("%w: title required", ErrInvalidVideo)
	}
	if v.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidVideo)
	}
	if !ValidIntensity(v.Intensity) {
		return fmt.Errorf("%w: unknown intensity %q", ErrInvalidVideo, v.Intensity)
	}
	v.SortExercises()
	for _, e := range v.Exercises {
		if e.StartTime < 0 || e.StartTime >= e.EndTime || e.EndTime > v.Duration {
			return fmt.Errorf("%w: exercise %q outside [0,%d]", ErrInvalidVideo, e.Name, v.Duration)
		}
	}
	return nil
}

// SortExercises orders the timeline by start time, keeping ties stable.
func (v *WorkoutVideo) SortExercises() {
	sort.SliceStable(v.Exercises, func(i, j int) bool {
		return v.Exercises[i].StartTime < v.Exercises[j].StartTime
	})
}
