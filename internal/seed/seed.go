// Package seed loads the demo account and a starter catalog so a fresh
// database has something to browse, schedule and complete.
//
// Every step is idempotent: the user and preferences are created once, videos
// are upserted by YouTube ID, schedules are matched on their unique key and
// the chat log is only written while empty.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/calendar"
	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"
)

// Demo account credentials.
const (
	DemoEmail    = "demo@trainflow.com"
	DemoPassword = "Demo123!"
	DemoName     = "Demo User"
	demoAvatar   = "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=400"
)

// Hasher hashes the demo password.
type Hasher interface {
	Hash(password string) (string, error)
}

// Result reports what a run touched.
type Result struct {
	UserID    string
	Videos    int
	Scheduled int
	Messages  int
}

// Videos is the starter catalog.
var Videos = []domain.WorkoutVideo{
	{
		YouTubeID:        "ml6cT4AZdqI",
		Title:            "30 Min Full Body HIIT Workout",
		ChannelName:      "MadFit",
		ChannelThumbnail: "https://yt3.googleusercontent.com/ytc/APkrFKZUSQCHhrlwCAXuEkzxOXD50HLoNs6Pm9TKMTGiAw=s176-c-k-c0x00ffffff-no-rj",
		ThumbnailURL:     "https://i.ytimg.com/vi/ml6cT4AZdqI/maxresdefault.jpg",
		Duration:         1800,
		Intensity:        domain.IntensityHigh,
		MuscleGroups:     datatypes.JSONSlice[string]{"full-body", "cardio"},
		EquipmentNeeded:  datatypes.JSONSlice[string]{"mat"},
		Exercises: datatypes.JSONSlice[domain.Exercise]{
			{Name: "Jumping Jacks", StartTime: 120, EndTime: 150, MuscleGroup: "cardio", Difficulty: "beginner"},
			{Name: "Squats", StartTime: 180, EndTime: 210, MuscleGroup: "quads", Difficulty: "beginner"},
		},
	},
	{
		YouTubeID:        "UyTR2EjTAXU",
		Title:            "20 Min Arm Workout with Dumbbells",
		ChannelName:      "Pamela Reif",
		ChannelThumbnail: "https://yt3.googleusercontent.com/ytc/APkrFKaXBBAlwy4iuLJVzgYHDtlTnUmV4XwO5u_P7qKZKA=s176-c-k-c0x00ffffff-no-rj",
		ThumbnailURL:     "https://i.ytimg.com/vi/UyTR2EjTAXU/maxresdefault.jpg",
		Duration:         1200,
		Intensity:        domain.IntensityMedium,
		MuscleGroups:     datatypes.JSONSlice[string]{"biceps", "triceps", "shoulders"},
		EquipmentNeeded:  datatypes.JSONSlice[string]{"dumbbells"},
		Exercises: datatypes.JSONSlice[domain.Exercise]{
			{Name: "Bicep Curls", StartTime: 90, EndTime: 120, MuscleGroup: "biceps", Difficulty: "beginner"},
		},
	},
	{
		YouTubeID:        "AnYl6Nk9GOA",
		Title:            "15 Min Abs Workout",
		ChannelName:      "Chloe Ting",
		ChannelThumbnail: "https://yt3.googleusercontent.com/ytc/APkrFKb3JO87LkWT5LPLJXzs_2mOcfINB7B42yNY5arSIQ=s176-c-k-c0x00ffffff-no-rj",
		ThumbnailURL:     "https://i.ytimg.com/vi/AnYl6Nk9GOA/maxresdefault.jpg",
		Duration:         900,
		Intensity:        domain.IntensityMedium,
		MuscleGroups:     datatypes.JSONSlice[string]{"abs"},
		EquipmentNeeded:  datatypes.JSONSlice[string]{"mat"},
		Exercises: datatypes.JSONSlice[domain.Exercise]{
			{Name: "Plank", StartTime: 150, EndTime: 180, MuscleGroup: "abs", Difficulty: "intermediate"},
		},
	},
}

type plan struct {
	youtubeID string
	offset    int // days from today
	completed bool
}

var schedule = []plan{
	{"ml6cT4AZdqI", -2, true},
	{"AnYl6Nk9GOA", 0, false},
	{"UyTR2EjTAXU", 2, false},
}

var conversation = []struct{ role, content string }{
	{domain.RoleUser, "Help me plan workouts around a busy week."},
	{domain.RoleAssistant, "I can schedule three 30-minute sessions focusing on full-body, abs, and arms with your available equipment."},
}

// Run seeds db. Schedule offsets are relative to now's calendar date.
func Run(ctx context.Context, db *gorm.DB, h Hasher, now time.Time) (*Result, error) {
	ctx, span := otel.Tracer("seed").Start(ctx, "Run")
	defer span.End()

	res := &Result{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := ensureUser(ctx, tx, h)
		if err != nil {
			return err
		}
		res.UserID = u.ID

		p := domain.DefaultPreferences(u.ID)
		p.Goal = "muscle-gain"
		p.PreferredDuration = 30
		p.PreferredIntensity = domain.IntensityMedium
		p.AvailableEquipment = datatypes.JSONSlice[string]{"mat", "dumbbells", "resistance-bands"}
		p.PreferredDays = datatypes.JSONSlice[string]{"monday", "wednesday", "friday", "saturday"}
		if _, err := repo.EnsurePreferences(ctx, tx, p); err != nil {
			return err
		}

		byYouTube := make(map[string]string, len(Videos))
		for _, v := range Videos {
			saved, err := repo.UpsertVideo(ctx, tx, v)
			if err != nil {
				return err
			}
			byYouTube[saved.YouTubeID] = saved.ID
			res.Videos++
		}

		today := calendar.NormalizeDate(now)
		for _, s := range schedule {
			n, err := ensureScheduled(ctx, tx, u.ID, byYouTube[s.youtubeID], today.AddDate(0, 0, s.offset), s.completed, now)
			if err != nil {
				return err
			}
			res.Scheduled += n
		}

		n, err := repo.CountChatMessages(ctx, tx, u.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			for i, m := range conversation {
				// Distinct timestamps keep the log order stable.
				at := now.UTC().Add(time.Duration(i) * time.Millisecond)
				if _, err := repo.CreateChatMessage(ctx, tx, u.ID, m.role, m.content, at); err != nil {
					return err
				}
				res.Messages++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", res.UserID).
		Int("videos", res.Videos).
		Int("scheduled", res.Scheduled).
		Int("messages", res.Messages).
		Msg("seed complete")
	return res, nil
}

func ensureUser(ctx context.Context, tx *gorm.DB, h Hasher) (*domain.User, error) {
	u, err := repo.GetUserByEmail(ctx, tx, DemoEmail)
	if err == nil {
		return u, nil
	}
	if !repo.IsNotFound(err) {
		return nil, err
	}
	hash, err := h.Hash(DemoPassword)
	if err != nil {
		return nil, err
	}
	u = &domain.User{Name: DemoName, Email: DemoEmail, AvatarURL: demoAvatar, PasswordHash: hash}
	if err := repo.CreateUser(ctx, tx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// ensureScheduled creates the workout if missing and otherwise resets its
// completion state. It returns 1 when a row was created.
func ensureScheduled(ctx context.Context, tx *gorm.DB, userID, videoID string, date time.Time, completed bool, now time.Time) (int, error) {
	if videoID == "" {
		return 0, errors.New("seed: unknown video")
	}
	var completedAt *time.Time
	if completed {
		at := now.UTC()
		completedAt = &at
	}

	w, err := repo.FindScheduled(ctx, tx, userID, videoID, date)
	switch {
	case err == nil:
		_, err = repo.SetCompletion(ctx, tx, w.ID, userID, w.IsCompleted, completed, completedAt)
		return 0, err
	case !repo.IsNotFound(err):
		return 0, err
	}

	err = repo.CreateScheduled(ctx, tx, &domain.ScheduledWorkout{
		UserID:        userID,
		VideoID:       videoID,
		ScheduledDate: date,
		IsCompleted:   completed,
		CompletedAt:   completedAt,
	})
	if err != nil {
		return 0, err
	}
	return 1, nil
}
