// Package services – WorkoutService
//
// This file implements WorkoutService, which owns the scheduled-workout
// lifecycle: idempotent scheduling on (user, video, date), the completion
// toggle, removal, calendar reads mapped into WorkoutDay view models, and the
// dashboard summary.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include user and workout identifiers where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/calendar"
	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// UpcomingLimit caps the scheduled rows considered for the dashboard.
const UpcomingLimit = 10

// errStaleToggle signals that the conditional update matched no row.
var errStaleToggle = errors.New("stale toggle")

// WorkoutService coordinates scheduled-workout persistence.
type WorkoutService struct {
	DB *gorm.DB

	// Now is the clock used for completion stamps; defaults to time.Now.
	Now func() time.Time
}

// NewWorkoutService returns a service using the wall clock.
func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{DB: db, Now: time.Now}
}

// ToggleResult is the post-toggle state of a workout.
type ToggleResult struct {
	WorkoutID   string     `json:"workout_id"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// Dashboard is the home screen summary.
type Dashboard struct {
	WeekFrom       string                `json:"week_from"`
	WeekTo         string                `json:"week_to"`
	Week           calendar.Summary      `json:"week"`
	TotalCompleted int64                 `json:"total_completed"`
	Upcoming       []calendar.WorkoutDay `json:"upcoming"`
}

func (s *WorkoutService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Schedule books videoID for userID on date (YYYY-MM-DD or RFC3339; the time
// of day is discarded). If the same video is already booked that day the
// existing row is returned unchanged and created is false.
func (s *WorkoutService) Schedule(ctx context.Context, userID, videoID, date string) (w *domain.ScheduledWorkout, created bool, err error) {
	tr := otel.Tracer("services/WorkoutService")
	ctx, span := tr.Start(ctx, "Schedule",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("video.id", videoID),
		),
	)
	defer span.End()

	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return nil, false, invalid("video_id", "is required")
	}
	day, err := calendar.ParseDate(date)
	if err != nil {
		return nil, false, invalid("date", "must be YYYY-MM-DD or RFC3339")
	}

	var video *domain.WorkoutVideo
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := repo.GetVideo(ctx, tx, videoID)
		if err != nil {
			if isNotFound(err) {
				return ErrVideoNotFound
			}
			return err
		}
		video = v

		existing, err := repo.FindScheduled(ctx, tx, userID, videoID, day)
		if err == nil {
			w = existing
			return nil
		}
		if !isNotFound(err) {
			return err
		}

		row := &domain.ScheduledWorkout{
			UserID:        userID,
			VideoID:       videoID,
			ScheduledDate: day,
			IsCompleted:   false,
		}
		if err := repo.CreateScheduled(ctx, tx, row); err != nil {
			return err
		}
		w, created = row, true
		return nil
	})
	if err != nil && isDuplicate(err) {
		// A concurrent identical request inserted first; return its row.
		w, err = repo.FindScheduled(ctx, s.DB, userID, videoID, day)
		created = false
	}
	if err != nil {
		return nil, false, err
	}

	if created {
		workoutsScheduled.Inc()
	}
	w.Video = video
	return w, created, nil
}

// Toggle flips the completion state of a workout owned by userID. Completing
// stamps CompletedAt; un-completing clears it. Missing and foreign workouts
// both yield ErrWorkoutNotFound.
func (s *WorkoutService) Toggle(ctx context.Context, userID, workoutID string) (*ToggleResult, error) {
	tr := otel.Tracer("services/WorkoutService")
	ctx, span := tr.Start(ctx, "Toggle",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("workout.id", workoutID),
		),
	)
	defer span.End()

	for attempt := 0; attempt < 2; attempt++ {
		var res *ToggleResult
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			w, err := repo.GetScheduled(ctx, tx, workoutID, userID, true)
			if err != nil {
				if isNotFound(err) {
					return ErrWorkoutNotFound
				}
				return err
			}

			next := !w.IsCompleted
			var at *time.Time
			if next {
				t := s.now().UTC()
				at = &t
			}
			n, err := repo.SetCompletion(ctx, tx, w.ID, userID, w.IsCompleted, next, at)
			if err != nil {
				return err
			}
			if n == 0 {
				return errStaleToggle
			}
			res = &ToggleResult{WorkoutID: w.ID, IsCompleted: next, CompletedAt: at}
			return nil
		})
		if errors.Is(err, errStaleToggle) {
			span.AddEvent("retry")
			continue
		}
		if err != nil {
			return nil, err
		}
		workoutsToggled.WithLabelValues(toggleState(res.IsCompleted)).Inc()
		return res, nil
	}
	return nil, ErrToggleConflict
}

// Remove deletes a workout owned by userID.
func (s *WorkoutService) Remove(ctx context.Context, userID, workoutID string) error {
	tr := otel.Tracer("services/WorkoutService")
	ctx, span := tr.Start(ctx, "Remove",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("workout.id", workoutID),
		),
	)
	defer span.End()

	if err := repo.DeleteScheduled(ctx, s.DB, workoutID, userID); err != nil {
		if isNotFound(err) {
			return ErrWorkoutNotFound
		}
		return err
	}
	return nil
}

// List returns userID's workouts with videos joined, ordered by date.
// Zero bounds are open; to is exclusive.
func (s *WorkoutService) List(ctx context.Context, userID string, from, to time.Time) ([]domain.ScheduledWorkout, error) {
	tr := otel.Tracer("services/WorkoutService")
	ctx, span := tr.Start(ctx, "List", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	return repo.ListScheduled(ctx, s.DB, userID, repo.ScheduleRange{From: from, To: to})
}

// Days is List mapped into calendar days.
func (s *WorkoutService) Days(ctx context.Context, userID string, from, to time.Time) ([]calendar.WorkoutDay, error) {
	rows, err := s.List(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	return calendar.ToWorkoutDays(rows), nil
}

// Week returns the 7 display slots of the Monday-start week containing anchor.
func (s *WorkoutService) Week(ctx context.Context, userID string, anchor time.Time) (from, to time.Time, days []calendar.WorkoutDay, err error) {
	from, to = calendar.Week(anchor)
	mapped, err := s.Days(ctx, userID, from, to)
	if err != nil {
		return from, to, nil, err
	}
	return from, to, calendar.FillWeek(mapped, from), nil
}

// Dashboard summarizes the current week and lists upcoming days.
func (s *WorkoutService) Dashboard(ctx context.Context, userID string, now time.Time) (*Dashboard, error) {
	tr := otel.Tracer("services/WorkoutService")
	ctx, span := tr.Start(ctx, "Dashboard", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	from, to := calendar.Week(now)
	week, err := s.Days(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	upcoming, err := repo.ListScheduled(ctx, s.DB, userID, repo.ScheduleRange{
		From:  calendar.NormalizeDate(now),
		Limit: UpcomingLimit,
	})
	if err != nil {
		return nil, err
	}

	total, err := repo.CountCompleted(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		WeekFrom:       from.Format(calendar.DateLayout),
		WeekTo:         to.AddDate(0, 0, -1).Format(calendar.DateLayout),
		Week:           calendar.Summarize(week),
		TotalCompleted: total,
		Upcoming:       calendar.ToWorkoutDays(upcoming),
	}, nil
}
