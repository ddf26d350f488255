// Package handlers exposes the TrainFlow REST endpoints.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including conditional
// and replayed responses). Every service is consumed through a narrow,
// context-aware interface so tests can substitute stubs.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/calendar"
	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/http/middleware"
	"github.com/tbourn/trainflow-backend/internal/services"
	"github.com/tbourn/trainflow-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// WorkoutService schedules, toggles and lists a user's workouts.
type WorkoutService interface {
	Schedule(ctx context.Context, userID, videoID, date string) (*domain.ScheduledWorkout, bool, error)
	Toggle(ctx context.Context, userID, workoutID string) (*services.ToggleResult, error)
	Remove(ctx context.Context, userID, workoutID string) error
	List(ctx context.Context, userID string, from, to time.Time) ([]domain.ScheduledWorkout, error)
	Days(ctx context.Context, userID string, from, to time.Time) ([]calendar.WorkoutDay, error)
	Week(ctx context.Context, userID string, anchor time.Time) (from, to time.Time, days []calendar.WorkoutDay, err error)
	Dashboard(ctx context.Context, userID string, now time.Time) (*services.Dashboard, error)
}

// PreferencesService reads and replaces a user's planning settings.
type PreferencesService interface {
	Get(ctx context.Context, userID string) (*domain.Preferences, error)
	Save(ctx context.Context, userID string, in services.PreferencesInput) (*domain.Preferences, error)
}

// ChatService appends to and pages through a user's chat log.
type ChatService interface {
	Send(ctx context.Context, userID, content string) ([]domain.ChatMessage, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.ChatMessage, int64, error)
	Get(ctx context.Context, userID string, ids []string) ([]domain.ChatMessage, error)
}

// VideoService serves the read-only workout catalog.
type VideoService interface {
	List(ctx context.Context, f services.VideoFilter) ([]domain.WorkoutVideo, error)
	Get(ctx context.Context, id string) (*domain.WorkoutVideo, error)
	Search(ctx context.Context, q string, k int) ([]domain.WorkoutVideo, error)
}

// AccountService registers users, opens sessions and edits profiles.
type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Get(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in services.ProfileInput) (*domain.User, error)
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers.
type Services struct {
	Workouts    WorkoutService
	Preferences PreferencesService
	Chat        ChatService
	Videos      VideoService
	Accounts    AccountService
}

// Handlers groups the HTTP endpoints.
type Handlers struct {
	workouts WorkoutService
	prefs    PreferencesService
	chat     ChatService
	videos   VideoService
	accounts AccountService

	// IdempotencyTTL bounds how long a POST result can be replayed.
	IdempotencyTTL time.Duration
	// Now is the clock for "today" defaults; tests pin it.
	Now func() time.Time
}

// New constructs a Handlers instance bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		workouts:       s.Workouts,
		prefs:          s.Preferences,
		chat:           s.Chat,
		videos:         s.Videos,
		accounts:       s.Accounts,
		IdempotencyTTL: 24 * time.Hour,
		Now:            time.Now,
	}
}

func (h *Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

//
// Helpers
//

// currentUser returns the authenticated user id set by middleware.RequireUser.
// When absent it writes a 401 and reports false.
func currentUser(c *gin.Context) (string, bool) {
	if uid := middleware.UserID(c); uid != "" {
		return uid, true
	}
	fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	return "", false
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 50
		maxPageSize     = 200
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampedInt(c.Query("page_size"), defaultPageSize, 1, maxPageSize)
	return
}

// dateRange parses the optional from/to query dates. Both bounds are
// inclusive calendar days; the returned to is the exclusive midnight after.
func dateRange(c *gin.Context) (from, to time.Time, ok bool) {
	if s := strings.TrimSpace(c.Query("from")); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from must be YYYY-MM-DD")
			return from, to, false
		}
		from = d
	}
	if s := strings.TrimSpace(c.Query("to")); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "to must be YYYY-MM-DD")
			return from, to, false
		}
		to = d.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from must not be after to")
		return from, to, false
	}
	return from, to, true
}

// dbOf digs the database handle out of a concrete service for ETag and
// idempotency bookkeeping. Stubs yield nil, which disables both.
func dbOf(svc any) *gorm.DB {
	switch s := svc.(type) {
	case *services.WorkoutService:
		return s.DB
	case *services.ChatService:
		return s.DB
	case *services.VideoService:
		return s.DB
	}
	return nil
}

// notModified sets a weak ETag and reports whether If-None-Match matched.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}
