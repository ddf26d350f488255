// Workout HTTP handlers.
//
// This file exposes REST endpoints for scheduled workouts:
//   - GET    /workouts            (rows with videos, weak ETag)
//   - GET    /workouts/days       (rows grouped into calendar days)
//   - GET    /workouts/week       (seven Monday-first slots)
//   - POST   /workouts            (schedule; idempotent on user+video+date)
//   - PATCH  /workouts/{id}       (toggle completion)
//   - DELETE /workouts/{id}       (remove)
//   - GET    /dashboard           (week summary + upcoming)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// result exists for (user, endpoint, key), POST /workouts returns the
// recorded workout with its original status and sets
// `Idempotency-Replayed: true`.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/trainflow-backend/internal/calendar"
	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/http/middleware"
	"github.com/tbourn/trainflow-backend/internal/repo"
)

//
// DTOs
//

// ScheduleWorkoutRequest is the JSON payload for booking a video on a day.
type ScheduleWorkoutRequest struct {
	VideoID string `json:"video_id" binding:"required" example:"3f0e8a3c-5d1b-4c1e-9b7a-2f1d0c9e8b7a"`
	// Date is YYYY-MM-DD (or RFC3339; the time of day is ignored).
	Date string `json:"date" binding:"required" example:"2025-03-10"`
}

// WorkoutResponse wraps a single scheduled workout.
type WorkoutResponse struct {
	Workout *domain.ScheduledWorkout `json:"workout"`
}

// ListWorkoutsResponse wraps scheduled rows.
type ListWorkoutsResponse struct {
	Workouts []domain.ScheduledWorkout `json:"workouts"`
}

// DaysResponse wraps mapped calendar days.
type DaysResponse struct {
	Days []calendar.WorkoutDay `json:"days"`
}

// WeekResponse is one Monday-start week, always seven slots.
type WeekResponse struct {
	From string                `json:"from"`
	To   string                `json:"to"`
	Days []calendar.WorkoutDay `json:"days"`
}

//
// Handlers
//

// ListWorkouts godoc
// @ID          listWorkouts
// @Summary     List scheduled workouts
// @Description Returns the user's workouts with their videos, ordered by date. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Workouts
// @Produce     json
// @Security    BearerAuth
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       from           query   string  false "First day (inclusive)"  format(date)
// @Param       to             query   string  false "Last day (inclusive)"   format(date)
//
// @Success     200  {object} handlers.ListWorkoutsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /workouts [get]
func (h *Handlers) ListWorkouts(c *gin.Context) {
	ctx := c.Request.Context()
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	from, to, okRange := dateRange(c)
	if !okRange {
		return
	}

	// Rows embed their video, so a catalog change invalidates the tag too.
	if db := dbOf(h.workouts); db != nil {
		wv, werr := repo.WorkoutsVersion(ctx, db, uid)
		cv, cerr := repo.CatalogVersion(ctx, db)
		if werr == nil && cerr == nil &&
			notModified(c, wv.ETag("workouts", uid, c.Query("from"), c.Query("to"), "catalog", cv.String())) {
			return
		}
	}

	rows, err := h.workouts.List(ctx, uid, from, to)
	if err != nil {
		failErr(c, err)
		return
	}
	if rows == nil {
		rows = []domain.ScheduledWorkout{}
	}
	ok(c, http.StatusOK, ListWorkoutsResponse{Workouts: rows})
}

// WorkoutDays godoc
// @ID          workoutDays
// @Summary     Workouts grouped by day
// @Description Groups the user's workouts into calendar days (ascending). Days without workouts are omitted.
// @Tags        Workouts
// @Produce     json
// @Security    BearerAuth
//
// @Param       from  query  string  false "First day (inclusive)"  format(date)
// @Param       to    query  string  false "Last day (inclusive)"   format(date)
//
// @Success     200  {object} handlers.DaysResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /workouts/days [get]
func (h *Handlers) WorkoutDays(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	from, to, okRange := dateRange(c)
	if !okRange {
		return
	}
	days, err := h.workouts.Days(c.Request.Context(), uid, from, to)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DaysResponse{Days: days})
}

// WorkoutWeek godoc
// @ID          workoutWeek
// @Summary     One calendar week
// @Description Returns seven day slots, Monday first, for the week containing date (default today, UTC).
// @Tags        Workouts
// @Produce     json
// @Security    BearerAuth
//
// @Param       date  query  string  false "Any day within the week"  format(date)
//
// @Success     200  {object} handlers.WeekResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /workouts/week [get]
func (h *Handlers) WorkoutWeek(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	anchor := h.now()
	if s := strings.TrimSpace(c.Query("date")); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "date must be YYYY-MM-DD")
			return
		}
		anchor = d
	}

	from, to, days, err := h.workouts.Week(c.Request.Context(), uid, anchor)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, WeekResponse{
		From: from.Format(calendar.DateLayout),
		To:   to.AddDate(0, 0, -1).Format(calendar.DateLayout),
		Days: days,
	})
}

// ScheduleWorkout godoc
// @ID          scheduleWorkout
// @Summary     Schedule a workout
// @Description Books a catalog video on a calendar day. Booking the same video on the same day again returns the existing workout with 200.
// @Description Supports idempotency via the Idempotency-Key header.
// @Tags        Workouts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
//
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.ScheduleWorkoutRequest  true  "Workout to schedule"
//
// @Success     201  {object}  handlers.WorkoutResponse  "Created"
// @Success     200  {object}  handlers.WorkoutResponse  "Already scheduled"
// @Failure     400  {object}  handlers.ErrorResponse    "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse    "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse    "Video not found"
// @Failure     500  {object}  handlers.ErrorResponse    "Internal error"
// @Router      /workouts [post]
func (h *Handlers) ScheduleWorkout(c *gin.Context) {
	ctx := c.Request.Context()
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}

	var req ScheduleWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "video_id and date are required")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	scope := middleware.IdempotencyScope(c)
	db := dbOf(h.workouts)

	if idemKey != "" && db != nil && h.replayWorkout(c, db, uid, scope, idemKey) {
		return
	}

	w, created, err := h.workouts.Schedule(ctx, uid, req.VideoID, req.Date)
	if err != nil {
		failErr(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	// Stored best effort.
	if idemKey != "" && db != nil {
		rec := domain.NewIdempotency(uid, scope, idemKey, status, h.now(), h.IdempotencyTTL, w.ID)
		if err := repo.CreateIdempotency(ctx, db, rec); err != nil && !repo.IsDuplicate(err) {
			middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency store failed")
		}
	}

	ok(c, status, WorkoutResponse{Workout: w})
}

// replayWorkout answers a retried schedule request from its stored record.
// It reports false when there is nothing to replay.
func (h *Handlers) replayWorkout(c *gin.Context, db *gorm.DB, uid, scope, key string) bool {
	ctx := c.Request.Context()
	rec, err := repo.GetIdempotency(ctx, db, uid, scope, key, h.now())
	if err != nil {
		return false
	}
	ids := rec.ResourceIDs()
	if len(ids) != 1 {
		return false
	}
	prev, err := repo.GetScheduled(ctx, db, ids[0], uid, false)
	if err != nil {
		return false
	}
	if v, err := repo.GetVideo(ctx, db, prev.VideoID); err == nil {
		prev.Video = v
	}
	c.Header(middleware.HeaderIdempotencyReplayed, "true")
	ok(c, rec.Status, WorkoutResponse{Workout: prev})
	return true
}

// ToggleWorkout godoc
// @ID          toggleWorkout
// @Summary     Toggle completion
// @Description Flips is_completed. Completing stamps completed_at; un-completing clears it. Another user's workout is reported as not found.
// @Tags        Workouts
// @Produce     json
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Workout ID"  format(uuid)
//
// @Success     200  {object} services.ToggleResult
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Workout not found"
// @Failure     409  {object} handlers.ErrorResponse "Concurrent modification"
// @Router      /workouts/{id} [patch]
func (h *Handlers) ToggleWorkout(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	res, err := h.workouts.Toggle(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// DeleteWorkout godoc
// @ID          deleteWorkout
// @Summary     Remove a workout
// @Tags        Workouts
// @Security    BearerAuth
//
// @Param       id  path  string  true  "Workout ID"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Failure     404  {object} handlers.ErrorResponse "Workout not found"
// @Router      /workouts/{id} [delete]
func (h *Handlers) DeleteWorkout(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	if err := h.workouts.Remove(c.Request.Context(), uid, c.Param("id")); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// Dashboard godoc
// @ID          dashboard
// @Summary     Home screen summary
// @Description Current-week totals (scheduled, completed, active minutes, most trained muscle group), all-time completions and upcoming days.
// @Tags        Workouts
// @Produce     json
// @Security    BearerAuth
//
// @Success     200  {object} services.Dashboard
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /dashboard [get]
func (h *Handlers) Dashboard(c *gin.Context) {
	uid, okUser := currentUser(c)
	if !okUser {
		return
	}
	d, err := h.workouts.Dashboard(c.Request.Context(), uid, h.now().UTC().Truncate(time.Second))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, d)
}
