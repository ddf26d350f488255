package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/tbourn/trainflow-backend/internal/services"
)

func newWorkoutEngine(t *testing.T) (*Handlers, http.Handler, string) {
	t.Helper()
	db := newHandlerDB(t)
	v := seedCatalogVideo(t, db, "ml6cT4AZdqI", "Full Body Strength", 30)
	h := New(Services{
		Workouts: services.NewWorkoutService(db),
		Chat:     services.NewChatService(db),
	})
	h.Now = fixedNow(time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)) // Wednesday
	return h, newEngine(h), v.ID
}

func TestScheduleWorkout_CreatedThenExisting(t *testing.T) {
	_, r, videoID := newWorkoutEngine(t)
	body := map[string]string{"video_id": videoID, "date": "2025-03-10"}

	w := do(t, r, http.MethodPost, "/workouts", body, asUser("u1"))
	if w.Code != http.StatusCreated {
		t.Fatalf("first schedule status=%d body=%s", w.Code, w.Body.String())
	}
	first := decode[WorkoutResponse](t, w)
	if first.Workout == nil || first.Workout.Video == nil || first.Workout.Video.ID != videoID {
		t.Fatalf("expected workout with joined video, got %+v", first.Workout)
	}
	if first.Workout.IsCompleted || first.Workout.CompletedAt != nil {
		t.Fatalf("new workout must start incomplete: %+v", first.Workout)
	}

	// Same day given as RFC3339: same row, 200.
	body["date"] = "2025-03-10T18:45:00Z"
	w = do(t, r, http.MethodPost, "/workouts", body, asUser("u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("repeat schedule status=%d", w.Code)
	}
	if again := decode[WorkoutResponse](t, w); again.Workout.ID != first.Workout.ID {
		t.Fatalf("expected same id, got %s vs %s", again.Workout.ID, first.Workout.ID)
	}
}

func TestScheduleWorkout_Validation(t *testing.T) {
	_, r, videoID := newWorkoutEngine(t)

	expectError(t, do(t, r, http.MethodPost, "/workouts", `{"video_id":`, asUser("u1")), http.StatusBadRequest, ErrCodeBadRequest)
	expectError(t, do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID}, asUser("u1")), http.StatusBadRequest, ErrCodeBadRequest)
	expectError(t, do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "10/03/2025"}, asUser("u1")), http.StatusBadRequest, ErrCodeBadRequest)
	expectError(t, do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": "missing", "date": "2025-03-10"}, asUser("u1")), http.StatusNotFound, ErrCodeNotFound)
	expectError(t, do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "2025-03-10"}), http.StatusUnauthorized, ErrCodeUnauthorized)
}

func TestScheduleWorkout_IdempotentReplay(t *testing.T) {
	_, r, videoID := newWorkoutEngine(t)
	key := withHeader("Idempotency-Key", "sched-1")

	w1 := do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "2025-03-11"}, asUser("u1"), key)
	if w1.Code != http.StatusCreated {
		t.Fatalf("first status=%d", w1.Code)
	}
	first := decode[WorkoutResponse](t, w1)

	// The replay ignores the new body and returns the recorded result.
	w2 := do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "2025-03-20"}, asUser("u1"), key)
	if w2.Code != http.StatusCreated || w2.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("replay status=%d replayed=%q", w2.Code, w2.Header().Get("Idempotency-Replayed"))
	}
	replayed := decode[WorkoutResponse](t, w2)
	if replayed.Workout.ID != first.Workout.ID || replayed.Workout.Video == nil {
		t.Fatalf("replay returned %+v, want %s with video", replayed.Workout, first.Workout.ID)
	}

	// Same key for another user is independent.
	w3 := do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "2025-03-11"}, asUser("u2"), key)
	if w3.Code != http.StatusCreated || w3.Header().Get("Idempotency-Replayed") != "" {
		t.Fatalf("other user status=%d replayed=%q", w3.Code, w3.Header().Get("Idempotency-Replayed"))
	}
}

func TestToggleWorkout_FlipAndOwnership(t *testing.T) {
	_, r, videoID := newWorkoutEngine(t)
	w := do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "2025-03-10"}, asUser("u1"))
	id := decode[WorkoutResponse](t, w).Workout.ID

	w = do(t, r, http.MethodPatch, "/workouts/"+id, nil, asUser("u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("toggle status=%d", w.Code)
	}
	res := decode[services.ToggleResult](t, w)
	if res.WorkoutID != id || !res.IsCompleted || res.CompletedAt == nil {
		t.Fatalf("unexpected toggle result: %+v", res)
	}

	w = do(t, r, http.MethodPatch, "/workouts/"+id, nil, asUser("u1"))
	res = decode[services.ToggleResult](t, w)
	if res.IsCompleted || res.CompletedAt != nil {
		t.Fatalf("second toggle should clear completion: %+v", res)
	}

	// Foreign and missing ids are indistinguishable.
	foreign := expectError(t, do(t, r, http.MethodPatch, "/workouts/"+id, nil, asUser("u2")), http.StatusNotFound, ErrCodeNotFound)
	missing := expectError(t, do(t, r, http.MethodPatch, "/workouts/nope", nil, asUser("u2")), http.StatusNotFound, ErrCodeNotFound)
	if foreign.Message != missing.Message {
		t.Fatalf("foreign %q and missing %q messages differ", foreign.Message, missing.Message)
	}
}

func TestDeleteWorkout(t *testing.T) {
	_, r, videoID := newWorkoutEngine(t)
	w := do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "2025-03-10"}, asUser("u1"))
	id := decode[WorkoutResponse](t, w).Workout.ID

	expectError(t, do(t, r, http.MethodDelete, "/workouts/"+id, nil, asUser("u2")), http.StatusNotFound, ErrCodeNotFound)
	if w := do(t, r, http.MethodDelete, "/workouts/"+id, nil, asUser("u1")); w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("delete status=%d body=%q", w.Code, w.Body.String())
	}
	expectError(t, do(t, r, http.MethodDelete, "/workouts/"+id, nil, asUser("u1")), http.StatusNotFound, ErrCodeNotFound)
}

func TestListWorkouts_ETagTracksCatalog(t *testing.T) {
	db := newHandlerDB(t)
	v := seedCatalogVideo(t, db, "ml6cT4AZdqI", "Full Body Strength", 30)
	r := newEngine(New(Services{Workouts: services.NewWorkoutService(db)}))
	do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": v.ID, "date": "2025-03-10"}, asUser("u1"))

	w := do(t, r, http.MethodGet, "/workouts", nil, asUser("u1"))
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("list status=%d etag=%q", w.Code, etag)
	}

	// Re-seeding the catalog rewrites the joined video.
	time.Sleep(2 * time.Millisecond)
	seedCatalogVideo(t, db, "ml6cT4AZdqI", "Full Body Strength II", 35)

	w = do(t, r, http.MethodGet, "/workouts", nil, asUser("u1"), withHeader("If-None-Match", etag))
	if w.Code != http.StatusOK || w.Header().Get("ETag") == etag {
		t.Fatalf("expected fresh 200 after catalog change, got %d", w.Code)
	}
	list := decode[ListWorkoutsResponse](t, w)
	if len(list.Workouts) != 1 || list.Workouts[0].Video == nil || list.Workouts[0].Video.Title != "Full Body Strength II" {
		t.Fatalf("stale joined video: %+v", list.Workouts)
	}
}

func TestListWorkouts_RangeAndETag(t *testing.T) {
	_, r, videoID := newWorkoutEngine(t)
	for _, d := range []string{"2025-03-10", "2025-03-12", "2025-03-20"} {
		do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": d}, asUser("u1"))
	}

	w := do(t, r, http.MethodGet, "/workouts?from=2025-03-10&to=2025-03-12", nil, asUser("u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	list := decode[ListWorkoutsResponse](t, w)
	if len(list.Workouts) != 2 {
		t.Fatalf("inclusive range should hold 2 rows, got %d", len(list.Workouts))
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}

	w = do(t, r, http.MethodGet, "/workouts?from=2025-03-10&to=2025-03-12", nil, asUser("u1"), withHeader("If-None-Match", etag))
	if w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}

	// A toggle changes the tag.
	do(t, r, http.MethodPatch, "/workouts/"+list.Workouts[0].ID, nil, asUser("u1"))
	w = do(t, r, http.MethodGet, "/workouts?from=2025-03-10&to=2025-03-12", nil, asUser("u1"), withHeader("If-None-Match", etag))
	if w.Code != http.StatusOK || w.Header().Get("ETag") == etag {
		t.Fatalf("expected fresh 200 after write, got %d etag=%s", w.Code, w.Header().Get("ETag"))
	}

	// Empty list is [] not null.
	w = do(t, r, http.MethodGet, "/workouts", nil, asUser("nobody"))
	if body := w.Body.String(); body != `{"workouts":[]}` {
		t.Fatalf("unexpected empty body %s", body)
	}

	expectError(t, do(t, r, http.MethodGet, "/workouts?from=2025-03-12&to=2025-03-10", nil, asUser("u1")), http.StatusBadRequest, ErrCodeBadRequest)
	expectError(t, do(t, r, http.MethodGet, "/workouts?from=yesterday", nil, asUser("u1")), http.StatusBadRequest, ErrCodeBadRequest)
}

func TestWorkoutDaysAndWeek(t *testing.T) {
	_, r, videoID := newWorkoutEngine(t)
	for _, d := range []string{"2025-03-12", "2025-03-10"} {
		do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": d}, asUser("u1"))
	}

	days := decode[DaysResponse](t, do(t, r, http.MethodGet, "/workouts/days", nil, asUser("u1")))
	if len(days.Days) != 2 || days.Days[0].Date != "2025-03-10" || days.Days[0].ID != "day-2025-03-10" {
		t.Fatalf("unexpected days: %+v", days.Days)
	}

	// Default anchor is the pinned clock (Wed 2025-03-12).
	week := decode[WeekResponse](t, do(t, r, http.MethodGet, "/workouts/week", nil, asUser("u1")))
	if week.From != "2025-03-10" || week.To != "2025-03-16" || len(week.Days) != 7 {
		t.Fatalf("unexpected week: %s..%s (%d)", week.From, week.To, len(week.Days))
	}
	if len(week.Days[0].Videos) != 1 || len(week.Days[1].Videos) != 0 || len(week.Days[2].Videos) != 1 {
		t.Fatalf("videos not laid on their slots: %+v", week.Days)
	}

	next := decode[WeekResponse](t, do(t, r, http.MethodGet, "/workouts/week?date=2025-03-19", nil, asUser("u1")))
	if next.From != "2025-03-17" {
		t.Fatalf("expected next week, got %s", next.From)
	}
	expectError(t, do(t, r, http.MethodGet, "/workouts/week?date=soon", nil, asUser("u1")), http.StatusBadRequest, ErrCodeBadRequest)
}

func TestDashboard(t *testing.T) {
	_, r, videoID := newWorkoutEngine(t)
	w := do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "2025-03-10"}, asUser("u1"))
	done := decode[WorkoutResponse](t, w).Workout.ID
	do(t, r, http.MethodPatch, "/workouts/"+done, nil, asUser("u1"))
	do(t, r, http.MethodPost, "/workouts", map[string]string{"video_id": videoID, "date": "2025-03-14"}, asUser("u1"))

	w = do(t, r, http.MethodGet, "/dashboard", nil, asUser("u1"))
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard status=%d", w.Code)
	}
	d := decode[services.Dashboard](t, w)
	if d.Week.Scheduled != 2 || d.Week.Completed != 1 || d.Week.ActiveMinutes != 30 || d.TotalCompleted != 1 {
		t.Fatalf("unexpected summary: %+v total=%d", d.Week, d.TotalCompleted)
	}
	if len(d.Upcoming) != 1 || d.Upcoming[0].Date != "2025-03-14" {
		t.Fatalf("upcoming should start today: %+v", d.Upcoming)
	}
}
