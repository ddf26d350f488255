package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/trainflow-backend/internal/domain"
	"github.com/tbourn/trainflow-backend/internal/http/middleware"
	"github.com/tbourn/trainflow-backend/internal/repo"
)

// ---------- test DB ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCatalogVideo(t *testing.T, db *gorm.DB, youtubeID, title string, minutes int) *domain.WorkoutVideo {
	t.Helper()
	v, err := repo.UpsertVideo(t.Context(), db, domain.WorkoutVideo{
		YouTubeID:       youtubeID,
		Title:           title,
		ChannelName:     "Coach",
		Duration:        minutes * 60,
		Intensity:       domain.IntensityMedium,
		MuscleGroups:    []string{"core"},
		EquipmentNeeded: []string{},
		Exercises:       []domain.Exercise{},
	})
	if err != nil {
		t.Fatalf("seed video: %v", err)
	}
	return v
}

// ---------- engine ----------

// newEngine mounts every route the way the router does, with the dev
// X-User-ID shim standing in for bearer tokens.
func newEngine(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())

	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/videos", h.ListVideos)
	r.GET("/videos/search", h.SearchVideos)
	r.GET("/videos/:id", h.GetVideo)

	authed := r.Group("")
	authed.Use(
		middleware.RequireUser(nil, middleware.AuthOptions{AllowDevHeader: true}),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil),
	)
	authed.GET("/auth/session", h.Session)
	authed.PUT("/profile", h.UpdateProfile)
	authed.GET("/workouts", h.ListWorkouts)
	authed.GET("/workouts/days", h.WorkoutDays)
	authed.GET("/workouts/week", h.WorkoutWeek)
	authed.POST("/workouts", h.ScheduleWorkout)
	authed.PATCH("/workouts/:id", h.ToggleWorkout)
	authed.DELETE("/workouts/:id", h.DeleteWorkout)
	authed.GET("/dashboard", h.Dashboard)
	authed.GET("/preferences", h.GetPreferences)
	authed.PUT("/preferences", h.SavePreferences)
	authed.GET("/chat", h.ListChat)
	authed.POST("/chat", h.PostChat)
	return r
}

type reqOpt func(*http.Request)

func asUser(uid string) reqOpt {
	return func(r *http.Request) { r.Header.Set(middleware.HeaderUserID, uid) }
}

func withHeader(k, v string) reqOpt {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func do(t *testing.T, r http.Handler, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %T: %v (body=%s)", v, err, w.Body.String())
	}
	return v
}

func expectError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) ErrorResponse {
	t.Helper()
	if w.Code != status {
		t.Fatalf("status=%d want %d body=%s", w.Code, status, w.Body.String())
	}
	er := decode[ErrorResponse](t, w)
	if er.Code != code || er.RequestID == "" {
		t.Fatalf("unexpected envelope: %+v", er)
	}
	return er
}

func fixedNow(ts time.Time) func() time.Time { return func() time.Time { return ts } }
