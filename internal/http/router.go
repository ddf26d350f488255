// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers, authentication, idempotency, and rate
// limiting.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/trainflow-backend/docs" // swagger spec registration
	"github.com/tbourn/trainflow-backend/internal/config"
	"github.com/tbourn/trainflow-backend/internal/http/handlers"
	"github.com/tbourn/trainflow-backend/internal/http/middleware"
	"github.com/tbourn/trainflow-backend/internal/repo"
	"github.com/tbourn/trainflow-backend/internal/services"
)

// maxBodyBytes caps every request body.
const maxBodyBytes = 1 << 20

// Deps are the process-level resources the routes are built from.
type Deps struct {
	DB *gorm.DB

	// Tokens verifies bearer tokens and mints them on login. Nil disables
	// bearer auth (only the dev header, when allowed, can authenticate).
	Tokens interface {
		middleware.TokenParser
		services.TokenIssuer
	}
	Hasher services.Hasher

	// Redis, when set, backs a shared fixed-window rate limiter instead of
	// the per-process token bucket.
	Redis middleware.RedisCounter

	// Now overrides the handlers' clock (tests).
	Now func() time.Time
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Access log (redacting unless LOG_REDACT=false)
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. gzip (never on /metrics)
//  8. CORS and security headers
//
// Inside the API, public routes are rate limited per IP. Authenticated routes
// run RequireUser → idempotency validator → rate limiter (per user; replays
// bypass it).
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 8) CORS posture and security headers
	r.Use(corsMiddleware(cfg.CORS)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(buildServices(deps, cfg))
	h.IdempotencyTTL = cfg.IdempotencyTTL
	if deps.Now != nil {
		h.Now = deps.Now
	}

	limiter := newLimiter(deps, cfg)
	var parser middleware.TokenParser
	if deps.Tokens != nil {
		parser = deps.Tokens
	}

	api := groupWithPrefix(r, cfg.APIBasePath)

	// Public API
	public := api.Group("")
	public.Use(middleware.RateLimit(limiter, middleware.KeyByUserOrIP()))
	{
		// Token-bearing responses are never cached.
		tokens := public.Group("/auth", middleware.SecurityHeaders(middleware.SecurityOptions{Cache: middleware.CacheNoStore}))
		tokens.POST("/register", h.Register)
		tokens.POST("/login", h.Login)
		tokens.POST("/logout", h.Logout)

		public.GET("/videos", h.ListVideos)
		public.GET("/videos/search", h.SearchVideos)
		public.GET("/videos/:id", h.GetVideo)
	}

	// Authenticated API
	authed := api.Group("")
	authed.Use(
		middleware.RequireUser(parser, middleware.AuthOptions{AllowDevHeader: cfg.Auth.AllowDevUserHeader}),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{Now: deps.Now}, idempotencyLookup(deps.DB)),
		middleware.RateLimit(limiter, middleware.KeyByUserOrIP()),
		middleware.SecurityHeaders(middleware.SecurityOptions{Cache: middleware.CachePrivate}),
	)
	{
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
	}
}

// buildServices wires the application services to the database.
func buildServices(deps Deps, cfg config.Config) handlers.Services {
	chat := services.NewChatService(deps.DB)
	if cfg.ChatMaxRunes > 0 {
		chat.MaxMessageRunes = cfg.ChatMaxRunes
	}
	workouts := services.NewWorkoutService(deps.DB)
	if deps.Now != nil {
		workouts.Now = deps.Now
		chat.Now = deps.Now
	}
	var issuer services.TokenIssuer
	if deps.Tokens != nil {
		issuer = deps.Tokens
	}
	return handlers.Services{
		Workouts:    workouts,
		Preferences: services.NewPreferencesService(deps.DB),
		Chat:        chat,
		Videos:      services.NewVideoService(deps.DB),
		Accounts:    services.NewAccountService(deps.DB, deps.Hasher, issuer),
	}
}

// newLimiter picks the shared Redis limiter when configured, otherwise a
// per-process token bucket.
func newLimiter(deps Deps, cfg config.Config) middleware.Limiter {
	if deps.Redis != nil {
		return middleware.NewRedisLimiter(deps.Redis, cfg.RateBurst)
	}
	return middleware.NewLocalLimiter(cfg.RateRPS, cfg.RateBurst)
}

// idempotencyLookup reports whether a live record exists for the key. Lookup
// errors are treated as a miss so the handler re-executes normally.
func idempotencyLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
		rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
		if err != nil || rec == nil {
			return false, nil
		}
		return true, nil
	}
}

// corsMiddleware returns the CORS chain. With no configured origins every
// origin is allowed without credentials; otherwise allowed origins are
// echoed back.
func corsMiddleware(cc config.CORSConfig) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", middleware.HeaderUserID, middleware.HeaderIdempotencyKey},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag", middleware.HeaderIdempotencyReplayed, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	if len(cc.AllowedOrigins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			// ACAO: * even for requests without an Origin header.
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(cc.AllowedOrigins))
	for _, o := range cc.AllowedOrigins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = cc.AllowedOrigins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
