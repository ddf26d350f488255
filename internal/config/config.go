// Package config provides application configuration loaded from environment
// variables (and an optional env-format config file) with defaults and
// validation. It centralizes server timeouts, logging, storage, auth, rate
// limiting, and observability settings.
package config

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tbourn/trainflow-backend/internal/sysutil"
)

// Supported DB_DRIVER values.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// minSecretLen is the shortest accepted JWT_SECRET.
const minSecretLen = 16

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// AuthConfig controls session tokens and the development identity header.
type AuthConfig struct {
	JWTSecret          string        // JWT_SECRET (HS256 key)
	TokenTTL           time.Duration // TOKEN_TTL
	BcryptCost         int           // BCRYPT_COST
	AllowDevUserHeader bool          // ALLOW_DEV_USER_HEADER: trust X-User-ID without a token
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	LogRedact      bool   // mask secrets in access logs
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	DBDriver       string        // sqlite|postgres
	DBDSN          string        // file path for sqlite, URL/DSN for postgres
	DBMaxOpenConns int           // 0 = driver default
	DBSlowQuery    time.Duration // slow-query log threshold

	// Chat
	ChatMaxRunes int // longest accepted chat message

	// Auth
	Auth AuthConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)
	RedisAddr string  // when set, rate limits are shared through Redis

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL   time.Duration // how long a given Idempotency-Key is valid
	IdempotencyPurge time.Duration // how often expired keys are deleted; 0 disables

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from the environment, applies defaults,
// normalizes values, and validates the result. When CONFIG_FILE names an
// env-format file its values are used beneath the real environment.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}
	return load(source{v})
}

func load(s source) (Config, error) {
	cfg := Config{
		// Server
		Port:              s.str("PORT", "8080"),
		ReadTimeout:       s.dur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: s.dur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      s.dur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       s.dur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    s.int("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(s.str("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(s.str("LOG_LEVEL", "info")),
		LogPretty:      s.bool("LOG_PRETTY", false),
		LogRedact:      s.bool("LOG_REDACT", true),
		SwaggerEnabled: s.bool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(s.str("API_BASE_PATH", "/api/v1")),

		// Storage
		DBDriver:       strings.ToLower(s.str("DB_DRIVER", DriverSQLite)),
		DBDSN:          s.str("DB_DSN", "trainflow.db"),
		DBMaxOpenConns: s.int("DB_MAX_OPEN_CONNS", 0),
		DBSlowQuery:    s.dur("DB_SLOW_QUERY", 200*time.Millisecond),

		ChatMaxRunes: s.int("CHAT_MAX_RUNES", 2000),

		Auth: AuthConfig{
			JWTSecret:          s.str("JWT_SECRET", ""),
			TokenTTL:           s.dur("TOKEN_TTL", 7*24*time.Hour),
			BcryptCost:         s.int("BCRYPT_COST", 10),
			AllowDevUserHeader: s.bool("ALLOW_DEV_USER_HEADER", false),
		},

		// Rate limiting
		RateRPS:   s.float("RATE_RPS", 5.0),
		RateBurst: s.int("RATE_BURST", 10),
		RedisAddr: s.str("REDIS_ADDR", ""),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(s.str("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: s.bool("ENABLE_HSTS", false),
			HSTSMaxAge: s.dur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL:   s.dur("IDEMPOTENCY_TTL", 24*time.Hour),
		IdempotencyPurge: s.dur("IDEMPOTENCY_PURGE_INTERVAL", time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     s.bool("OTEL_ENABLED", false),
			Endpoint:    s.str("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    s.bool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: s.str("OTEL_SERVICE_NAME", "trainflow-backend"),
			SampleRatio: s.float("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.DBDriver == "postgresql" || cfg.DBDriver == "pgx" {
		cfg.DBDriver = DriverPostgres
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	switch cfg.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return cfg, errors.New("DB_DRIVER must be sqlite or postgres")
	}
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return cfg, errors.New("DB_DSN must not be empty")
	}
	if cfg.DBMaxOpenConns < 0 {
		return cfg, errors.New("DB_MAX_OPEN_CONNS must be >= 0")
	}
	if cfg.ChatMaxRunes < 1 {
		return cfg, errors.New("CHAT_MAX_RUNES must be >= 1")
	}
	if len(cfg.Auth.JWTSecret) < minSecretLen {
		return cfg, errors.New("JWT_SECRET must be at least 16 bytes")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return cfg, errors.New("TOKEN_TTL must be > 0")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return cfg, errors.New("BCRYPT_COST must be between 4 and 31")
	}
	if cfg.Auth.AllowDevUserHeader && cfg.GinMode == "release" {
		return cfg, errors.New("ALLOW_DEV_USER_HEADER cannot be enabled in release mode")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.IdempotencyPurge < 0 {
		return cfg, errors.New("IDEMPOTENCY_PURGE_INTERVAL must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

// source reads raw values through viper. Unparseable values fall back to the
// default, matching how unset keys behave.
type source struct{ v *viper.Viper }

func (s source) str(k, def string) string {
	if v := s.v.GetString(k); v != "" {
		return v
	}
	return def
}

func (s source) float(k string, def float64) float64 {
	if raw := s.v.GetString(k); raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return def
}

func (s source) int(k string, def int) int {
	if raw := s.v.GetString(k); raw != "" {
		if i, err := strconv.Atoi(raw); err == nil {
			return i
		}
	}
	return def
}

func (s source) bool(k string, def bool) bool {
	if b, ok := sysutil.ParseBool(s.v.GetString(k)); ok {
		return b
	}
	return def
}

func (s source) dur(k string, def time.Duration) time.Duration {
	if raw := s.v.GetString(k); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
