// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides request correlation, the access log and panic recovery:
//
//   - RequestID() accepts a well-formed incoming X-Request-ID or mints a
//     UUIDv4, and echoes it on the response.
//   - Logger() writes one structured line per request and attaches a
//     request-scoped zerolog.Logger (request_id, plus trace_id and span_id
//     under an active span) to both the Gin context and the request context,
//     so services can log through log.Ctx(ctx).
//   - Recovery() turns panics into the standard JSON 500 envelope.
//
// Recommended order: RequestID, Logger (or RedactingLogger), Recovery.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/trainflow-backend/internal/observability"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = "requestID"
	// requestIDHeader is the HTTP header used to propagate the correlation ID.
	requestIDHeader = "X-Request-ID"
	// loggerKey holds the request-scoped *zerolog.Logger.
	loggerKey = "logger"

	maxQueryLogLength = 2048
	maxRequestIDLen   = 128
)

// RequestID attaches (or propagates) a correlation identifier per request.
// Incoming IDs longer than 128 bytes or containing anything but letters,
// digits and ".-_:" are replaced so they cannot forge log fields.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !validRequestID(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger writes a structured access log for each request.
//
// Level follows the outcome: error for 5xx or when handlers recorded gin
// errors, warn for 4xx, info otherwise. Alongside the usual request fields
// the line carries the authenticated user, whether an idempotent replay was
// served and whether the rate limiter rejected the call.
func Logger() gin.HandlerFunc {
	return accessLog(nil)
}

// accessLog is the shared core of Logger and RedactingLogger. A nil scrubber
// logs the query verbatim (truncated) plus the user agent; otherwise query
// and headers pass through s.
func accessLog(s *scrubber) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		query := truncate(c.Request.URL.RawQuery, maxQueryLogLength)
		if s != nil {
			query = s.text(query)
		}

		lc := log.With().Str("request_id", requestIDOf(c))
		if traceID, spanID := observability.TraceIDs(c.Request.Context()); traceID != "" {
			lc = lc.Str("trace_id", traceID).Str("span_id", spanID)
		}
		l := lc.Logger()
		c.Set(loggerKey, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case len(c.Errors) > 0 || status >= http.StatusInternalServerError:
			ev = l.Error()
		case status >= http.StatusBadRequest:
			ev = l.Warn()
		default:
			ev = l.Info()
		}

		ev = ev.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Str("remote_ip", c.ClientIP()).
			Int64("bytes_in", c.Request.ContentLength).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(start))

		if uid := UserID(c); uid != "" {
			ev = ev.Str("user_id", uid)
		}
		if c.Writer.Header().Get(HeaderIdempotencyReplayed) == "true" {
			ev = ev.Bool("replayed", true)
		}
		if status == http.StatusTooManyRequests {
			ev = ev.Bool("rate_limited", true)
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		if s != nil {
			ev = ev.Interface("headers", s.headers(c.Request.Header))
		} else {
			ev = ev.Str("user_agent", c.Request.UserAgent())
		}
		ev.Msg("request")
	}
}

// Recovery intercepts panics, logs the stack and, when nothing has been
// written yet, answers with the standard internal_error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid := requestIDOf(c)
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", rid).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, rid)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": rid,
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger, or a plain logger
// without request fields when none was attached.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// requestIDOf prefers the ID set by RequestID, then the response header
// written by an upstream proxy layer, then the raw request header.
func requestIDOf(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s := asString(v); s != "" {
			return s
		}
	}
	if rid := c.Writer.Header().Get(requestIDHeader); rid != "" {
		return rid
	}
	return c.GetHeader(requestIDHeader)
}

func validRequestID(s string) bool {
	if s == "" || len(s) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}
	return true
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate caps s at max bytes plus an ellipsis; max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
