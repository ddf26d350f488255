// Package handlers implements the TrainFlow HTTP endpoints.
//
// Every failure is answered with ErrorResponse and a stable code from
// errors.go. Success bodies wrap their payload in a named field, e.g.
//
//	HTTP/1.1 200 OK
//	{ "preferences": { "goal": "muscle-gain", "preferred_duration": 30, ... } }
//
//	HTTP/1.1 404 Not Found
//	{ "request_id": "123e4567-e89b-12d3-a456-426614174000", "code": "not_found", "message": "workout not found" }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/trainflow-backend/internal/http/middleware"
	"github.com/tbourn/trainflow-backend/internal/utils"
)

// ErrorResponse is the error envelope returned by all endpoints.
type ErrorResponse struct {
	// Echo of X-Request-ID for correlating client reports with server logs
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"workout not found"`
}

// Pagination carries paging metadata for the chat log.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := utils.TotalPages(total, pageSize)
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// fail aborts with an ErrorResponse. Server errors are also logged through
// the request-scoped logger; client errors only show up in the access log.
func fail(c *gin.Context, status int, code, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("user_id", middleware.UserID(c)).
			Str("route", c.FullPath()).
			Msg(msg)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	})
}

// Fail is fail for callers outside the package, such as the router's
// NoRoute and NoMethod fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
