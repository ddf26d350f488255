package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxUserID is the Gin context key holding the authenticated user id.
const CtxUserID = "userID"

// HeaderUserID is the development identity header honored when
// AuthOptions.AllowDevHeader is set.
const HeaderUserID = "X-User-ID"

// TokenParser resolves a bearer token to a user id.
type TokenParser interface {
	Parse(token string) (userID string, err error)
}

// AuthOptions configures RequireUser.
type AuthOptions struct {
	// AllowDevHeader accepts X-User-ID without a token. Never enable in release.
	AllowDevHeader bool
}

// UserID returns the authenticated user id, or "" when none was attached.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(CtxUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RequireUser authenticates the request from "Authorization: Bearer <jwt>"
// and stores the subject under CtxUserID. Requests without a valid session
// are rejected with 401 and the standard error envelope.
func RequireUser(tokens TokenParser, opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := bearerToken(c.GetHeader("Authorization")); ok && tokens != nil {
			uid, err := tokens.Parse(tok)
			if err == nil && uid != "" {
				c.Set(CtxUserID, uid)
				c.Next()
				return
			}
			unauthorized(c, "invalid or expired token")
			return
		}

		if opts.AllowDevHeader {
			if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
				c.Set(CtxUserID, uid)
				c.Next()
				return
			}
		}

		unauthorized(c, "authentication required")
	}
}

func bearerToken(h string) (string, bool) {
	scheme, tok, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="trainflow"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
