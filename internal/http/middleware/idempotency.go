package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// Idempotency headers. Clients send the key on POST /workouts and POST /chat;
// a response rebuilt from a stored result carries the replay marker.
const (
	HeaderIdempotencyKey      = "Idempotency-Key"
	HeaderIdempotencyReplayed = "Idempotency-Replayed"
)

const (
	ctxKeyIdem       = "idem"
	ctxKeyRateBypass = "rate.bypass"

	defaultIdemMaxLen = 200
)

var defaultIdemPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// idemState is what the validator leaves on the context for handlers.
type idemState struct {
	key    string
	replay bool
}

func idemFrom(c *gin.Context) idemState {
	v, _ := c.Get(ctxKeyIdem)
	st, _ := v.(idemState)
	return st
}

// GetIdempotencyKey returns the validated key, if the request carried one.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	st := idemFrom(c)
	return st.key, st.key != ""
}

// IsReplay reports whether a stored result exists for this request's key.
func IsReplay(c *gin.Context) bool {
	return idemFrom(c).replay
}

// IdempotencyScope names the endpoint a key belongs to, e.g.
// "POST /api/v1/workouts", so one key may be reused across endpoints.
// Unmatched routes fall back to the raw path.
func IdempotencyScope(c *gin.Context) string {
	if c.Request == nil {
		return ""
	}
	p := c.FullPath()
	if p == "" && c.Request.URL != nil {
		p = c.Request.URL.Path
	}
	return c.Request.Method + " " + p
}

// IdempotencyOptions configures IdempotencyValidator.
type IdempotencyOptions struct {
	MaxLen  int            // <= 0 means 200
	Pattern *regexp.Regexp // nil means ^[A-Za-z0-9._~\-:]+$
	Now     func() time.Time
}

// IdempotencyLookup answers whether a live result exists for
// (userID, scope, key) at now.
type IdempotencyLookup func(ctx context.Context, userID, scope, key string, now time.Time) (exists bool, err error)

// IdempotencyValidator checks the Idempotency-Key header on POST requests and
// records the key for the handler. When lookup finds a stored result the
// request is flagged as a replay and skips rate limiting. It runs after
// RequireUser; keys are per user. The handler serves the stored result.
func IdempotencyValidator(opts IdempotencyOptions, lookup IdempotencyLookup) gin.HandlerFunc {
	if opts.MaxLen <= 0 {
		opts.MaxLen = defaultIdemMaxLen
	}
	if opts.Pattern == nil {
		opts.Pattern = defaultIdemPattern
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}
		if len(key) > opts.MaxLen || !opts.Pattern.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}

		st := idemState{key: key}
		if uid := UserID(c); lookup != nil && uid != "" {
			exists, err := lookup(c.Request.Context(), uid, IdempotencyScope(c), key, opts.Now().UTC())
			if err != nil {
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			}
			st.replay = exists && err == nil
		}
		c.Set(ctxKeyIdem, st)
		if st.replay {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	}
}
