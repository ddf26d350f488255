package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
)

// RedactOptions configures RedactingLogger.
//
// MaskHeaders names extra headers whose values are replaced wholesale with
// "[REDACTED]", on top of Authorization, Cookie, Set-Cookie and X-User-ID.
// Matching is case-insensitive.
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger is Logger with PII scrubbing: the query string and request
// headers are logged, but credentials are masked and emails, phone numbers
// and UUIDs are replaced with placeholders. Bodies are never logged.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	return accessLog(newScrubber(opts.MaskHeaders))
}

var (
	// UUIDs go first so the phone pattern cannot eat their digit groups.
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`)
	// Credentials that can appear in a query string.
	secretParamRE = regexp.MustCompile(`(?i)\b(password|token|access_token)=[^&]*`)
)

type scrubber struct {
	masked map[string]struct{}
}

func newScrubber(extra []string) *scrubber {
	s := &scrubber{masked: map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
		"x-user-id":     {},
	}}
	for _, h := range extra {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			s.masked[h] = struct{}{}
		}
	}
	return s
}

func (s *scrubber) text(v string) string {
	if v == "" {
		return v
	}
	v = secretParamRE.ReplaceAllString(v, "$1=[REDACTED]")
	v = uuidRE.ReplaceAllString(v, "[REDACTED:id]")
	v = emailRE.ReplaceAllString(v, "[REDACTED:email]")
	return phoneRE.ReplaceAllString(v, "[REDACTED:phone]")
}

func (s *scrubber) headers(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, vv := range h {
		if _, ok := s.masked[strings.ToLower(k)]; ok {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = s.text(strings.Join(vv, ", "))
	}
	return out
}
