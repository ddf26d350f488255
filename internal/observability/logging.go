package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/trainflow-backend/internal/config"
	"github.com/tbourn/trainflow-backend/internal/sysutil"
)

// SetupLogging applies the configured level, builds the process logger
// (console output when LOG_PRETTY is set, JSON otherwise) and installs it as
// the zerolog global. A nil w writes to stderr.
func SetupLogging(cfg config.Config, w io.Writer, svc ServiceInfo) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	sysutil.SetLogLevel(cfg.LogLevel)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := w
	if cfg.LogPretty {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	l := zerolog.New(out).With().
		Timestamp().
		Str("service", sysutil.FirstNonEmpty(svc.Name, cfg.OTEL.ServiceName)).
		Str("version", svc.Version).
		Logger()

	log.Logger = l
	return l
}
