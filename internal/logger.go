package internal

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SetupLogger configures the global zerolog logger.
//
// LOG_FORMAT selects "human" (default) or "json" output. LOG_LEVEL sets the
// level and defaults to warn so that diagnostics do not mix with reports.
func SetupLogger(w io.Writer) {
	output := w
	if format, ok := os.LookupEnv("LOG_FORMAT"); !ok || format == "human" {
		output = zerolog.ConsoleWriter{Out: w}
	}

	level := zerolog.WarnLevel
	if s, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil {
			level = parsed
		}
	}

	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(output).With().Timestamp().Logger()
}
