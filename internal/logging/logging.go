package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global zerolog logger. Format is "json" or "console";
// anything else falls back to console. Unknown levels fall back to info.
func Setup(level, format string) {
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Component returns a logger tagged with a component name, e.g. "github" or
// "prcontext". All packages log through these instead of the bare global.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
