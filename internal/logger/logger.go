package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. Development gets a human readable
// console writer, every other environment logs JSON lines to stdout.
func Init(environment, level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsed)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stdout
	if environment == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Str("service", "news-cms").Logger()
}
