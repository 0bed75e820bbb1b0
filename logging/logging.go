// Package logging builds the zerolog loggers used by the runtime and CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment overrides, applied after Options.
const (
	EnvLevel   = "AIRDROP_LOG_LEVEL"
	EnvNoColor = "AIRDROP_LOG_NOCOLOR"
)

// Options configures New.
type Options struct {
	App     string    // added to every event as "app"
	Level   string    // debug, info, warn or error; empty means info
	Format  string    // console or json; empty means console
	NoColor bool      // console only
	Out     io.Writer // defaults to os.Stderr
}

// ParseLevel maps a config log level to a zerolog level.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return zerolog.InfoLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// New returns a logger for opts and installs it as the zerolog global.
func New(opts Options) (zerolog.Logger, error) {
	if v, ok := os.LookupEnv(EnvLevel); ok && v != "" {
		opts.Level = v
	}
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		opts.NoColor = true
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), err
	}
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	switch strings.ToLower(opts.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: opts.NoColor}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("%w: %q", ErrInvalidFormat, opts.Format)
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.App != "" {
		ctx = ctx.Str("app", opts.App)
	}
	logger := ctx.Logger()
	log.Logger = logger
	return logger, nil
}

// OpenFile opens path for appending log lines.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return f, nil
}
