package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel is the level name as written in configuration.
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

var levels = map[LogLevel]zerolog.Level{
	DebugLevel: zerolog.DebugLevel,
	InfoLevel:  zerolog.InfoLevel,
	WarnLevel:  zerolog.WarnLevel,
	ErrorLevel: zerolog.ErrorLevel,
}

// Config controls Configure.
type Config struct {
	Level LogLevel
	// Pretty selects zerolog's console writer over JSON lines.
	Pretty bool
	Output io.Writer // nil means stdout
}

var base zerolog.Logger

// ParseLevel normalizes s; unknown names become InfoLevel.
func ParseLevel(s string) LogLevel {
	l := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levels[l]; ok {
		return l
	}
	return InfoLevel
}

// Configure replaces the package logger (and zerolog's log.Logger) and
// returns it for injection into components.
func Configure(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(levels[ParseLevel(string(cfg.Level))])

	base = zerolog.New(out).With().Timestamp().Logger()
	log.Logger = base
	return base
}

// Info starts an info event on the package logger.
func Info() *zerolog.Event {
	return base.Info()
}

// Warn starts a warning event on the package logger.
func Warn() *zerolog.Event {
	return base.Warn()
}

// Error starts an error event on the package logger.
func Error() *zerolog.Event {
	return base.Error()
}

func init() {
	Configure(Config{Level: InfoLevel, Pretty: true})
}
