package logger

import (
	"log/slog"
	"os"
	"sort"
	"sync/atomic"
)

// Structured event logger used across services and commands. Events are
// short snake_case names; details go in the fields map so log lines stay
// machine-parseable.

var base atomic.Pointer[slog.Logger]

func init() {
	base.Store(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
}

// Init configures the process-wide logger from the LOG_LEVEL env var.
func Init() {
	level := slog.LevelInfo
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	base.Store(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}

// SetOutput swaps the underlying slog logger, mainly for tests.
func SetOutput(l *slog.Logger) {
	base.Store(l)
}

func Debug(event string, fields map[string]interface{}) {
	base.Load().Debug(event, attrs(fields)...)
}

func Info(event string, fields map[string]interface{}) {
	base.Load().Info(event, attrs(fields)...)
}

func InfoWithUser(userID string, event string, fields map[string]interface{}) {
	base.Load().Info(event, append([]any{slog.String("user_id", userID)}, attrs(fields)...)...)
}

func Warn(event string, fields map[string]interface{}) {
	base.Load().Warn(event, attrs(fields)...)
}

func Error(event string, err error, fields map[string]interface{}) {
	args := attrs(fields)
	if err != nil {
		args = append(args, slog.String("error", err.Error()))
	}
	base.Load().Error(event, args...)
}

func attrs(fields map[string]interface{}) []any {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]any, 0, len(fields))
	for _, k := range keys {
		args = append(args, slog.Any(k, fields[k]))
	}
	return args
}
