package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Level is the verbosity threshold used by the logger.
//
// Lower values are more verbose.
type Level int32

const (
	// LevelTrace enables extremely verbose logs (wire messages, event routing, etc).
	LevelTrace Level = iota
	// LevelDebug enables verbose logs intended for debugging.
	LevelDebug
	// LevelInfo enables informational logs (default).
	LevelInfo
	// LevelWarn enables only warnings and errors.
	LevelWarn
	// LevelError enables only error logs.
	LevelError
)

var (
	mu       sync.Mutex
	std      = log.New(os.Stderr, "", log.LstdFlags)
	levelVar atomic.Int32
)

func init() {
	levelVar.Store(int32(LevelInfo))
}

// ParseLevel parses a log level string into a Level.
func ParseLevel(raw string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
}

// SetOutput replaces the writer used by the global logger.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

// SetFlags sets the underlying log flags used for all output.
func SetFlags(flags int) {
	mu.Lock()
	defer mu.Unlock()
	std.SetFlags(flags)
}

// SetLevel sets the global log level threshold.
func SetLevel(level Level) {
	levelVar.Store(int32(level))
}

// Enabled reports whether a level would be emitted by the current configuration.
func Enabled(level Level) bool {
	return level >= Level(levelVar.Load())
}

func logf(level Level, tag string, format string, args ...any) {
	if !Enabled(level) {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	std.Printf(tag+" "+format, args...)
}

// Tracef logs at TRACE level.
func Tracef(format string, args ...any) {
	logf(LevelTrace, "TRC", format, args...)
}

// Debugf logs at DEBUG level.
func Debugf(format string, args ...any) {
	logf(LevelDebug, "DBG", format, args...)
}

// Infof logs at INFO level.
func Infof(format string, args ...any) {
	logf(LevelInfo, "INF", format, args...)
}

// Warnf logs at WARN level.
func Warnf(format string, args ...any) {
	logf(LevelWarn, "WRN", format, args...)
}

// Errorf logs at ERROR level.
func Errorf(format string, args ...any) {
	logf(LevelError, "ERR", format, args...)
}
