package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is the verbosity requested on the command line. Levels are ordered:
// each one enables everything the previous one does.
type Level int8

const (
	OffLevel Level = iota
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

// DefaultLevel is used when no verbosity flag is given.
const DefaultLevel = InfoLevel

// ZapTraceLevel sits one step below zap's debug level; zap has no trace level of its own.
const ZapTraceLevel = zapcore.DebugLevel - 1

var levelNames = [...]string{
	OffLevel:   "off",
	ErrorLevel: "error",
	WarnLevel:  "warn",
	InfoLevel:  "info",
	DebugLevel: "debug",
	TraceLevel: "trace",
}

func (l Level) String() string {
	if l < OffLevel || l > TraceLevel {
		return fmt.Sprintf("Level(%d)", int8(l))
	}
	return levelNames[l]
}

// ParseLevel converts a level name to a Level. Matching is case-insensitive
// and "warning" is accepted as an alias for "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "quiet":
		return OffLevel, nil
	case "error":
		return ErrorLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "info":
		return InfoLevel, nil
	case "debug":
		return DebugLevel, nil
	case "trace":
		return TraceLevel, nil
	default:
		return DefaultLevel, fmt.Errorf("invalid log level %q (must be off, error, warn, info, debug, or trace)", s)
	}
}

// Resolve applies repeated -v (verbose) and -q (quiet) flags to base and
// clamps the result to [OffLevel, TraceLevel].
func Resolve(base Level, verbose, quiet int) Level {
	n := int(base) + verbose - quiet
	if n < int(OffLevel) {
		return OffLevel
	}
	if n > int(TraceLevel) {
		return TraceLevel
	}
	return Level(n)
}

// zapLevel maps l onto zap's scale. The boolean is false for OffLevel.
func (l Level) zapLevel() (zapcore.Level, bool) {
	switch l {
	case ErrorLevel:
		return zapcore.ErrorLevel, true
	case WarnLevel:
		return zapcore.WarnLevel, true
	case InfoLevel:
		return zapcore.InfoLevel, true
	case DebugLevel:
		return zapcore.DebugLevel, true
	case TraceLevel:
		return ZapTraceLevel, true
	default:
		return zapcore.InvalidLevel, false
	}
}
