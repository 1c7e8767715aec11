// Package model defines the payload types delivered to listeners:
// log messages and their severity levels.
package model

import (
	"strings"

	"github.com/samber/oops"
)

// Level is a log message severity. Higher values are more severe.
type Level int

// Severity levels, ordered from least to most severe.
const (
	LevelTrace Level = -8
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
	LevelFail  Level = 12
	LevelSkip  Level = 16
	LevelNone  Level = 20
)

var levelNames = map[Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFail:  "FAIL",
	LevelSkip:  "SKIP",
	LevelNone:  "NONE",
}

// String returns the canonical upper-case level name.
// Unrecognized levels return "UNKNOWN".
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel parses a level name case-insensitively.
func ParseLevel(name string) (Level, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for level, n := range levelNames {
		if n == upper {
			return level, nil
		}
	}
	return LevelNone, oops.
		Code("LOG_LEVEL_INVALID").
		With("level", name).
		Errorf("invalid log level %q", name)
}
