// SPDX-License-Identifier: Apache-2.0

// Package errutil provides helpers for logging and asserting structured errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// Attrs extracts slog attributes from err. Structured oops errors
// contribute their code and context; other errors only the message.
func Attrs(err error) []any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err}
	}
	attrs := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != "" {
		attrs = append(attrs, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		attrs = append(attrs, "context", ctx)
	}
	return attrs
}

// LogError logs an error with structured context on logger.
func LogError(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, Attrs(err)...)
}

// LogWarning logs an error as a warning with structured context on logger.
func LogWarning(logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, Attrs(err)...)
}
