// SPDX-License-Identifier: Apache-2.0

// Package logging configures structured logging for the execution engine.
// Every record is stamped with the service identity and, when a span is
// active, the OpenTelemetry trace context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// Options controls how Setup builds the logger.
type Options struct {
	// Service is the value of the "service" attribute on every record.
	Service string
	// Version is the build version recorded on every record.
	Version string
	// Format selects "json" or "text" output. Empty means json.
	Format string
	// Level is the minimum record level. Zero value is slog.LevelInfo.
	Level slog.Leveler
	// Writer receives the output. Nil means os.Stderr.
	Writer io.Writer
}

// engineHandler decorates a slog.Handler with service identity and trace
// correlation attributes.
type engineHandler struct {
	inner   slog.Handler
	service string
	version string
}

func (h *engineHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(
		slog.String("service", h.service),
		slog.String("version", h.version),
	)

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.inner.Handle(ctx, r)
}

func (h *engineHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *engineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &engineHandler{
		inner:   h.inner.WithAttrs(attrs),
		service: h.service,
		version: h.version,
	}
}

func (h *engineHandler) WithGroup(name string) slog.Handler {
	return &engineHandler{
		inner:   h.inner.WithGroup(name),
		service: h.service,
		version: h.version,
	}
}

// Setup builds a logger from opts.
func Setup(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := opts.Level
	if level == nil {
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var base slog.Handler
	if opts.Format == "text" {
		base = slog.NewTextHandler(w, handlerOpts)
	} else {
		base = slog.NewJSONHandler(w, handlerOpts)
	}

	return slog.New(&engineHandler{
		inner:   base,
		service: opts.Service,
		version: opts.Version,
	})
}

// SetDefault installs a logger built from opts as the process default.
func SetDefault(opts Options) {
	slog.SetDefault(Setup(opts))
}
