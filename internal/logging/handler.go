// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

// Package logging provides structured logging with OpenTelemetry trace context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/samber/oops"
	"go.opentelemetry.io/otel/trace"
)

// Supported output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// contextHandler stamps every record with the process identity and, when
// the context carries a span, its trace and span IDs.
type contextHandler struct {
	next     slog.Handler
	identity []slog.Attr
}

func newContextHandler(next slog.Handler, service, version string) *contextHandler {
	return &contextHandler{
		next:     next,
		identity: []slog.Attr{slog.String("service", service), slog.String("version", version)},
	}
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(h.identity...)
	sc := trace.SpanContextFromContext(ctx)
	if sc.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", sc.TraceID().String()))
	}
	if sc.HasSpanID() {
		r.AddAttrs(slog.String("span_id", sc.SpanID().String()))
	}
	//nolint:wrapcheck // slog handlers pass errors through untouched
	return h.next.Handle(ctx, r)
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), identity: h.identity}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), identity: h.identity}
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
// An empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, oops.Code("LOG_INVALID_LEVEL").
			With("level", level).
			Errorf("unknown log level %q", level)
	}
}

// Setup builds a logger writing to w (stderr when nil). Text output is used
// only for FormatText; anything else gets JSON.
func Setup(service, version, format string, level slog.Level, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: level}

	var base slog.Handler = slog.NewJSONHandler(w, opts)
	if format == FormatText {
		base = slog.NewTextHandler(w, opts)
	}
	return slog.New(newContextHandler(base, service, version))
}

// SetDefault installs a stderr logger as the slog default and returns it.
func SetDefault(service, version, format string, level slog.Level) *slog.Logger {
	l := Setup(service, version, format, level, nil)
	slog.SetDefault(l)
	return l
}
