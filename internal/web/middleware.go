// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/liftlog/liftlog/internal/auth"
	"github.com/liftlog/liftlog/pkg/errutil"
)

// MsgLoginRequired is flashed when a signed-out visitor opens a page that
// needs a session.
const MsgLoginRequired = "You must be logged in to view this page."

type ctxKey int

const userKey ctxKey = iota

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *auth.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the signed-in user, or nil.
func UserFromContext(ctx context.Context) *auth.User {
	user, _ := ctx.Value(userKey).(*auth.User)
	return user
}

// instrument logs every request and records it in the HTTP metrics. The
// route label is the chi pattern so ids do not explode label cardinality.
func (h *Handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		if h.metrics != nil {
			h.metrics.ObserveRequest(r.Method, route, status, elapsed)
		}
		h.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// loadUser resolves the cookie's session token to a user and stores it in
// the request context. A token that no longer maps to a live session is
// dropped from the cookie.
func (h *Handler) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.cookies.token(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := h.sessions.CurrentUser(r.Context(), token)
		switch {
		case err == nil:
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		case errors.Is(err, auth.ErrNoSession):
			if err := h.cookies.clearToken(w, r); err != nil {
				h.logger.WarnContext(r.Context(), "failed to clear stale session cookie", "error", err)
			}
			next.ServeHTTP(w, r)
		default:
			h.serverError(w, r, "resolve session", err)
		}
	})
}

// requireUser redirects signed-out visitors to the login page.
func (h *Handler) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			h.redirectWithFlash(w, r, "/", FlashError, MsgLoginRequired)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// redirectWithFlash queues msgs and answers 302 to target.
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, kind string, msgs ...string) {
	if err := h.cookies.flash(w, r, kind, msgs...); err != nil {
		h.logger.WarnContext(r.Context(), "failed to store flash messages", "error", err)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// serverError logs err and answers 500 without exposing it.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	errutil.LogError(r.Context(), h.logger, "request failed: "+operation, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
