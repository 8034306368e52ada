// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/samber/oops"

	"github.com/liftlog/liftlog/internal/auth"
	"github.com/liftlog/liftlog/internal/observability"
	"github.com/liftlog/liftlog/internal/validate"
)

// Flash texts for account actions.
const (
	MsgLoggedOut = "You have been logged out."
	msgWelcome   = "Welcome, %s!"
)

func (h *Handler) loginPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, pageLogin, "Log in", nil)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	user, err := h.auth.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		public := oops.GetPublic(err, "")
		if public == "" {
			h.countLogin(observability.ResultError)
			h.serverError(w, r, "authenticate", err)
			return
		}
		if errors.Is(err, auth.ErrMissingCredentials) {
			h.countLogin(observability.ResultInvalid)
		} else {
			h.countLogin(observability.ResultFailure)
		}
		h.redirectWithFlash(w, r, "/", FlashError, public)
		return
	}

	if err := h.startSession(w, r, user); err != nil {
		h.countLogin(observability.ResultError)
		h.serverError(w, r, "start session", err)
		return
	}
	h.countLogin(observability.ResultSuccess)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (h *Handler) registerPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, pageRegister, "Register", nil)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	fields := auth.RegistrationFields{
		Username:             r.PostFormValue("username"),
		Email:                r.PostFormValue("email"),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("password_confirmation"),
		AcceptTerms:          validate.TermsAccepted(r.PostFormValue("terms_accepted")),
	}

	user, err := h.auth.Register(r.Context(), fields)
	if err != nil {
		var verrs *validate.Errors
		if errors.As(err, &verrs) {
			h.countRegistration(observability.ResultInvalid)
			h.redirectWithFlash(w, r, "/user/register", FlashError, verrs.Messages()...)
			return
		}
		h.countRegistration(observability.ResultError)
		h.serverError(w, r, "register", err)
		return
	}
	h.countRegistration(observability.ResultSuccess)

	if err := h.startSession(w, r, user); err != nil {
		h.serverError(w, r, "start session", err)
		return
	}
	h.redirectWithFlash(w, r, "/dashboard", FlashSuccess, fmt.Sprintf(msgWelcome, user.Username))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context(), h.cookies.token(r)); err != nil {
		h.logger.WarnContext(r.Context(), "failed to delete session", "error", err)
	}
	if err := h.cookies.clearToken(w, r); err != nil {
		h.logger.WarnContext(r.Context(), "failed to clear session cookie", "error", err)
	}
	h.redirectWithFlash(w, r, "/", FlashInfo, MsgLoggedOut)
}

// startSession issues a session token for user and stores it in the
// cookie.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *auth.User) error {
	token, err := h.sessions.Login(r.Context(), user, r.UserAgent(), clientIP(r))
	if err != nil {
		return err
	}
	if err := h.cookies.setToken(w, r, token); err != nil {
		return oops.Code("WEB_COOKIE_FAILED").With("operation", "store session token").Wrap(err)
	}
	h.logger.InfoContext(r.Context(), "user logged in", "user_id", user.ID.String())
	return nil
}

func (h *Handler) countLogin(result string) {
	if h.metrics != nil {
		h.metrics.LoginAttemptsTotal.WithLabelValues(result).Inc()
	}
}

func (h *Handler) countRegistration(result string) {
	if h.metrics != nil {
		h.metrics.RegistrationsTotal.WithLabelValues(result).Inc()
	}
}

// clientIP strips the port from RemoteAddr. RealIP has already replaced
// it with the forwarded address when one was sent.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
