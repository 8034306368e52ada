// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/samber/oops"
)

// CookieName is the name of the signed browser cookie.
const CookieName = "liftlog"

// Flash categories.
const (
	FlashError   = "error"
	FlashInfo    = "info"
	FlashSuccess = "success"
)

const tokenKey = "token"

// MinSecretBytes is the shortest accepted cookie signing secret.
const MinSecretBytes = 32

// Flashes are the one-time messages read from the cookie for one page.
type Flashes struct {
	Error   []string
	Info    []string
	Success []string
}

// Empty reports whether there is nothing to show.
func (f Flashes) Empty() bool {
	return len(f.Error) == 0 && len(f.Info) == 0 && len(f.Success) == 0
}

// cookieJar wraps the gorilla cookie store holding the session token and
// flash messages.
type cookieJar struct {
	store *sessions.CookieStore
}

func newCookieJar(secret []byte, secure bool, maxAge time.Duration) (*cookieJar, error) {
	if len(secret) < MinSecretBytes {
		return nil, oops.Code("WEB_INVALID_SECRET").
			With("length", len(secret)).
			Errorf("session secret must be at least %d bytes", MinSecretBytes)
	}

	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(int(maxAge.Seconds()))
	return &cookieJar{store: store}, nil
}

// session returns the request's cookie session. A cookie that fails
// verification is replaced by an empty session.
func (j *cookieJar) session(r *http.Request) *sessions.Session {
	s, err := j.store.Get(r, CookieName)
	if err != nil {
		// Get still returns a fresh session alongside a decode error.
		s.Values = make(map[any]any)
	}
	return s
}

func (j *cookieJar) token(r *http.Request) string {
	token, _ := j.session(r).Values[tokenKey].(string)
	return token
}

func (j *cookieJar) setToken(w http.ResponseWriter, r *http.Request, token string) error {
	s := j.session(r)
	s.Values[tokenKey] = token
	return s.Save(r, w)
}

func (j *cookieJar) clearToken(w http.ResponseWriter, r *http.Request) error {
	s := j.session(r)
	delete(s.Values, tokenKey)
	return s.Save(r, w)
}

// flash queues messages of one category for the next rendered page.
func (j *cookieJar) flash(w http.ResponseWriter, r *http.Request, kind string, msgs ...string) error {
	s := j.session(r)
	for _, msg := range msgs {
		s.AddFlash(msg, kind)
	}
	return s.Save(r, w)
}

// flashes drains every queued message. The cookie is rewritten only when
// something was read.
func (j *cookieJar) flashes(w http.ResponseWriter, r *http.Request) (Flashes, error) {
	s := j.session(r)
	out := Flashes{
		Error:   flashStrings(s.Flashes(FlashError)),
		Info:    flashStrings(s.Flashes(FlashInfo)),
		Success: flashStrings(s.Flashes(FlashSuccess)),
	}
	if out.Empty() {
		return out, nil
	}
	return out, s.Save(r, w)
}

func flashStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if msg, ok := v.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}
