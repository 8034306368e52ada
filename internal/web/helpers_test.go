// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/internal/auth"
	"github.com/liftlog/liftlog/internal/observability"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testPassword = "correct-horse"
)

// testEnv runs the router behind a real listener with a cookie-keeping
// client that does not follow redirects.
type testEnv struct {
	auth     *mockAuthenticator
	sessions *mockSessionManager
	workouts *mockWorkoutService
	metrics  *observability.Metrics
	server   *httptest.Server
	client   *http.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		auth:     new(mockAuthenticator),
		sessions: new(mockSessionManager),
		workouts: new(mockWorkoutService),
		metrics:  observability.NewMetrics(prometheus.NewRegistry()),
	}
	h, err := New(Options{SessionSecret: []byte(testSecret), CookieMaxAge: time.Hour}, Deps{
		Auth:     env.auth,
		Sessions: env.sessions,
		Workouts: env.workouts,
		Metrics:  env.metrics,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	env.server = httptest.NewServer(h.Routes())
	t.Cleanup(env.server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	env.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return env
}

func (e *testEnv) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := e.client.Get(e.server.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := e.client.PostForm(e.server.URL+path, form)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// follow GETs the redirect target of resp and returns the rendered body.
func (e *testEnv) follow(t *testing.T, resp *http.Response) string {
	t.Helper()
	require.Equal(t, http.StatusFound, resp.StatusCode)
	return readBody(t, e.get(t, resp.Header.Get("Location")))
}

// loginAs signs user in through the login form and keeps the session
// resolvable for the rest of the test.
func (e *testEnv) loginAs(t *testing.T, user *auth.User) {
	t.Helper()
	token := "token-" + user.Username
	e.auth.On("Authenticate", mock.Anything, user.Username, testPassword).Return(user, nil).Once()
	e.sessions.On("Login", mock.Anything, user, mock.Anything, "127.0.0.1").Return(token, nil).Once()
	e.sessions.On("CurrentUser", mock.Anything, token).Return(user, nil)

	resp := e.post(t, "/user/login", url.Values{"username": {user.Username}, "password": {testPassword}})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func newUser(t *testing.T, username string) *auth.User {
	t.Helper()
	user, err := auth.NewUser(username, username+"@example.com", "$2a$04$digest", true)
	require.NoError(t, err)
	return user
}

func location(resp *http.Response) string {
	return resp.Header.Get("Location")
}

func containsInOrder(body string, parts ...string) bool {
	for _, part := range parts {
		i := strings.Index(body, part)
		if i < 0 {
			return false
		}
		body = body[i+len(part):]
	}
	return true
}
