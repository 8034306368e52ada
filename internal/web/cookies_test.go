// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LiftLog Contributors

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftlog/liftlog/pkg/errutil"
)

// carry builds a new request holding the last liftlog cookie set on rec.
func carry(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	var last *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			last = c
		}
	}
	require.NotNil(t, last, "response should set the %s cookie", CookieName)
	req.AddCookie(last)
	return req
}

func TestCookieJar_Options(t *testing.T) {
	jar, err := newCookieJar([]byte(testSecret), true, 2*time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, jar.setToken(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok"))

	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, CookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7200, cookie.MaxAge)
	assert.NotContains(t, cookie.Value, "tok")
}

func TestCookieJar_ShortSecret(t *testing.T) {
	_, err := newCookieJar([]byte("too-short"), false, time.Hour)
	errutil.AssertErrorCode(t, err, "WEB_INVALID_SECRET")
}

func TestCookieJar_Token(t *testing.T) {
	jar, err := newCookieJar([]byte(testSecret), false, time.Hour)
	require.NoError(t, err)

	assert.Empty(t, jar.token(httptest.NewRequest(http.MethodGet, "/", nil)))

	rec := httptest.NewRecorder()
	require.NoError(t, jar.setToken(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok"))
	req := carry(t, rec)
	assert.Equal(t, "tok", jar.token(req))

	rec = httptest.NewRecorder()
	require.NoError(t, jar.clearToken(rec, req))
	assert.Empty(t, jar.token(carry(t, rec)))
}

func TestCookieJar_OtherSecretRejected(t *testing.T) {
	jar, err := newCookieJar([]byte(testSecret), false, time.Hour)
	require.NoError(t, err)
	other, err := newCookieJar([]byte("fedcba9876543210fedcba9876543210"), false, time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, other.setToken(rec, httptest.NewRequest(http.MethodGet, "/", nil), "tok"))
	assert.Empty(t, jar.token(carry(t, rec)))
}

func TestCookieJar_Flashes(t *testing.T) {
	jar, err := newCookieJar([]byte(testSecret), false, time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, jar.flash(rec, req, FlashError, "first", "second"))
	require.NoError(t, jar.flash(rec, req, FlashSuccess, "done"))

	req = carry(t, rec)
	rec = httptest.NewRecorder()
	got, err := jar.flashes(rec, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, got.Error)
	assert.Equal(t, []string{"done"}, got.Success)
	assert.Empty(t, got.Info)
	assert.False(t, got.Empty())

	got, err = jar.flashes(httptest.NewRecorder(), carry(t, rec))
	require.NoError(t, err)
	assert.True(t, got.Empty(), "flashes are consumed on read")
}

func TestCookieJar_NoFlashesLeavesCookieAlone(t *testing.T) {
	jar, err := newCookieJar([]byte(testSecret), false, time.Hour)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	got, err := jar.flashes(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.True(t, got.Empty())
	assert.Empty(t, rec.Result().Cookies())
}
