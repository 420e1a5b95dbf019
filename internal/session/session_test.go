// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoria-app/savoria/internal/platform/constants"
	"github.com/savoria-app/savoria/internal/platform/sec"
	"github.com/savoria-app/savoria/internal/session"
)

func newTestManager(t *testing.T, ttl time.Duration) *session.Manager {
	t.Helper()
	codec, err := sec.NewCodec("session-test-secret", "savoria.test", ttl)
	require.NoError(t, err)
	return session.NewManager(codec, "")
}

// sessionCookie extracts the session cookie from a recorded response.
func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("response carries no %q cookie", constants.SessionCookieName)
	return nil
}

/*
TestManager_Establish verifies the cookie's full attribute set: http-only,
secure, same-site lax, root path, and a max-age bounded by the token TTL.
*/
func TestManager_Establish(t *testing.T) {
	manager := newTestManager(t, 7*24*time.Hour)
	recorder := httptest.NewRecorder()

	err := manager.Establish(recorder, "user-1", "maria@example.com", sec.RoleUser)
	require.NoError(t, err)

	cookie := sessionCookie(t, recorder)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Empty(t, cookie.Domain)
	assert.True(t, cookie.HttpOnly, "cookie must be script-inaccessible")
	assert.True(t, cookie.Secure, "cookie must require secure transport")
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, int((7 * 24 * time.Hour).Seconds()), cookie.MaxAge)
}

/*
TestManager_ReadState covers the three-way outcome the access gate depends
on: absent, valid, and invalid cookies.
*/
func TestManager_ReadState(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	t.Run("absent", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)

		claims, state := manager.ReadState(request)
		assert.Nil(t, claims)
		assert.Equal(t, session.StateAbsent, state)
	})

	t.Run("valid", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		require.NoError(t, manager.Establish(recorder, "user-1", "maria@example.com", sec.RoleAdmin))

		request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		request.AddCookie(sessionCookie(t, recorder))

		claims, state := manager.ReadState(request)
		require.NotNil(t, claims)
		assert.Equal(t, session.StateValid, state)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "maria@example.com", claims.Email)
		assert.Equal(t, sec.RoleAdmin, claims.Role)
	})

	t.Run("invalid", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "not-a-real-token"})

		claims, state := manager.ReadState(request)
		assert.Nil(t, claims)
		assert.Equal(t, session.StateInvalid, state)
	})

	t.Run("expired", func(t *testing.T) {
		expiring := newTestManager(t, time.Nanosecond)
		recorder := httptest.NewRecorder()
		require.NoError(t, expiring.Establish(recorder, "user-1", "maria@example.com", sec.RoleUser))

		request := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		request.AddCookie(sessionCookie(t, recorder))

		claims, state := expiring.ReadState(request)
		assert.Nil(t, claims)
		assert.Equal(t, session.StateInvalid, state)
	})
}

/*
TestManager_Refresh verifies that a valid session gets a fresh cookie with
the same identity, and an invalid/absent one is refused.
*/
func TestManager_Refresh(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	t.Run("valid_session_rotates", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		require.NoError(t, manager.Establish(recorder, "user-1", "maria@example.com", sec.RoleUser))

		request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		request.AddCookie(sessionCookie(t, recorder))

		refreshRecorder := httptest.NewRecorder()
		claims, err := manager.Refresh(refreshRecorder, request)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)

		rotated := sessionCookie(t, refreshRecorder)
		assert.NotEmpty(t, rotated.Value)
		assert.Positive(t, rotated.MaxAge)
	})

	t.Run("absent_session_refused", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)

		recorder := httptest.NewRecorder()
		claims, err := manager.Refresh(recorder, request)
		assert.Nil(t, claims)
		assert.Error(t, err)
		assert.Empty(t, recorder.Result().Cookies(), "a refused refresh must not write a cookie")
	})

	t.Run("invalid_session_refused", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "garbage"})

		recorder := httptest.NewRecorder()
		claims, err := manager.Refresh(recorder, request)
		assert.Nil(t, claims)
		assert.Error(t, err)
	})
}

/*
TestManager_Destroy verifies idempotent logout: the deletion cookie is
written every time, and a destroyed session reads as absent.
*/
func TestManager_Destroy(t *testing.T) {
	manager := newTestManager(t, time.Hour)

	// 1. Destroy writes a deletion cookie
	recorder := httptest.NewRecorder()
	manager.Destroy(recorder)

	deleted := sessionCookie(t, recorder)
	assert.Empty(t, deleted.Value)
	assert.Negative(t, deleted.MaxAge)

	// 2. Destroying again behaves identically
	again := httptest.NewRecorder()
	manager.Destroy(again)
	assert.Negative(t, sessionCookie(t, again).MaxAge)

	// 3. A request without the cookie reads as anonymous
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, manager.Read(request))
}
