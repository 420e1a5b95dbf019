// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package guard_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoria-app/savoria/internal/guard"
	"github.com/savoria-app/savoria/internal/identity"
	"github.com/savoria-app/savoria/internal/platform/apperr"
	"github.com/savoria-app/savoria/internal/platform/constants"
	"github.com/savoria-app/savoria/internal/platform/sec"
	"github.com/savoria-app/savoria/internal/session"
)

// fakeUserFinder serves user rows from a map, standing in for the postgres
// repository.
type fakeUserFinder struct {
	users map[string]*identity.User
}

func (finder *fakeUserFinder) FindByID(_ context.Context, id string) (*identity.User, error) {
	user, ok := finder.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

type guardFixture struct {
	manager *session.Manager
	finder  *fakeUserFinder
	guard   *guard.Guard
}

func newGuardFixture(t *testing.T) *guardFixture {
	t.Helper()

	codec, err := sec.NewCodec("guard-test-secret", "savoria.test", time.Hour)
	require.NoError(t, err)

	manager := session.NewManager(codec, "")
	finder := &fakeUserFinder{users: map[string]*identity.User{}}

	return &guardFixture{
		manager: manager,
		finder:  finder,
		guard:   guard.New(manager, finder),
	}
}

// authenticatedRequest builds a request carrying a freshly signed session
// cookie for the given identity claims.
func (fixture *guardFixture) authenticatedRequest(t *testing.T, userID string, claimedRole sec.UserRole) *http.Request {
	t.Helper()

	recorder := httptest.NewRecorder()
	require.NoError(t, fixture.manager.Establish(recorder, userID, userID+"@example.com", claimedRole))

	request := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			request.AddCookie(cookie)
		}
	}
	return request
}

func httpStatusOf(t *testing.T, err error) int {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	return appError.HTTPStatus
}

/*
TestGuard_RequireUser covers the identity re-derivation contract: a valid
token resolves to the fresh row; missing cookies, bad tokens, and deleted
accounts all collapse into Unauthorized.
*/
func TestGuard_RequireUser(t *testing.T) {
	t.Run("valid_session_returns_fresh_row", func(t *testing.T) {
		fixture := newGuardFixture(t)
		fixture.finder.users["user-1"] = &identity.User{ID: "user-1", Role: sec.RoleUser}

		user, err := fixture.guard.RequireUser(fixture.authenticatedRequest(t, "user-1", sec.RoleUser))
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("no_cookie_is_unauthorized", func(t *testing.T) {
		fixture := newGuardFixture(t)

		user, err := fixture.guard.RequireUser(httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
		assert.Nil(t, user)
		assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))
	})

	t.Run("bad_token_is_unauthorized", func(t *testing.T) {
		fixture := newGuardFixture(t)

		request := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "forged"})

		user, err := fixture.guard.RequireUser(request)
		assert.Nil(t, user)
		assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))
	})

	t.Run("deleted_account_is_unauthorized_not_a_crash", func(t *testing.T) {
		fixture := newGuardFixture(t)
		// Token is valid, but no row exists for the user anymore.

		user, err := fixture.guard.RequireUser(fixture.authenticatedRequest(t, "ghost", sec.RoleUser))
		assert.Nil(t, user)
		assert.Equal(t, http.StatusUnauthorized, httpStatusOf(t, err))
	})
}

/*
TestGuard_RequireAdmin verifies that the role check reads storage, not the
token: a stale ADMIN claim is overruled by the demoted row immediately.
*/
func TestGuard_RequireAdmin(t *testing.T) {
	t.Run("admin_row_passes", func(t *testing.T) {
		fixture := newGuardFixture(t)
		fixture.finder.users["admin-1"] = &identity.User{ID: "admin-1", Role: sec.RoleAdmin}

		user, err := fixture.guard.RequireAdmin(fixture.authenticatedRequest(t, "admin-1", sec.RoleAdmin))
		require.NoError(t, err)
		assert.True(t, user.Role.IsAdmin())
	})

	t.Run("regular_user_is_forbidden", func(t *testing.T) {
		fixture := newGuardFixture(t)
		fixture.finder.users["user-1"] = &identity.User{ID: "user-1", Role: sec.RoleUser}

		user, err := fixture.guard.RequireAdmin(fixture.authenticatedRequest(t, "user-1", sec.RoleUser))
		assert.Nil(t, user)
		assert.Equal(t, http.StatusForbidden, httpStatusOf(t, err))
	})

	t.Run("stale_admin_claim_is_overruled_by_fresh_role", func(t *testing.T) {
		fixture := newGuardFixture(t)
		// The token still says ADMIN, but the account was demoted since issue.
		fixture.finder.users["demoted"] = &identity.User{ID: "demoted", Role: sec.RoleUser}

		user, err := fixture.guard.RequireAdmin(fixture.authenticatedRequest(t, "demoted", sec.RoleAdmin))
		assert.Nil(t, user)
		assert.Equal(t, http.StatusForbidden, httpStatusOf(t, err))
	})
}

/*
TestGuard_RequireSelf verifies ownership checks for user-scoped resources.
*/
func TestGuard_RequireSelf(t *testing.T) {
	fixture := newGuardFixture(t)
	fixture.finder.users["user-1"] = &identity.User{ID: "user-1", Role: sec.RoleUser}

	t.Run("owner_passes", func(t *testing.T) {
		user, err := fixture.guard.RequireSelf(fixture.authenticatedRequest(t, "user-1", sec.RoleUser), "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
	})

	t.Run("other_users_resource_is_forbidden", func(t *testing.T) {
		user, err := fixture.guard.RequireSelf(fixture.authenticatedRequest(t, "user-1", sec.RoleUser), "user-2")
		assert.Nil(t, user)
		assert.Equal(t, http.StatusForbidden, httpStatusOf(t, err))
	})
}
