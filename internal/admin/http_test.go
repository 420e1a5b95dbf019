// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package admin_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoria-app/savoria/internal/admin"
	"github.com/savoria-app/savoria/internal/guard"
	"github.com/savoria-app/savoria/internal/identity"
	"github.com/savoria-app/savoria/internal/platform/apperr"
	"github.com/savoria-app/savoria/internal/platform/constants"
	"github.com/savoria-app/savoria/internal/platform/sec"
	"github.com/savoria-app/savoria/internal/session"
	"github.com/savoria-app/savoria/internal/subscription"
)

// stubUserRepository serves a fixed set of accounts for listing tests.
type stubUserRepository struct {
	users map[string]*identity.User
}

func (repo *stubUserRepository) FindByID(_ context.Context, id string) (*identity.User, error) {
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (repo *stubUserRepository) FindByEmail(_ context.Context, _ string) (*identity.User, error) {
	return nil, apperr.NotFound("User")
}

func (repo *stubUserRepository) Create(_ context.Context, _ *identity.User) error { return nil }

func (repo *stubUserRepository) MarkVerified(_ context.Context, _ string) error { return nil }

func (repo *stubUserRepository) UpdateSubscription(_ context.Context, _ string, _ subscription.Status, _ *time.Time) error {
	return nil
}

func (repo *stubUserRepository) List(_ context.Context, limit, offset int) ([]*identity.User, error) {
	all := make([]*identity.User, 0, len(repo.users))
	for _, user := range repo.users {
		all = append(all, user)
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (repo *stubUserRepository) Count(_ context.Context) (int, error) {
	return len(repo.users), nil
}

type adminFixture struct {
	manager *session.Manager
	repo    *stubUserRepository
	router  http.Handler
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	codec, err := sec.NewCodec("admin-test-secret", "savoria.test", time.Hour)
	require.NoError(t, err)

	manager := session.NewManager(codec, "")
	repo := &stubUserRepository{users: map[string]*identity.User{
		"admin-1": {ID: "admin-1", Email: "root@savoria.app", Role: sec.RoleAdmin},
	}}

	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("user-%02d", i)
		repo.users[id] = &identity.User{ID: id, Role: sec.RoleUser}
	}

	return &adminFixture{
		manager: manager,
		repo:    repo,
		router:  admin.NewHandler(guard.New(manager, repo), repo).Routes(),
	}
}

func (fixture *adminFixture) get(t *testing.T, path, userID string, role sec.UserRole) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, path, nil)
	if userID != "" {
		recorder := httptest.NewRecorder()
		require.NoError(t, fixture.manager.Establish(recorder, userID, userID+"@savoria.app", role))
		for _, cookie := range recorder.Result().Cookies() {
			if cookie.Name == constants.SessionCookieName {
				request.AddCookie(cookie)
			}
		}
	}

	recorder := httptest.NewRecorder()
	fixture.router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAdmin_ListUsers verifies the guarded, paginated account listing.
*/
func TestAdmin_ListUsers(t *testing.T) {
	t.Run("anonymous_is_unauthorized", func(t *testing.T) {
		fixture := newAdminFixture(t)
		recorder := fixture.get(t, "/users", "", "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("regular_user_is_forbidden", func(t *testing.T) {
		fixture := newAdminFixture(t)
		recorder := fixture.get(t, "/users", "user-01", sec.RoleUser)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("admin_gets_a_page_with_meta", func(t *testing.T) {
		fixture := newAdminFixture(t)
		recorder := fixture.get(t, "/users?page=1&limit=10", "admin-1", sec.RoleAdmin)
		require.Equal(t, http.StatusOK, recorder.Code)

		var payload struct {
			Data []json.RawMessage `json:"data"`
			Meta struct {
				Page       int `json:"page"`
				Limit      int `json:"limit"`
				Total      int `json:"total"`
				TotalPages int `json:"total_pages"`
			} `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &payload))

		assert.Len(t, payload.Data, 10)
		assert.Equal(t, 1, payload.Meta.Page)
		assert.Equal(t, 26, payload.Meta.Total)
		assert.Equal(t, 3, payload.Meta.TotalPages)
	})
}

/*
TestAdmin_GetUser verifies single-account detail lookups.
*/
func TestAdmin_GetUser(t *testing.T) {
	fixture := newAdminFixture(t)

	found := fixture.get(t, "/users/user-01", "admin-1", sec.RoleAdmin)
	assert.Equal(t, http.StatusOK, found.Code)

	missing := fixture.get(t, "/users/no-such-user", "admin-1", sec.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	forbidden := fixture.get(t, "/users/user-01", "user-02", sec.RoleUser)
	assert.Equal(t, http.StatusForbidden, forbidden.Code)
}
