// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
Package guard implements per-handler authorization, independent of the edge
access gate.

Every API route or server-rendered page that requires a specific role
re-derives the caller's identity here: read the session cookie, verify the
token, then re-query the user row and check the role from storage. This is
NOT redundant with the gate — the gate protects page navigation; handlers
must not assume it ran (direct API calls, or role changes made after token
issuance but before its natural expiry).

# Contract

Each check returns the authenticated user or a typed unauthorized/forbidden
error that handlers translate into HTTP 401/403. On failure the handler must
perform no side effect, and no internal failure detail (signature mismatch
vs. expiry) ever reaches the client.
*/
package guard

import (
	"context"
	"net/http"

	"github.com/savoria-app/savoria/internal/identity"
	"github.com/savoria-app/savoria/internal/platform/apperr"
	"github.com/savoria-app/savoria/internal/session"
)

// UserFinder is the single storage dependency of the guard.
//
// Defining it here decouples the guard from the concrete repository and lets
// tests inject fakes.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*identity.User, error)
}

// Guard re-verifies identity and role per request.
//
// It shares only the token codec (via the session manager) with the access
// gate; the two are separately testable and neither trusts the other.
type Guard struct {
	sessions *session.Manager
	users    UserFinder
}

// New constructs a Guard.
func New(sessions *session.Manager, users UserFinder) *Guard {
	return &Guard{
		sessions: sessions,
		users:    users,
	}
}

// RequireUser returns the fresh user row for the request's session.
//
// Any verification failure — absent cookie, bad signature, expiry — and a
// valid token whose user row no longer exists (deleted account) all yield
// Unauthorized. Role and subscription are read from storage, never from the
// stale claims.
func (guard *Guard) RequireUser(request *http.Request) (*identity.User, error) {
	claims := guard.sessions.Read(request)
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	user, err := guard.users.FindByID(request.Context(), claims.UserID)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			// The account was deleted after the token was issued.
			return nil, apperr.Unauthorized("Authentication required")
		}
		return nil, err
	}

	return user, nil
}

// RequireAdmin returns the user if the fresh role is administrator.
//
// A demotion takes effect here immediately, without waiting for the token's
// natural expiry.
func (guard *Guard) RequireAdmin(request *http.Request) (*identity.User, error) {
	user, err := guard.RequireUser(request)
	if err != nil {
		return nil, err
	}

	if !user.Role.IsAdmin() {
		return nil, apperr.Forbidden("Administrator access required")
	}

	return user, nil
}

// RequireSelf returns the user if the requested resource belongs to the
// session's user. Used by user-scoped endpoints.
func (guard *Guard) RequireSelf(request *http.Request, resourceOwnerID string) (*identity.User, error) {
	user, err := guard.RequireUser(request)
	if err != nil {
		return nil, err
	}

	if user.ID != resourceOwnerID {
		return nil, apperr.Forbidden("Access to this resource is not permitted")
	}

	return user, nil
}
