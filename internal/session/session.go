// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
Package session binds the token codec to the HTTP cookie lifecycle.

The cookie IS the session: a signed token carrying the identity claims is the
complete session state, so no server-side session table exists and horizontal
scaling requires no sticky sessions or shared cache.

# Failure Semantics

Every operation here is best-effort for the caller's control flow. A failed
read means "anonymous", never an exception that aborts the request. Only the
access gate escalates an invalid token on a protected path into a redirect.
*/
package session

import (
	"net/http"

	"github.com/savoria-app/savoria/internal/platform/apperr"
	"github.com/savoria-app/savoria/internal/platform/constants"
	"github.com/savoria-app/savoria/internal/platform/sec"
)

// # Session States

// State classifies the outcome of inspecting the session cookie on a request.
type State int

const (
	// StateAbsent means no session cookie was presented.
	StateAbsent State = iota

	// StateValid means the cookie carried a verifiable, unexpired token.
	StateValid

	// StateInvalid means a cookie was presented but the token is malformed,
	// forged, or expired. Callers must treat all three identically (deny);
	// the distinction never steers control flow.
	StateInvalid
)

// # Manager

// Manager creates, reads, refreshes, and destroys the session cookie.
//
// It shares only the [sec.Codec] with the access gate and the authorization
// guard; it holds no per-request state and is safe for concurrent use.
type Manager struct {
	codec        *sec.Codec
	cookieDomain string
}

// NewManager constructs a session Manager.
//
// cookieDomain scopes the cookie to the production apex domain; pass the
// empty string for a host-only cookie (development).
func NewManager(codec *sec.Codec, cookieDomain string) *Manager {
	return &Manager{
		codec:        codec,
		cookieDomain: cookieDomain,
	}
}

// Establish signs fresh claims for the identity and writes the resulting
// token into the session cookie on the outgoing response.
func (manager *Manager) Establish(writer http.ResponseWriter, userID, email string, role sec.UserRole) error {
	token, err := manager.codec.Sign(userID, email, role)
	if err != nil {
		return err
	}

	http.SetCookie(writer, manager.cookie(token, int(manager.codec.TTL().Seconds())))
	return nil
}

// Read retrieves the session cookie from the request and verifies it.
//
// Returns nil on absence or any verification failure — never an error.
func (manager *Manager) Read(request *http.Request) *sec.SessionClaims {
	claims, _ := manager.ReadState(request)
	return claims
}

// ReadState retrieves the session cookie and reports the precise outcome.
//
// The three-way state exists for the access gate, whose decision table
// distinguishes "no cookie" from "bad cookie". All other callers should use
// [Manager.Read] and treat nil as anonymous.
func (manager *Manager) ReadState(request *http.Request) (*sec.SessionClaims, State) {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, StateAbsent
	}

	claims, err := manager.codec.Verify(cookie.Value)
	if err != nil {
		return nil, StateInvalid
	}

	return claims, StateValid
}

// Refresh rotates the session's expiry window without re-authentication.
//
// It re-signs a new token with a fresh issue time, provided the prior token
// was still valid at refresh time, and re-establishes the cookie.
func (manager *Manager) Refresh(writer http.ResponseWriter, request *http.Request) (*sec.SessionClaims, error) {
	claims, state := manager.ReadState(request)
	if state != StateValid {
		return nil, apperr.Unauthorized("Session is invalid or expired")
	}

	if err := manager.Establish(writer, claims.UserID, claims.Email, claims.Role); err != nil {
		return nil, err
	}

	return claims, nil
}

// Destroy deletes the session cookie on the outgoing response.
//
// Destroying an already-destroyed session is a no-op: the deletion cookie is
// simply written again.
func (manager *Manager) Destroy(writer http.ResponseWriter) {
	expired := manager.cookie("", -1)
	http.SetCookie(writer, expired)
}

// cookie builds the session cookie with the platform's fixed attributes:
// http-only, secure transport, same-site lax, root path, bounded max-age.
func (manager *Manager) cookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    token,
		Path:     constants.SessionCookiePath,
		Domain:   manager.cookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
