// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
Package gate implements the edge middleware that classifies and authorizes
every inbound request before it reaches a handler.

It is the system's single most important control-flow point, and also only a
UX/perimeter optimization: the real security boundary is the per-handler
authorization guard, which never trusts the gate's decision.

# State Machine

Per request: extract the cookie and verify it ({absent, valid, invalid}),
classify the path ({public, protected, admin, auth-entry}), then act on the
decision table. The gate never propagates an error to the HTTP layer — every
verification failure becomes a navigation decision (redirect, or strip the
cookie and proceed as anonymous).
*/
package gate

import (
	"net/http"
	"net/url"

	"github.com/savoria-app/savoria/internal/platform/constants"
	"github.com/savoria-app/savoria/internal/platform/ctxutil"
	"github.com/savoria-app/savoria/internal/platform/sec"
	"github.com/savoria-app/savoria/internal/session"
)

// Gate is the edge request interceptor.
type Gate struct {
	sessions *session.Manager
}

// New constructs a Gate over the session manager.
func New(sessions *session.Manager) *Gate {
	return &Gate{sessions: sessions}
}

// Middleware returns the gate as a standard middleware. It runs on every
// request except static assets and health probes.
func (gate *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		path := request.URL.Path

		if Skipped(path) {
			next.ServeHTTP(writer, request)
			return
		}

		claims, state := gate.sessions.ReadState(request)

		// An invalid token is actively deleted the moment it is detected,
		// whatever the path class, so subsequent requests do not repeat the
		// failed verification.
		if state == session.StateInvalid {
			gate.sessions.Destroy(writer)
			ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
				"session_cookie_stripped", "path", path)
		}

		switch Classify(path) {

		case ClassAdmin:
			switch {
			case state == session.StateInvalid:
				gate.redirectToLogin(writer, request, path)
			case state == session.StateAbsent:
				// Deliberately indistinguishable from "role insufficient":
				// an unauthenticated visitor learns nothing about the
				// existence of the admin area.
				gate.redirect(writer, request, HomePath)
			case !claims.Role.IsAdmin():
				gate.redirect(writer, request, HomePath)
			default:
				gate.proceed(writer, request, next, claims)
			}

		case ClassProtected:
			switch state {
			case session.StateValid:
				gate.proceed(writer, request, next, claims)
			default:
				// Absent or invalid: send them to login and preserve the
				// intended destination.
				gate.redirectToLogin(writer, request, path)
			}

		case ClassAuthEntry:
			if state == session.StateValid {
				gate.redirect(writer, request, DashboardPath)
				return
			}
			next.ServeHTTP(writer, request)

		default: // ClassPublic
			if state == session.StateValid {
				// Public pages may still personalize for a known viewer.
				request = request.WithContext(ctxutil.WithSession(request.Context(), claims))
			}
			next.ServeHTTP(writer, request)
		}
	})
}

// proceed lets an authorized request into a protected path with the verified
// claims attached to its context.
//
// Personalized content must never land in shared caches or the browser's
// back/forward cache, so no-store headers are attached before the handler
// writes anything.
func (gate *Gate) proceed(writer http.ResponseWriter, request *http.Request, next http.Handler, claims *sec.SessionClaims) {
	header := writer.Header()
	header.Set("Cache-Control", "no-store, no-cache, must-revalidate")
	header.Set("Pragma", "no-cache")

	ctx := ctxutil.WithSession(request.Context(), claims)
	next.ServeHTTP(writer, request.WithContext(ctx))
}

// redirect issues a navigation decision toward the target path.
func (gate *Gate) redirect(writer http.ResponseWriter, request *http.Request, target string) {
	http.Redirect(writer, request, target, http.StatusTemporaryRedirect)
}

// redirectToLogin sends the visitor to the login page, carrying the
// originally requested path so the login flow can return them afterwards.
func (gate *Gate) redirectToLogin(writer http.ResponseWriter, request *http.Request, originalPath string) {
	target := LoginPath + "?" + constants.LoginRedirectParam + "=" + url.QueryEscape(originalPath)
	gate.redirect(writer, request, target)
}
