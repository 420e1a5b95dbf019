// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
Package admin provides the back-office HTTP surface.

Every handler here re-verifies the caller through the authorization guard
even though the access gate already protects /admin navigation: direct API
calls bypass the gate, and the guard is the actual security boundary.
*/
package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savoria-app/savoria/internal/guard"
	"github.com/savoria-app/savoria/internal/identity"
	requestutil "github.com/savoria-app/savoria/internal/platform/request"
	"github.com/savoria-app/savoria/internal/platform/respond"
	"github.com/savoria-app/savoria/pkg/pagination"
)

// Handler implements administrator-only endpoints.
type Handler struct {
	authGuard *guard.Guard
	users     identity.UserRepository
}

// NewHandler constructs the back-office [Handler].
func NewHandler(authGuard *guard.Guard, users identity.UserRepository) *Handler {
	return &Handler{
		authGuard: authGuard,
		users:     users,
	}
}

// Routes returns a [chi.Router] with the back-office endpoints.
//
// # Endpoints
//   - GET /users       : Paginated account listing.
//   - GET /users/{id}  : Single account detail.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/users", handler.listUsers)
	router.Get("/users/{id}", handler.getUser)

	return router
}

/*
listUsers returns a page of accounts, newest first.

GET /api/v1/admin/users?page=&limit=

Response:
  - 200: Paginated users
  - 401/403: Guard rejection — no side effects performed
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	if _, err := handler.authGuard.RequireAdmin(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)

	users, err := handler.users.List(request.Context(), params.Limit, params.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	total, err := handler.users.Count(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
getUser returns a single account by ID.

GET /api/v1/admin/users/{id}
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	if _, err := handler.authGuard.RequireAdmin(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.users.FindByID(request.Context(), requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
