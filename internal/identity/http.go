// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
HTTP delivery layer for the identity domain.

The handler acts as a thin mediation layer between the web and domain services:
  - Protocol: Standard RESTful JSON interface.
  - Security: Orchestrates session cookie issuance and destruction.
  - Verification: Enforces strict input validation before passing to [Service].

This layer is strictly responsible for transport concerns (status codes,
headers, JSON, cookies).
*/
package identity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savoria-app/savoria/internal/platform/apperr"
	requestutil "github.com/savoria-app/savoria/internal/platform/request"
	"github.com/savoria-app/savoria/internal/platform/respond"
	"github.com/savoria-app/savoria/internal/platform/validate"
	"github.com/savoria-app/savoria/internal/session"
)

// # Definitions & Constructors

// Handler implements identity-related HTTP endpoints.
type Handler struct {
	identityService *Service
	sessions        *session.Manager
}

// NewHandler constructs a new [Handler] with its dependencies.
func NewHandler(service *Service, sessions *session.Manager) *Handler {
	return &Handler{
		identityService: service,
		sessions:        sessions,
	}
}

// Routes returns a [chi.Router] configured with identity-specific routes.
//
// # Endpoints
//   - POST /register     : Creates a new account and establishes a session.
//   - POST /login        : Authenticates and establishes a session.
//   - POST /logout       : Destroys the session cookie (idempotent).
//   - POST /refresh      : Rotates the session expiry window.
//   - POST /verify-email : Consumes an email verification token.
//   - GET  /me           : Returns the fresh account for the session.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Post("/refresh", handler.refresh)
	router.Post("/verify-email", handler.verifyEmail)
	router.Get("/me", handler.me)

	return router
}

// # Request Payloads

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

/*
register handles the creation of a new user account.

POST /api/v1/auth/register

Response:
  - 201: User: Created user profile (session cookie set)
  - 400: Bad input or validation failure
  - 409: Email already exists
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8).
		MaxLen(FieldDisplayName, input.DisplayName, 80)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.Register(request.Context(), RegisterInput{
		Email:       input.Email,
		Password:    input.Password,
		DisplayName: input.DisplayName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.Establish(writer, user.ID, user.Email, user.Role); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.Created(writer, user)
}

/*
login authenticates credentials and establishes the session cookie.

POST /api/v1/auth/login

Response:
  - 200: User: The authenticated profile (session cookie set)
  - 401: Invalid credentials (generic, enumeration-safe)
  - 429: Too many failed attempts
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.identityService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.sessions.Establish(writer, user.ID, user.Email, user.Role); err != nil {
		respond.Error(writer, request, apperr.Internal(err))
		return
	}

	respond.OK(writer, user)
}

/*
logout destroys the session cookie.

POST /api/v1/auth/logout

Description: Idempotent — logging out an already-anonymous request is a
no-op. Tokens already issued to other devices stay valid until their natural
expiry; individual tokens are not revocable.
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.sessions.Destroy(writer)
	respond.NoContent(writer)
}

/*
refresh rotates the session expiry window without re-authentication.

POST /api/v1/auth/refresh

Response:
  - 200: Fresh claims summary (session cookie re-set)
  - 401: The presented token was absent, invalid, or expired
*/
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	claims, err := handler.sessions.Refresh(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		"user_id": claims.UserID,
		"status":  "refreshed",
	})
}

/*
verifyEmail consumes a verification token.

POST /api/v1/auth/verify-email
*/
func (handler *Handler) verifyEmail(writer http.ResponseWriter, request *http.Request) {
	var input verifyEmailRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.identityService.VerifyEmail(request.Context(), input.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": "verified"})
}

/*
me returns the fresh account row for the current session.

GET /api/v1/auth/me

Description: Re-derives identity from the cookie and re-queries storage —
it does not assume the access gate ran, and a deleted account yields 401.
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	claims := handler.sessions.Read(request)
	if claims == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	user, err := handler.identityService.Me(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
