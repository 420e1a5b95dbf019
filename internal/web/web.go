// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
Package web serves the minimal server-rendered pages the access gate
navigates between.

Real page composition belongs to the frontend collaborator; these handlers
exist so the gate's navigation semantics (login redirects, dashboard,
back-office entry) have concrete targets, and stay intentionally thin.
*/
package web

import (
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/savoria-app/savoria/internal/platform/ctxutil"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>{{.Title}} · Savoria</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .Email}}<p>Signed in as {{.Email}}</p>{{end}}
</body>
</html>`))

type pageData struct {
	Title string
	Email string
}

// Handler serves the navigation target pages.
type Handler struct{}

// NewHandler constructs the web page [Handler].
func NewHandler() *Handler {
	return &Handler{}
}

// Routes registers the page routes on a fresh router.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.page("Savoria"))
	router.Get("/dashboard", handler.page("Dashboard"))
	router.Get("/account", handler.page("Account"))
	router.Get("/admin", handler.page("Back Office"))
	router.Get("/auth/login", handler.page("Sign In"))
	router.Get("/auth/register", handler.page("Create Account"))

	return router
}

// page renders a titled page, personalized when the gate attached a session.
func (handler *Handler) page(title string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		data := pageData{Title: title}

		if claims := ctxutil.GetSession(request.Context()); claims != nil {
			data.Email = claims.Email
		}

		writer.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = pageTemplate.Execute(writer, data)
	}
}
