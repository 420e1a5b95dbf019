// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package gate

import "strings"

// # Route Classification

// Class partitions the URL path space. Every request matches exactly one
// class; the gate's behavior is fully determined by (class, session state,
// role).
type Class int

const (
	// ClassPublic paths are reachable by anyone.
	ClassPublic Class = iota

	// ClassProtected paths require any valid session.
	ClassProtected

	// ClassAdmin paths additionally require the administrator role. Admin
	// paths are a subset of protected paths: the admin check is additional,
	// not exclusive.
	ClassAdmin

	// ClassAuthEntry paths (login/register) must redirect away if the
	// visitor is already authenticated.
	ClassAuthEntry
)

// # Navigation Targets

const (
	// HomePath is where insufficient-role requests are sent.
	HomePath = "/"

	// LoginPath is where unauthenticated requests to protected paths are sent.
	LoginPath = "/auth/login"

	// DashboardPath is where already-authenticated visits to auth-entry
	// pages are sent.
	DashboardPath = "/dashboard"
)

// rule binds a path prefix to its class.
type rule struct {
	prefix string
	class  Class
}

// routeRules is the fixed, ordered classification list. First match wins, so
// more specific prefixes must come first. Anything unmatched is public.
var routeRules = []rule{
	{"/auth/login", ClassAuthEntry},
	{"/auth/register", ClassAuthEntry},
	{"/admin", ClassAdmin},
	{"/dashboard", ClassProtected},
	{"/account", ClassProtected},
}

// skipPrefixes lists paths the gate never runs on: static assets and
// infrastructure probes.
var skipPrefixes = []string{
	"/static/",
	"/favicon.ico",
	"/health",
	"/ready",
}

// Classify maps a request path to its route class by prefix match against
// the fixed ordered list.
func Classify(path string) Class {
	for _, r := range routeRules {
		if strings.HasPrefix(path, r.prefix) {
			return r.class
		}
	}
	return ClassPublic
}

// Skipped reports whether the gate should ignore the path entirely.
func Skipped(path string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
