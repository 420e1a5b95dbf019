// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

// Package normalize provides canonical forms for user-supplied identity text.
//
// # Why canonicalize?
//
// Emails are the login identity of the platform. "Anna@Example.COM" and
// "anna@example.com" must resolve to the same account, both at registration
// (uniqueness) and at login (lookup). Canonicalization happens once, at the
// service boundary, so storage and comparison always see the same form.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Email returns the canonical form of an email address: trimmed,
// Unicode-normalized (NFKC), and case-folded.
func Email(email string) string {
	trimmed := strings.TrimSpace(email)

	// A cases.Caser is stateful and must not be shared between goroutines,
	// so a fresh one is created per call.
	return cases.Fold().String(norm.NFKC.String(trimmed))
}
