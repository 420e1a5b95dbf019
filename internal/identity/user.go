// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
Package identity implements the user account and credential layer.

It defines the core domain entity (User) and the login, registration, and
email verification flows. Session transport lives in the session package;
identity only decides WHO a set of credentials belongs to.

# Architecture

  - Service: Orchestrates business logic (Register, Login, VerifyEmail).
  - Repository: Abstracted interfaces for Postgres (users) and Redis
    (verification tokens, login throttling).
  - Security: bcrypt hashes via the sec package; enumeration-safe errors.
*/
package identity

import (
	"time"

	"github.com/savoria-app/savoria/internal/platform/sec"
	"github.com/savoria-app/savoria/internal/subscription"
)

// # Domain Entities

// User represents a registered member of the Savoria platform.
//
// Role and SubscriptionStatus are the two fields every authorization
// decision ultimately depends on. They must be read fresh from storage by
// the authorization guard, never trusted purely from stale token claims: a
// role or subscription change takes effect without waiting for token expiry.
type User struct {
	ID                 string              `json:"id"`
	Email              string              `json:"email"`
	PasswordHash       string              `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName        string              `json:"display_name"`
	Role               sec.UserRole        `json:"role"`
	SubscriptionStatus subscription.Status `json:"subscription_status"`
	SubscriptionEndsAt *time.Time          `json:"subscription_ends_at,omitempty"`
	IsVerified         bool                `json:"is_verified"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the identity domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldDisplayName = "display_name"
	FieldToken       = "token"
)
