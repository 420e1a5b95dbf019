// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package identity

import (
	"context"
	"time"

	"github.com/savoria-app/savoria/internal/subscription"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given (canonical) email.

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account to the storage.
	*/
	Create(context context.Context, user *User) error

	/*
		MarkVerified updates the user's status to isverified = true.
	*/
	MarkVerified(context context.Context, userID string) error

	/*
		UpdateSubscription replaces the subscription status and end date.

		This is the single interface point consumed by the payment-webhook
		collaborator; the billing lifecycle itself lives outside this module.
	*/
	UpdateSubscription(context context.Context, userID string, status subscription.Status, endsAt *time.Time) error

	/*
		List returns a page of accounts ordered by creation time, newest first.
	*/
	List(context context.Context, limit, offset int) ([]*User, error)

	/*
		Count returns the total number of accounts.
	*/
	Count(context context.Context) (int, error)
}

// # Volatile Data Access

// VerificationTokenRepository defines the contract for storing volatile
// email verification tokens.
type VerificationTokenRepository interface {

	/*
		Set stores a verification token associated with a userID for ttl.
	*/
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the userID associated with a given verification token.

		Returns apperr.NotFound if the token is absent or expired.
	*/
	Get(context context.Context, token string) (string, error)

	/*
		Delete removes a verification token after successful use.
	*/
	Delete(context context.Context, token string) error
}

// LoginThrottle defines the contract for brute-force lockout of login
// attempts, keyed by canonical email.
type LoginThrottle interface {

	/*
		Allow reports whether another login attempt is permitted for the key.
	*/
	Allow(context context.Context, key string) (bool, error)

	/*
		RecordFailure counts one failed attempt inside the sliding window.
	*/
	RecordFailure(context context.Context, key string) error

	/*
		Reset clears the failure counter after a successful login.
	*/
	Reset(context context.Context, key string) error
}
