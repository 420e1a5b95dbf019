// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package identity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/savoria-app/savoria/internal/platform/apperr"
	"github.com/savoria-app/savoria/internal/platform/constants"
	"github.com/savoria-app/savoria/internal/platform/ctxutil"
	"github.com/savoria-app/savoria/internal/platform/sec"
	"github.com/savoria-app/savoria/internal/subscription"
	"github.com/savoria-app/savoria/pkg/normalize"
	"github.com/savoria-app/savoria/pkg/uuid"
)

// Service implements user identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing,
// registration, or login logic must be reviewed by the security team.
type Service struct {
	userRepository              UserRepository
	verificationTokenRepository VerificationTokenRepository
	loginThrottle               LoginThrottle
}

// NewService constructs a new identity [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	verifyRepo VerificationTokenRepository,
	throttle LoginThrottle,
) *Service {
	return &Service{
		userRepository:              userRepo,
		verificationTokenRepository: verifyRepo,
		loginThrottle:               throttle,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Deep-enrollment of a new member, handling email canonicalization,
password hashing, and the initial verification token side effect.

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := normalize.Email(input.Email)

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("identity_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:                 uuid.New(),
		Email:              email,
		PasswordHash:       hashedPassword,
		DisplayName:        input.DisplayName,
		Role:               sec.RoleUser,
		SubscriptionStatus: subscription.StatusFree,
		IsVerified:         false,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("identity_service_register_failed: %w", err)
	}

	// Generate and store a verification token as an async-ready side effect.
	// The email delivery collaborator picks the token up from here.
	token, err := sec.GenerateSecureToken(constants.VerificationTokenLength)
	if err == nil {
		_ = service.verificationTokenRepository.Set(context, token, user.ID, constants.VerificationTokenTTL)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login validates user credentials.

Description: Canonicalizes the email, enforces the brute-force throttle,
performs constant-time password comparison, and returns the account. Session
establishment (cookie issuance) is the transport layer's job.

Returns:
  - *User: The authenticated account
  - error: Unauthorized, RateLimited, or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*User, error) {
	email := normalize.Email(input.Email)

	allowed, err := service.loginThrottle.Allow(context, email)
	if err != nil {
		// Fail open on throttle infrastructure errors, but leave a trace.
		ctxutil.GetLogger(context).WarnContext(context, "login_throttle_unavailable",
			slog.String("error", err.Error()))
	}
	if !allowed {
		return nil, apperr.RateLimited(int(constants.LoginThrottleWindow.Seconds()))
	}

	user, err := service.userRepository.FindByEmail(context, email)

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		_ = service.loginThrottle.RecordFailure(context, email)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// bcrypt performs a constant-time comparison, preventing timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		_ = service.loginThrottle.RecordFailure(context, email)
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	_ = service.loginThrottle.Reset(context, email)

	return user, nil
}

// # Account Lifecycle

/*
VerifyEmail consumes a verification token and marks the account verified.

Returns:
  - error: NotFound for an unknown/expired token, or storage errors
*/
func (service *Service) VerifyEmail(context context.Context, token string) error {
	userID, err := service.verificationTokenRepository.Get(context, token)
	if err != nil {
		return err
	}

	if err := service.userRepository.MarkVerified(context, userID); err != nil {
		return err
	}

	// Single use: a consumed token must not verify a second account state.
	_ = service.verificationTokenRepository.Delete(context, token)

	return nil
}

/*
Me returns the fresh account row for the given user ID.

Description: Used by "who is asking" endpoints. A valid token whose user row
no longer exists yields Unauthorized — the account was deleted after the
token was issued.
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.Code == "NOT_FOUND" {
			return nil, apperr.Unauthorized("Account no longer exists")
		}
		return nil, err
	}

	return user, nil
}

/*
UpdateSubscription is the billing collaborator's write path into the auth core.

Description: Called by the payment-webhook integration after the provider
confirms a billing event. The new state takes effect on the next guard check,
bounded only by the token validity horizon for edge (gate) decisions.
*/
func (service *Service) UpdateSubscription(context context.Context, userID string, status subscription.Status, endsAt *time.Time) error {
	if !status.Valid() {
		return apperr.Unprocessable("Unknown subscription status")
	}

	return service.userRepository.UpdateSubscription(context, userID, status, endsAt)
}
