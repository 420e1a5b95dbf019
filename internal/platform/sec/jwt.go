// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

// Package sec provides cryptographic primitives and session token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, Token Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// session manager and the access gate via small interfaces.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidSession is the single failure returned by [Codec.Verify].
//
// Malformed, forged, and expired tokens all collapse into this one error:
// callers must treat every failure reason identically (deny). The wrapped
// detail exists for server-side diagnostics only and must never steer
// control flow or reach a client.
var ErrInvalidSession = errors.New("sec: invalid session token")

// SessionClaims is the payload embedded inside a signed session token.
//
// # Why custom claims?
//
// By embedding the UserID, Email, and Role directly inside the token, the
// access gate can classify a request WITHOUT querying the database. The
// claims are immutable once signed: any mutation invalidates the signature.
// Note that role and subscription decisions of record are still re-read from
// storage by the authorization guard; the claims only carry the identity.
type SessionClaims struct {
	jwt.RegisteredClaims

	UserID string   `json:"userId"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
}

// Codec signs and verifies compact, tamper-evident session tokens using HS256.
//
// # State
//
// The signing secret is process-wide and read-only after construction, so a
// single Codec is safe for concurrent use by all request handlers. Rotating
// the secret invalidates every outstanding session at once; that is the only
// revocation mechanism for individual tokens.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewCodec creates a new session token Codec.
//
// A missing secret is a configuration error surfaced here, at construction,
// so the process fails at startup rather than per-request.
func NewCodec(secret, issuer string, timeToLive time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, errors.New("sec: session signing secret is required")
	}
	if timeToLive <= 0 {
		return nil, errors.New("sec: session token TTL must be positive")
	}

	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    timeToLive,
	}, nil
}

// Sign produces a signed session token for the given identity.
//
// The token is stamped with the current issue time and a fixed expiry
// horizon; iat/exp are never caller-supplied.
func (codec *Codec) Sign(userID, email string, role UserRole) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    codec.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(codec.ttl)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the structure, signature, and expiry of a session token.
//
// It returns the exact claims that were signed, or [ErrInvalidSession] on
// any failure. Expiry is compared against the server clock at verification
// time with zero leeway: a token checked one second past its horizon is
// rejected.
func (codec *Codec) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return codec.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// TTL returns the validity horizon tokens are signed with.
func (codec *Codec) TTL() time.Duration {
	return codec.ttl
}
