// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package sec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savoria-app/savoria/internal/platform/sec"
)

const (
	testSecret = "unit-test-secret-please-rotate"
	testIssuer = "savoria.test"
)

func newTestCodec(t *testing.T, ttl time.Duration) *sec.Codec {
	t.Helper()
	codec, err := sec.NewCodec(testSecret, testIssuer, ttl)
	require.NoError(t, err)
	return codec
}

/*
TestCodec_MissingSecret verifies that a missing signing secret is a
construction-time error, never a per-call one.
*/
func TestCodec_MissingSecret(t *testing.T) {
	_, err := sec.NewCodec("", testIssuer, time.Hour)
	assert.Error(t, err)
}

/*
TestCodec_RoundTrip verifies that signed claims come back exactly as they
were signed, with iat/exp freshly stamped rather than caller-supplied.
*/
func TestCodec_RoundTrip(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	beforeSign := time.Now().Add(-time.Second)
	token, err := codec.Sign("user-123", "anna@example.com", sec.RoleAdmin)
	require.NoError(t, err)
	afterSign := time.Now().Add(time.Second)

	claims, err := codec.Verify(token)
	require.NoError(t, err)

	// 1. Identity claims survive unchanged
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, sec.RoleAdmin, claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)

	// 2. Timestamps were stamped by the codec, not the caller
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.IssuedAt.After(beforeSign))
	assert.True(t, claims.IssuedAt.Before(afterSign))
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

/*
TestCodec_WrongSecret verifies that tokens signed with a different secret
always fail verification.
*/
func TestCodec_WrongSecret(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	otherCodec, err := sec.NewCodec("a-completely-different-secret", testIssuer, time.Hour)
	require.NoError(t, err)

	token, err := otherCodec.Sign("user-123", "anna@example.com", sec.RoleUser)
	require.NoError(t, err)

	claims, err := codec.Verify(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, sec.ErrInvalidSession)
}

/*
TestCodec_TamperedToken verifies fail-closed behavior: altering any single
byte of the token invalidates it.
*/
func TestCodec_TamperedToken(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	token, err := codec.Sign("user-123", "anna@example.com", sec.RoleUser)
	require.NoError(t, err)

	// Flip one character in each structural segment of the token.
	segments := strings.Split(token, ".")
	require.Len(t, segments, 3)

	offset := 0
	for i, segment := range segments {
		position := offset + len(segment)/2
		mutated := []byte(token)
		if mutated[position] == 'x' {
			mutated[position] = 'y'
		} else {
			mutated[position] = 'x'
		}

		claims, err := codec.Verify(string(mutated))
		assert.Nil(t, claims, "segment %d should not verify after mutation", i)
		assert.ErrorIs(t, err, sec.ErrInvalidSession, "segment %d", i)

		offset += len(segment) + 1
	}
}

/*
TestCodec_Expiry verifies that expiry uses the server clock with no grace
window, while a token well inside its horizon verifies fine.
*/
func TestCodec_Expiry(t *testing.T) {
	t.Run("expired_token_rejected", func(t *testing.T) {
		// A nanosecond TTL guarantees the token is past its horizon by the
		// time Verify runs.
		codec := newTestCodec(t, time.Nanosecond)

		token, err := codec.Sign("user-123", "anna@example.com", sec.RoleUser)
		require.NoError(t, err)

		claims, err := codec.Verify(token)
		assert.Nil(t, claims)
		assert.ErrorIs(t, err, sec.ErrInvalidSession)
	})

	t.Run("unexpired_token_accepted", func(t *testing.T) {
		codec := newTestCodec(t, time.Hour)

		token, err := codec.Sign("user-123", "anna@example.com", sec.RoleUser)
		require.NoError(t, err)

		claims, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID)
	})
}

/*
TestCodec_Garbage verifies that structural corruption yields the same
opaque failure as every other reason.
*/
func TestCodec_Garbage(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d", "...."} {
		claims, err := codec.Verify(input)
		assert.Nil(t, claims, "input %q", input)
		assert.ErrorIs(t, err, sec.ErrInvalidSession, "input %q", input)
	}
}
