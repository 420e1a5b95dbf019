// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package ctxutil_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savoria-app/savoria/internal/platform/ctxutil"
	"github.com/savoria-app/savoria/internal/platform/sec"
)

/*
TestRequestID verifies round-trip storage and the empty-string zero value.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-42")
	assert.Equal(t, "req-42", ctxutil.GetRequestID(ctx))
}

/*
TestLogger verifies that a context without a logger falls back to the global
default instead of returning nil.
*/
func TestLogger(t *testing.T) {
	assert.NotNil(t, ctxutil.GetLogger(context.Background()))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := ctxutil.WithLogger(context.Background(), logger)
	assert.Same(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestSession verifies session claim storage and the anonymous projections.
*/
func TestSession(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, ctxutil.GetSession(ctx))
	assert.Empty(t, ctxutil.GetUserID(ctx))

	claims := &sec.SessionClaims{UserID: "user-1", Email: "anna@example.com", Role: sec.RoleUser}
	ctx = ctxutil.WithSession(ctx, claims)

	assert.Same(t, claims, ctxutil.GetSession(ctx))
	assert.Equal(t, "user-1", ctxutil.GetUserID(ctx))
}
