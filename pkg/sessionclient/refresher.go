// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

/*
Package sessionclient provides the client-side session refresher.

A session token expires after a fixed horizon. Rather than letting users hit
a hard logout mid-visit, a client embeds a [Refresher] that proactively calls
the refresh endpoint on a fixed interval (6 of the token's 7 days of
validity), rotating the expiry window in the background.

# Failure Semantics

The refresher is purely additive: a failed attempt is logged and the next
tick simply tries again. If refreshing keeps failing, the user is forced to
re-authenticate at natural expiry. No retries inside a tick, no crash.
*/
package sessionclient

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// refreshPath is the server endpoint that rotates the session cookie.
const refreshPath = "/api/v1/auth/refresh"

// Refresher periodically renews the session cookie before it expires.
type Refresher struct {
	baseURL  string
	interval time.Duration
	client   *http.Client
	logger   *slog.Logger
}

// Option customizes a [Refresher].
type Option func(*Refresher)

// WithHTTPClient replaces the underlying HTTP client. The client must carry
// a cookie jar holding the session cookie, or refreshing will always 401.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Refresher) { r.client = client }
}

// WithInterval overrides the refresh interval. Primarily for tests.
func WithInterval(interval time.Duration) Option {
	return func(r *Refresher) { r.interval = interval }
}

// New constructs a Refresher against the given server base URL, ticking
// every 6 days by default.
func New(baseURL string, logger *slog.Logger, options ...Option) (*Refresher, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("sessionclient: failed to create cookie jar: %w", err)
	}

	refresher := &Refresher{
		baseURL:  baseURL,
		interval: 6 * 24 * time.Hour,
		client:   &http.Client{Jar: jar, Timeout: 30 * time.Second},
		logger:   logger,
	}

	for _, option := range options {
		option(refresher)
	}

	return refresher, nil
}

// Client exposes the underlying HTTP client so the embedding application can
// share the cookie jar for its own authenticated calls.
func (refresher *Refresher) Client() *http.Client {
	return refresher.client
}

// Run ticks until the context is cancelled, refreshing the session once per
// interval. It blocks; callers start it in a goroutine.
func (refresher *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(refresher.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := refresher.RefreshOnce(ctx); err != nil {
				// Best effort: log and let the next tick try again.
				refresher.logger.WarnContext(ctx, "session_refresh_failed",
					slog.String("error", err.Error()))
			}
		case <-ctx.Done():
			return
		}
	}
}

// RefreshOnce performs a single refresh call.
//
// A non-200 response means the server declined to rotate the session
// (typically because the token already expired); the caller's next move is
// re-authentication, not a retry.
func (refresher *Refresher) RefreshOnce(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, refresher.baseURL+refreshPath, nil)
	if err != nil {
		return fmt.Errorf("sessionclient: failed to build refresh request: %w", err)
	}

	response, err := refresher.client.Do(request)
	if err != nil {
		return fmt.Errorf("sessionclient: refresh request failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("sessionclient: refresh rejected with status %d", response.StatusCode)
	}

	return nil
}
