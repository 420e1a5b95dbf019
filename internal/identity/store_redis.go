// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/savoria-app/savoria/internal/platform/apperr"
	"github.com/savoria-app/savoria/internal/platform/constants"
)

// # Verification Token Repository

// RedisVerificationTokenRepository implements VerificationTokenRepository using Redis.
type RedisVerificationTokenRepository struct {
	client *redis.Client
}

// NewVerificationTokenRepository creates a new Redis-backed VerificationTokenRepository.
func NewVerificationTokenRepository(client *redis.Client) *RedisVerificationTokenRepository {
	return &RedisVerificationTokenRepository{client: client}
}

/*
Set stores a verification token with its associated userID and TTL.
*/
func (repository *RedisVerificationTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	key := constants.RedisPrefixVerifyToken + token

	if err := repository.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_verify_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.
*/
func (repository *RedisVerificationTokenRepository) Get(context context.Context, token string) (string, error) {
	key := constants.RedisPrefixVerifyToken + token

	userID, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Verification token")
		}
		return "", fmt.Errorf("redis_verify_token_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes the token from Redis after successful use.
*/
func (repository *RedisVerificationTokenRepository) Delete(context context.Context, token string) error {
	key := constants.RedisPrefixVerifyToken + token

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_verify_token_delete_failed: %w", err)
	}

	return nil
}

// # Login Throttle

// RedisLoginThrottle implements LoginThrottle with an INCR+EXPIRE counter per
// canonical email, giving a fixed-window brute-force lockout.
type RedisLoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginThrottle creates a Redis-backed LoginThrottle.
func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *RedisLoginThrottle {
	return &RedisLoginThrottle{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

/*
Allow reports whether another login attempt is permitted for the key.

Description: A missing counter means no recorded failures; Redis outages fail
open here so a cache incident does not lock every user out of the platform.
*/
func (throttle *RedisLoginThrottle) Allow(context context.Context, key string) (bool, error) {
	redisKey := constants.RedisPrefixLoginAttempts + key

	count, err := throttle.client.Get(context, redisKey).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return true, fmt.Errorf("redis_login_throttle_get_failed: %w", err)
	}

	return count < throttle.maxAttempts, nil
}

/*
RecordFailure counts one failed attempt inside the window.

Description: The expiry is (re)set when the counter is created, so the
lockout clears itself after the window passes without further failures.
*/
func (throttle *RedisLoginThrottle) RecordFailure(context context.Context, key string) error {
	redisKey := constants.RedisPrefixLoginAttempts + key

	count, err := throttle.client.Incr(context, redisKey).Result()
	if err != nil {
		return fmt.Errorf("redis_login_throttle_incr_failed: %w", err)
	}

	// First failure in this window: start the clock.
	if count == 1 {
		if err := throttle.client.Expire(context, redisKey, throttle.window).Err(); err != nil {
			return fmt.Errorf("redis_login_throttle_expire_failed: %w", err)
		}
	}

	return nil
}

/*
Reset clears the failure counter after a successful login.
*/
func (throttle *RedisLoginThrottle) Reset(context context.Context, key string) error {
	redisKey := constants.RedisPrefixLoginAttempts + key

	if err := throttle.client.Del(context, redisKey).Err(); err != nil {
		return fmt.Errorf("redis_login_throttle_reset_failed: %w", err)
	}

	return nil
}
