// Copyright (c) 2026 Savoria. All rights reserved.
// Author: platform@savoria.app

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/savoria-app/savoria/internal/platform/apperr"
	"github.com/savoria-app/savoria/internal/platform/dberr"
	"github.com/savoria-app/savoria/internal/subscription"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types so callers never see storage implementation details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the canonical select list for hydrating a [User].
const userColumns = `
	id, email, passwordhash, displayname, role,
	subscriptionstatus, subscriptionendsat, isverified, createdat, updatedat`

// scanUser hydrates a [User] from a single-row query result.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Role,
		&user.SubscriptionStatus,
		&user.SubscriptionEndsAt,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, email, passwordhash, displayname, role,
			subscriptionstatus, subscriptionendsat, isverified, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.Role,
		user.SubscriptionStatus,
		user.SubscriptionEndsAt,
		user.IsVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(fmt.Errorf("postgres_user_repo_create_failed: %w", err))
	}

	return nil
}

/*
FindByID retrieves a user record by primary key.

Returns apperr.NotFound when the row no longer exists — a deleted account is
an expected outcome for the authorization guard, never a server error.
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE id = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by their unique canonical email address.
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users.account WHERE email = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

/*
MarkVerified flips the isverified flag after a successful email confirmation.
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	const query = `
		UPDATE users.account
		SET isverified = TRUE, updatedat = $2
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_mark_verified_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
UpdateSubscription replaces the subscription status and end date.

Description: The payment-webhook collaborator calls this after the provider
confirms a billing event; the auth core itself never writes these fields.
*/
func (repository *PostgresUserRepository) UpdateSubscription(context context.Context, userID string, status subscription.Status, endsAt *time.Time) error {
	const query = `
		UPDATE users.account
		SET subscriptionstatus = $2, subscriptionendsat = $3, updatedat = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, userID, status, endsAt, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_subscription_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
List returns a page of accounts ordered by creation time, newest first.
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, error) {
	query := `SELECT ` + userColumns + `
		FROM users.account
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_user_repo_list_rows_failed: %w", err)
	}

	return users, nil
}

/*
Count returns the total number of accounts.
*/
func (repository *PostgresUserRepository) Count(context context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM users.account`

	var total int
	if err := repository.pool.QueryRow(context, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	return total, nil
}
