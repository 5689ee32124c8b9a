/*
Package directory implements the user directory: authenticated account records and
the persisted display profiles consumed by the identity resolver.

This file defines the Postgres-backed store for both contracts. Profile creation
relies on the primary key constraint: a concurrent duplicate surfaces as
identity.ErrProfileExists so the resolver can re-fetch the winning record. Taken
usernames are retried with a random suffix.
*/
package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"aurafeed/internal/app/db"
	"aurafeed/internal/app/identity"
	"aurafeed/internal/pkg/randx"
)

// PostgresStore implements UserStore and identity.Directory over pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgresStore over an initialized connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// CreateUser inserts a new account record.
func (s *PostgresStore) CreateUser(ctx context.Context, user User) error {
	q := `
		INSERT INTO users (id, email, password_hash, meta_full_name, meta_nickname, meta_username, created_at, last_login_at)
		VALUES (@id, @email, @password_hash, @meta_full_name, @meta_nickname, @meta_username, now(), now())
	`

	args := pgx.NamedArgs{
		"id":             user.ID,
		"email":          user.Email,
		"password_hash":  user.PasswordHash,
		"meta_full_name": user.Metadata.FullName,
		"meta_nickname":  user.Metadata.Nickname,
		"meta_username":  user.Metadata.Username,
	}

	if _, err := s.pool.Exec(ctx, q, args); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("directory: create user: %w", err)
	}

	return nil
}

// GetByEmail fetches an account by email. Returns (nil, nil) when absent.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	q := `
		SELECT id, email, password_hash, meta_full_name, meta_nickname, meta_username, created_at, last_login_at
		FROM users WHERE email = $1
	`

	return s.scanUser(s.pool.QueryRow(ctx, q, email))
}

// GetByID fetches an account by id. Returns (nil, nil) when absent.
func (s *PostgresStore) GetByID(ctx context.Context, id string) (*User, error) {
	q := `
		SELECT id, email, password_hash, meta_full_name, meta_nickname, meta_username, created_at, last_login_at
		FROM users WHERE id = $1
	`

	return s.scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresStore) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash,
		&u.Metadata.FullName, &u.Metadata.Nickname, &u.Metadata.Username,
		&u.CreatedAt, &u.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory: fetch user: %w", err)
	}

	return &u, nil
}

// UpdateLastLogin stamps the account's last_login_at with the current time.
func (s *PostgresStore) UpdateLastLogin(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("directory: update last login: %w", err)
	}
	return nil
}

// GetProfile fetches the persisted display profile for the user.
// Returns (nil, nil) when no profile exists.
func (s *PostgresStore) GetProfile(ctx context.Context, userID string) (*identity.Identity, error) {
	q := `SELECT id, full_name, nickname, username FROM profiles WHERE id = $1`

	var ident identity.Identity
	err := s.pool.QueryRow(ctx, q, userID).Scan(&ident.ID, &ident.FullName, &ident.Nickname, &ident.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("directory: fetch profile: %w", err)
	}

	return &ident, nil
}

// usernameRetryLimit bounds suffix attempts when the chosen username is taken.
const usernameRetryLimit = 3

// CreateProfile persists a display profile. A concurrent creation for the same
// user id surfaces as identity.ErrProfileExists. A taken username is retried
// with a random suffix before giving up.
func (s *PostgresStore) CreateProfile(ctx context.Context, ident identity.Identity) (*identity.Identity, error) {
	q := `
		INSERT INTO profiles (id, full_name, nickname, username, created_at)
		VALUES (@id, @full_name, @nickname, @username, now())
	`

	username := ident.Username

	for attempt := 0; ; attempt++ {
		args := pgx.NamedArgs{
			"id":        ident.ID,
			"full_name": ident.FullName,
			"nickname":  ident.Nickname,
			"username":  username,
		}

		_, err := s.pool.Exec(ctx, q, args)
		if err == nil {
			ident.Username = username
			return &ident, nil
		}

		switch db.UniqueConstraint(err) {
		case "profiles_pkey":
			return nil, identity.ErrProfileExists

		case "profiles_username_key":
			if attempt >= usernameRetryLimit {
				return nil, fmt.Errorf("directory: create profile: username %q exhausted retries", ident.Username)
			}
			suffix, suffixErr := randx.UsernameSuffix()
			if suffixErr != nil {
				return nil, fmt.Errorf("directory: create profile: %w", suffixErr)
			}
			username = ident.Username + "_" + suffix

		default:
			return nil, fmt.Errorf("directory: create profile: %w", err)
		}
	}
}
