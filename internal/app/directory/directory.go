/*
Package directory implements the user directory: authenticated account records and
the persisted display profiles consumed by the identity resolver.

This file defines the account model and the store contracts the HTTP layer depends on.
*/
package directory

import (
	"context"
	"errors"
	"time"

	"aurafeed/internal/app/identity"
)

// ErrUserExists is returned by CreateUser when the email or username is already taken.
var ErrUserExists = errors.New("directory: user already exists")

// User is an authenticated account record. The signup metadata fields feed the
// identity resolver's fallback chain and are immutable after registration.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Metadata     identity.SignupMetadata
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// UserStore is the account persistence contract.
// GetByEmail and GetByID return (nil, nil) when no account matches.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateLastLogin(ctx context.Context, id string) error
}
