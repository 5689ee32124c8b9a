/*
Package identity contains the display identity model and the resolution logic that
derives a stable {nickname, username, fullName} record for an authenticated user.

This file defines the data structures shared between the resolver and the
Directory adapters.
*/
package identity

import "context"

// Identity is the resolved, display-facing user record. After resolution the
// Nickname and Username fields are always non-empty.
type Identity struct {
	// ID is the opaque, stable identifier matching the authenticated user.
	ID string `json:"id"`

	// FullName is the optional full name captured at signup. May be empty.
	FullName string `json:"fullName"`

	// Nickname is the name shown next to posts.
	Nickname string `json:"nickname"`

	// Username is the handle shown as #username.
	Username string `json:"username"`
}

// SignupMetadata carries the optional display fields captured by the signup form.
// Absent fields are empty strings.
type SignupMetadata struct {
	FullName string
	Nickname string
	Username string
}

// AuthUser is the authenticated user record handed to the resolver by the session layer.
type AuthUser struct {
	// ID is the account identifier issued at registration.
	ID string

	// Email is the account email. May be empty for accounts created through
	// channels that do not collect one.
	Email string

	// Metadata is the signup metadata blob, nil when the account was created
	// without any display fields.
	Metadata *SignupMetadata
}

// Directory is the profile store consumed by the resolver.
// GetProfile returns (nil, nil) when no profile exists for the user.
// CreateProfile returns ErrProfileExists when another writer won the creation race.
type Directory interface {
	GetProfile(ctx context.Context, userID string) (*Identity, error)
	CreateProfile(ctx context.Context, ident Identity) (*Identity, error)
}
