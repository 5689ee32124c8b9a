/*
Package identity contains the display identity model and the resolution logic that
derives a stable {nickname, username, fullName} record for an authenticated user.

This file defines the Resolver, which looks up the persisted profile, lazily creates
one from signup metadata, and otherwise falls back to an in-memory identity derived
from the account email.
*/
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"aurafeed/internal/pkg/logx"
)

const (
	// DefaultNickname is the display name used when no metadata or email is available.
	DefaultNickname = "User"

	// DefaultUsername is the handle used when no metadata or email is available.
	DefaultUsername = "user"
)

// ErrProfileExists is returned by Directory.CreateProfile when a profile for the
// same user id was created concurrently. The resolver re-fetches the winner.
var ErrProfileExists = errors.New("identity: profile already exists")

// Resolver derives the display identity for an authenticated user.
type Resolver struct {
	directory Directory

	logger zerolog.Logger
}

// NewResolver constructs a Resolver backed by the given Directory.
func NewResolver(directory Directory) *Resolver {
	return &Resolver{
		directory: directory,
		logger:    logx.Logger().With().Str("component", "IdentityResolver").Logger(),
	}
}

// Resolve produces the display identity for authUser. It never fails: Directory
// errors degrade to an in-memory identity derived from signup metadata or the
// account email. A persisted profile, when present, is returned verbatim.
func (r *Resolver) Resolve(ctx context.Context, authUser AuthUser) Identity {
	profile, err := r.directory.GetProfile(ctx, authUser.ID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", authUser.ID).Msg("Profile lookup failed. Falling back to derived identity.")
		return r.derive(authUser)
	}
	if profile != nil {
		return *profile
	}

	meta := authUser.Metadata
	if meta == nil || (meta.Nickname == "" && meta.FullName == "") {
		// Nothing to persist. Derive from the email alone.
		return r.derive(authUser)
	}

	created, err := r.directory.CreateProfile(ctx, r.derive(authUser))
	if err != nil {
		if errors.Is(err, ErrProfileExists) {
			// Lost the creation race. The winner's record is canonical.
			if winner, fetchErr := r.directory.GetProfile(ctx, authUser.ID); fetchErr == nil && winner != nil {
				return *winner
			}
		}

		r.logger.Warn().Err(err).Str("user_id", authUser.ID).Msg("Profile creation failed. Continuing with in-memory identity.")
		return r.derive(authUser)
	}

	return *created
}

// derive builds the identity from signup metadata and the account email using the
// fallback chain nickname <- metadata.nickname <- metadata.fullName <- email local
// part <- "User", and username <- metadata.username <- email local part <- "user".
func (r *Resolver) derive(authUser AuthUser) Identity {
	ident := Identity{ID: authUser.ID}

	local, hasLocal := localPartOf(authUser.Email)

	if meta := authUser.Metadata; meta != nil {
		ident.FullName = meta.FullName

		switch {
		case meta.Nickname != "":
			ident.Nickname = meta.Nickname
		case meta.FullName != "":
			ident.Nickname = meta.FullName
		default:
			ident.Nickname = DefaultNickname
		}

		switch {
		case meta.Username != "":
			ident.Username = meta.Username
		case hasLocal:
			ident.Username = local
		default:
			ident.Username = DefaultUsername
		}

		return ident
	}

	if hasLocal {
		ident.Nickname = local
		ident.Username = local
		return ident
	}

	ident.Nickname = DefaultNickname
	ident.Username = DefaultUsername
	return ident
}

// localPartOf returns the substring of email before the first '@', and whether
// such a part exists.
func localPartOf(email string) (string, bool) {
	at := strings.Index(email, "@")
	if at <= 0 {
		return "", false
	}
	return email[:at], true
}
