package handler

import (
	"aurafeed/internal/app/directory"
	"aurafeed/internal/app/feed"
	"aurafeed/internal/app/identity"
	"aurafeed/internal/configs"
	"aurafeed/internal/pkg/pow"
)

type AppDeps struct {
	Config     *configs.AppConfig
	Users      directory.UserStore
	Resolver   *identity.Resolver
	Feed       feed.Service
	PowManager *pow.Manager
}

// authUserFrom converts a stored account into the resolver's input shape.
// Empty signup metadata maps to a nil pointer so the resolver falls back to the email.
func authUserFrom(user *directory.User) identity.AuthUser {
	authUser := identity.AuthUser{
		ID:    user.ID,
		Email: user.Email,
	}

	meta := user.Metadata
	if meta.FullName != "" || meta.Nickname != "" || meta.Username != "" {
		authUser.Metadata = &meta
	}

	return authUser
}
