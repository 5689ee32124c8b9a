/*
Package handler provides HTTP handler functions for account registration and login.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"time"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"aurafeed/internal/app/directory"
	"aurafeed/internal/app/identity"
	"aurafeed/internal/pkg/auth/jwt"
	"aurafeed/internal/pkg/errs"
	"aurafeed/internal/pkg/logx"
	"aurafeed/internal/pkg/randx"
	"aurafeed/internal/pkg/req"
	"aurafeed/internal/pkg/resp"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`

	// Optional display metadata captured at signup. The identity resolver derives
	// missing pieces from the other fields or the email local part.
	FullName string `json:"fullName,omitempty"`
	Nickname string `json:"nickname,omitempty"`
	Username string `json:"username,omitempty"`
}

// HandleRegister processes the request to create a new account. Registration is
// gated by a Proof-of-Work token to slow down scripted signups.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		if !deps.PowManager.CheckProofToken(r) {
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeRequired))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !emailRegex.MatchString(input.Email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		if input.Username != "" && !usernameRegex.MatchString(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		user := directory.User{
			ID:           randx.NewID(),
			Email:        input.Email,
			PasswordHash: string(hashedPassword),
			Metadata: identity.SignupMetadata{
				FullName: input.FullName,
				Nickname: input.Nickname,
				Username: input.Username,
			},
		}

		if err := deps.Users.CreateUser(r.Context(), user); err != nil {
			if errors.Is(err, directory.ErrUserExists) {
				logx.Warn("registration conflict: email already exists", "email", input.Email)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}

			logx.Error(err, "failed to create user in database")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Users.UpdateLastLogin(r.Context(), user.ID); err != nil {
			logx.Error(err, "register: failed to update last_login_at", "user_id", user.ID)
		}

		ident := deps.Resolver.Resolve(r.Context(), authUserFrom(&user))

		payload := &jwt.Payload{
			ID:    user.ID,
			Email: user.Email,
		}

		tokenString, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":       tokenString,
			"identity":    ident,
			"lastLoginAt": time.Now().Format(time.RFC3339),
		})
	}
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies account credentials and issues a JWT token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Users.GetByEmail(r.Context(), input.Email)
		if err != nil {
			logx.Error(err, "login: user fetch failed", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if user == nil {
			logx.Warn("login: unknown email", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "email", input.Email)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := deps.Users.UpdateLastLogin(r.Context(), user.ID); err != nil {
			logx.Error(err, "login: failed to update last_login_at", "user_id", user.ID)
		}

		ident := deps.Resolver.Resolve(r.Context(), authUserFrom(user))

		payload := &jwt.Payload{
			ID:    user.ID,
			Email: user.Email,
		}

		token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "login: jwt generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token":       token,
			"identity":    ident,
			"lastLoginAt": time.Now().Format(time.RFC3339),
		})
	}
}
