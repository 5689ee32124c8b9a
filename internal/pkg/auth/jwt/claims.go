package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the structure of the JSON Web Token (JWT) claims for Aura Feed.
// It includes standard claims required by the JWT specification and custom claims
// necessary for identifying the authenticated user.
type Payload struct {
	// StandardClaims embeds the necessary JWT standard fields such as Exp (Expiration),
	// Iat (Issued At), and Iss (Issuer). These are crucial for token validity checks.
	jwt.StandardClaims `json:"standard_claims"`

	// ID is the stable identifier of the authenticated user. It matches the
	// users table primary key and the profiles table foreign key.
	ID string `json:"id"`

	// Email is the account email, used as the fallback source for display
	// identity derivation when no persisted profile exists.
	Email string `json:"email"`
}
