package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT claim set accepted by the API. Only the subject is
// required; the rest is informational.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email,omitempty"`
	Role                 string `json:"role,omitempty"` // "authenticated" or "anon" on hosted auth providers
	IsAnonymous          bool   `json:"is_anonymous,omitempty"`
}

// GetUserID returns the user ID from the JWT subject claim.
// This is the primary identifier for the authenticated user.
func (c *Claims) GetUserID() string {
	return c.Subject
}
