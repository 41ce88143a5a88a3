package auth

import "docsmith/internal/domain/models"

// TokenVerifier validates bearer tokens. The middleware only depends on this,
// so JWKS and shared-secret verification are interchangeable.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns its claims.
	// Any failure is reported as domain.ErrUnauthorized.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases resources held by the verifier
	Close() error
}
