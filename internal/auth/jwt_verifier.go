package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"docsmith/internal/domain"
	"docsmith/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies asymmetric tokens against keys from a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from jwksURL.
// keyfunc caches the key set and refreshes it in the background.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "mode", "jwks", "jwks_url", jwksURL)

	return &JWKSVerifier{jwks: jwks, cancel: cancel, logger: logger}, nil
}

// VerifyToken accepts RS256 and ES256 tokens only
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	return parseClaims(tokenString, v.jwks.Keyfunc, []string{"RS256", "ES256"}, v.logger)
}

// Close stops the background key refresh
func (v *JWKSVerifier) Close() error {
	v.cancel()
	return nil
}

// HMACVerifier verifies HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a shared-secret verifier
func NewHMACVerifier(secret string, logger *slog.Logger) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	logger.Info("JWT verifier initialized", "mode", "hs256")
	return &HMACVerifier{secret: []byte(secret), logger: logger}, nil
}

// VerifyToken accepts HS256 tokens only
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	return parseClaims(tokenString, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, []string{"HS256"}, v.logger)
}

func (v *HMACVerifier) Close() error { return nil }

// parseClaims validates signature, expiry and algorithm, and requires a subject.
// Anonymous sessions are rejected.
func parseClaims(tokenString string, keyFn jwt.Keyfunc, algs []string, logger *slog.Logger) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, keyFn, jwt.WithValidMethods(algs))
	if err != nil || !token.Valid {
		logger.Debug("token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}

	if claims.Subject == "" {
		logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}
	if claims.IsAnonymous || claims.Role == "anon" {
		logger.Debug("anonymous token rejected", "user_id", claims.Subject)
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
