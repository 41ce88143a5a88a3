package auth

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsmith/internal/domain"
	"docsmith/internal/domain/models"
)

const testSecret = "test-secret-with-enough-bytes-0123456789"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims models.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims() models.Claims {
	return models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "authenticated",
	}
}

func TestHMACVerifier(t *testing.T) {
	v, err := NewHMACVerifier(testSecret, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer v.Close()

	claims, err := v.VerifyToken(sign(t, jwt.SigningMethodHS256, []byte(testSecret), validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-42", claims.GetUserID())

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	noSubject := validClaims()
	noSubject.Subject = ""
	anon := validClaims()
	anon.Role = "anon"
	anonymous := validClaims()
	anonymous.IsAnonymous = true

	rejected := map[string]string{
		"expired":        sign(t, jwt.SigningMethodHS256, []byte(testSecret), expired),
		"no subject":     sign(t, jwt.SigningMethodHS256, []byte(testSecret), noSubject),
		"anon role":      sign(t, jwt.SigningMethodHS256, []byte(testSecret), anon),
		"anonymous flag": sign(t, jwt.SigningMethodHS256, []byte(testSecret), anonymous),
		"wrong secret":   sign(t, jwt.SigningMethodHS256, []byte("another-secret"), validClaims()),
		"wrong method":   sign(t, jwt.SigningMethodHS512, []byte(testSecret), validClaims()),
		"garbage":        "not.a.token",
	}
	for name, token := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := v.VerifyToken(token)
			assert.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestNewVerifiers_RequireConfiguration(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := NewHMACVerifier("", logger)
	assert.Error(t, err)

	_, err = NewJWKSVerifier("", logger)
	assert.Error(t, err)
}
