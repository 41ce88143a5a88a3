package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"docsmith/internal/domain"
	"docsmith/internal/domain/models"
	"docsmith/internal/httputil"
)

type stubVerifier struct{}

func (stubVerifier) VerifyToken(token string) (*models.Claims, error) {
	if token != "good" {
		return nil, domain.ErrUnauthorized
	}
	return &models.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"}}, nil
}

func (stubVerifier) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// echoUser writes the authenticated user id as the body
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(httputil.GetUserID(r)))
})

func TestAuthMiddleware(t *testing.T) {
	h := AuthMiddleware(stubVerifier{}, discardLogger())(echoUser)

	tests := []struct {
		name   string
		method string
		path   string
		header string
		status int
		body   string
	}{
		{name: "valid token", method: http.MethodGet, path: "/api/projects", header: "Bearer good", status: http.StatusOK, body: "user-7"},
		{name: "missing header", method: http.MethodGet, path: "/api/projects", status: http.StatusUnauthorized},
		{name: "wrong scheme", method: http.MethodGet, path: "/api/projects", header: "Basic good", status: http.StatusUnauthorized},
		{name: "empty bearer", method: http.MethodGet, path: "/api/projects", header: "Bearer  ", status: http.StatusUnauthorized},
		{name: "bad token", method: http.MethodGet, path: "/api/projects", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "health is public", method: http.MethodGet, path: "/health", status: http.StatusOK, body: ""},
		{name: "preflight passes", method: http.MethodOptions, path: "/api/projects", status: http.StatusOK, body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			} else {
				assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()
	DevAuthMiddleware("dev-user")(echoUser).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	assert.Equal(t, "dev-user", rec.Body.String())
}

func TestRecovery(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("boom"))
	})
	rec := httptest.NewRecorder()
	Recovery(discardLogger())(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")

	// A started response is left alone
	partial := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		panic("late")
	})
	rec = httptest.NewRecorder()
	Recovery(discardLogger())(partial).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	created := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	rec := httptest.NewRecorder()
	RequestLogger(discardLogger())(created).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
