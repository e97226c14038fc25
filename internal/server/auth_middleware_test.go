package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/server/authctx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func accessToken(t *testing.T, role domain.UserRole) string {
	t.Helper()
	return signToken(t, jwt.MapClaims{
		"sub":        "42",
		"email":      "staff@example.com",
		"role":       string(role),
		"token_type": "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
}

func TestAuthMiddlewareSetsCurrentUser(t *testing.T) {
	var got *authctx.CurrentUser
	handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = authctx.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken(t, domain.RoleStaff))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "staff@example.com", got.Email)
	assert.Equal(t, domain.RoleStaff, got.Role)
}

func TestAuthMiddlewareRejections(t *testing.T) {
	refresh := signToken(t, jwt.MapClaims{
		"sub":        "42",
		"token_type": "refresh",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	badSubject := signToken(t, jwt.MapClaims{
		"sub":        "not-a-number",
		"token_type": "access",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, jwt.MapClaims{
		"sub":        "42",
		"token_type": "access",
		"exp":        time.Now().Add(-time.Hour).Unix(),
	})

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not a bearer token", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"refresh token on access endpoint", "Bearer " + refresh},
		{"non-numeric subject", "Bearer " + badSubject},
		{"expired token", "Bearer " + expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assertErrorEnvelope(t, rec, http.StatusUnauthorized)
		})
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("allows listed role", func(t *testing.T) {
		handler := RequireRole(domain.RoleAdmin, domain.RoleManager)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{ID: 1, Role: domain.RoleManager}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("rejects other roles", func(t *testing.T) {
		handler := RequireRole(domain.RoleAdmin)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(authctx.WithCurrentUser(req.Context(), authctx.CurrentUser{ID: 1, Role: domain.RoleStaff}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assertErrorEnvelope(t, rec, http.StatusForbidden)
	})

	t.Run("rejects unauthenticated", func(t *testing.T) {
		handler := RequireRole()(next)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

// assertErrorEnvelope checks the middleware emits the same response
// shape the handlers do.
func assertErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	var body struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Error   *struct {
			Code   int    `json:"code"`
			Status string `json:"status"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body.Status)
	assert.NotEmpty(t, body.Message)
	require.NotNil(t, body.Error)
	assert.Equal(t, code, body.Error.Code)
	assert.Equal(t, http.StatusText(code), body.Error.Status)
}
