package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/alamin00006/business-management/internal/domain"
	"github.com/alamin00006/business-management/internal/server/authctx"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// AuthMiddleware authenticates requests with an HS256 access token and
// stores the caller in the request context for handlers downstream.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := parseAccessToken(secret, r.Header.Get("Authorization"))
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(authctx.WithCurrentUser(r.Context(), user)))
		})
	}
}

// parseAccessToken verifies the Authorization header and extracts the
// caller identity. Refresh tokens carry token_type "refresh" and are
// rejected here; only the /auth/refresh handler accepts them.
func parseAccessToken(secret, header string) (authctx.CurrentUser, error) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return authctx.CurrentUser{}, errMissingToken
	}
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return authctx.CurrentUser{}, errInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["token_type"] != "access" {
		return authctx.CurrentUser{}, errInvalidToken
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return authctx.CurrentUser{}, errInvalidToken
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return authctx.CurrentUser{
		ID:    id,
		Email: email,
		Role:  domain.UserRole(role),
	}, nil
}

// RequireRole ensures the authenticated user has one of the allowed
// roles. With no arguments it only requires authentication.
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	allowed := make(map[domain.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := authctx.FromContext(r.Context())
			if u == nil {
				writeAuthError(w, http.StatusForbidden, "authentication required")
				return
			}
			if len(allowed) > 0 {
				if _, ok := allowed[u.Role]; !ok {
					writeAuthError(w, http.StatusForbidden, "insufficient role")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeAuthError mirrors the response envelope the handlers use, so
// clients see one error shape whether a request fails in middleware or
// in a handler.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "error",
		"message": message,
		"data":    nil,
		"error": map[string]any{
			"code":   status,
			"status": http.StatusText(status),
		},
	})
}
