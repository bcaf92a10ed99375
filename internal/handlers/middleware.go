package handlers

import (
	"net/http"
	"strings"

	"gitlab.com/codetrack/judged/internal/core/ports/primary"
)

type MiddlewareProvider struct {
	verifier primary.TokenVerifier
}

func New(verifier primary.TokenVerifier) *MiddlewareProvider {
	return &MiddlewareProvider{
		verifier: verifier,
	}
}

// AdminOnly guards contest-admin routes with a bearer token carrying the
// admin role
func (m *MiddlewareProvider) AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Authorization header missing", http.StatusUnauthorized)
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if err := m.verifier.VerifyAdminToken(r.Context(), tokenString); err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	}
}
