package auth

import (
	"context"
	"net/http"
	"strings"

	"inkwell/internal/account"
)

type contextKey string

const claimsKey contextKey = "auth.claims"

// ClaimsFromContext returns the claims stored by RequireAuth, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// RequireAuth rejects requests without a valid Bearer access token and puts
// the claims on the request context.
func (s *Service) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			http.Error(w, "missing authorization token", http.StatusUnauthorized)
			return
		}

		claims, err := s.VerifyAccess(tokenString)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches claims when a valid Bearer token is present but
// never rejects: handlers downgrade to their public view for anonymous or
// invalid callers.
func (s *Service) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString != "" && tokenString != header {
			if claims, err := s.VerifyAccess(tokenString); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
			}
		}
		next.ServeHTTP(w, r)
	}
}

// RequireRole further restricts an authenticated route to the given roles.
func (s *Service) RequireRole(next http.HandlerFunc, roles ...account.Role) http.HandlerFunc {
	return s.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		for _, role := range roles {
			if claims.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		http.Error(w, "insufficient permissions", http.StatusForbidden)
	})
}
