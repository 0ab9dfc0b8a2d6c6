// Package middleware provides the HTTP middlewares of the development API:
// bearer token authentication, role gates and request logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/uecsr/portal/internal/models"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// BearerAuth rejects requests without a valid access token with 401 and
// stores the token claims in the request context.
func BearerAuth(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "Token no proporcionado")
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Token inválido o expirado")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalAuth stores the claims of a valid token when one is sent and
// otherwise lets the request through anonymously.
func OptionalAuth(tokens *Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if raw, ok := bearerToken(r); ok {
				if claims, err := tokens.Parse(raw); err == nil {
					r = r.WithContext(WithClaims(r.Context(), claims))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole answers 403 unless the authenticated user has one of roles.
// It must run after BearerAuth.
func RequireRole(roles ...models.Rol) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "Token no proporcionado")
				return
			}
			for _, rol := range roles {
				if claims.Rol == rol {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "No tiene permisos para esta acción")
		})
	}
}

// RequireModerator lets admins and staff through.
func RequireModerator(next http.Handler) http.Handler {
	return RequireRole(models.RolAdmin, models.RolStaff)(next)
}

// RequireAdmin lets admins through.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(models.RolAdmin)(next)
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims stored by BearerAuth or
// OptionalAuth.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": msg,
	})
}
