package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/KnightCoder27/Skael/internal/auth"
)

type ctxKey int

const claimsKey ctxKey = 0

// requireAuth verifies the Authorization bearer token before calling next.
// Authentication failures are always surfaced as 401, never absorbed.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			jsonError(w, "authorization header required", http.StatusUnauthorized)
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == "" || tokenString == header {
			jsonError(w, "bearer token required", http.StatusUnauthorized)
			return
		}

		claims, err := h.tokens.VerifyToken(tokenString)
		if err != nil {
			jsonError(w, "invalid or expired token", http.StatusUnauthorized)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// claimsFrom returns the verified claims placed by requireAuth, or nil on
// unauthenticated routes.
func claimsFrom(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsKey).(*auth.Claims)
	return c
}
