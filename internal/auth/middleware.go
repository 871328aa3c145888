package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// contextKey is unexported so only this package can set or read the claims.
type contextKey string

const claimsKey contextKey = "claims"

// RevocationChecker is an optional server-side check run after a token has
// verified. Verification itself never consults it.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, claims *Claims) (bool, error)
}

// GateOption configures RequireBearer.
type GateOption func(*gate)

// WithRevocation adds a revocation check to the gate.
func WithRevocation(rc RevocationChecker) GateOption {
	return func(g *gate) { g.revocation = rc }
}

type gate struct {
	tokens     *TokenService
	revocation RevocationChecker
}

// RequireBearer is a middleware that enforces a valid bearer token.
//
//	Authorization: Bearer <jwt>
//
// No header (or not a Bearer header) → 401 "Unauthorized".
// A token that fails verification or is revoked → 401 "Invalid token".
// On success the verified claims go into the request context; the token is
// never refreshed or extended here.
func RequireBearer(tokens *TokenService, opts ...GateOption) func(http.Handler) http.Handler {
	g := &gate{tokens: tokens}
	for _, opt := range opts {
		opt(g)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, ok := BearerToken(r)
			if !ok {
				writeUnauthorized(w, "Unauthorized")
				return
			}

			claims, err := g.tokens.Verify(tokenStr)
			if err != nil {
				writeUnauthorized(w, "Invalid token")
				return
			}

			if g.revocation != nil {
				revoked, err := g.revocation.IsRevoked(r.Context(), claims)
				if err != nil || revoked {
					writeUnauthorized(w, "Invalid token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims RequireBearer stored for this request.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively; an empty token counts as absent.
func BearerToken(r *http.Request) (string, bool) {
	hdr := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(hdr, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// writeUnauthorized mirrors the handler package's error body shape.
func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}
