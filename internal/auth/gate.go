package auth

import (
	"context"
	"net/http"
	"strings"

	"ProductCatalog/pkg/kit"
)

const bearerPrefix = "Bearer "

// Verifier decides whether a presented bearer token is acceptable. The
// middleware has already checked that the credential marker is present, so an
// implementation only sees the token itself.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// MarkerVerifier accepts any token. Presence of the "Bearer " marker is the
// whole check; no identity verification happens. Swap in TokenVerifier for
// signed-token validation.
type MarkerVerifier struct{}

func (MarkerVerifier) Verify(context.Context, string) error { return nil }

// TokenVerifier validates HS256-signed tokens issued by TokenMaker.
type TokenVerifier struct {
	jwt *TokenMaker
}

func NewTokenVerifier(jwt *TokenMaker) *TokenVerifier {
	return &TokenVerifier{jwt: jwt}
}

func (v *TokenVerifier) Verify(_ context.Context, token string) error {
	_, err := v.jwt.Parse(token)
	return err
}

// RequireAuth rejects requests whose Authorization header is missing or does
// not begin with the bearer marker, then hands the token to the Verifier.
// Failures short-circuit before the wrapped handler runs.
func RequireAuth(v Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, bearerPrefix) {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing or malformed credential", kit.CodeUnauthorized)
				return
			}

			if err := v.Verify(r.Context(), strings.TrimPrefix(authz, bearerPrefix)); err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", kit.CodeUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
