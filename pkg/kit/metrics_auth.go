package kit

import (
	"net/http"
	"strings"
)

// MetricsAuth gates the metrics endpoint behind a static bearer token. An
// empty configured token keeps the endpoint closed.
func MetricsAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				WriteError(w, r, http.StatusForbidden, "forbidden", CodeUnauthorized)
				return
			}

			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				WriteError(w, r, http.StatusForbidden, "forbidden", CodeUnauthorized)
				return
			}
			if strings.TrimPrefix(authz, "Bearer ") != token {
				WriteError(w, r, http.StatusForbidden, "forbidden", CodeUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
