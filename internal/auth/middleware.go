package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Middleware extracts a bearer token, validates it, and stores the resulting
// principal in the request context. Requests without a token, or with an
// invalid one, proceed as anonymous; guarded routes deny them downstream.
func Middleware(tm *TokenManager, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("component", "auth_middleware").Logger()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := Anonymous()

			if token := bearerToken(r); token != "" {
				claims, err := tm.Validate(token)
				if err != nil {
					log.Debug().Err(err).Msg("rejected access token")
				} else if p, err := claims.Principal(); err == nil {
					principal = p
				}
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
