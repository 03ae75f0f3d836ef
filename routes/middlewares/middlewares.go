package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/oauth"
)

// RequireRole authorizes the bearer token and checks that its roles claim
// contains one of the given roles.
func RequireRole(secret string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return chi.Chain(oauth.Authorize(secret, nil), hasRole(roles...)).Handler(next)
	}
}

// Admin guards the form authoring surface.
func Admin(secret string) func(http.Handler) http.Handler {
	return RequireRole(secret, "admin")
}

// Client guards the form presentation and answer surface.
func Client(secret string) func(http.Handler) http.Handler {
	return RequireRole(secret, "client")
}

func hasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := r.Context().Value(oauth.ClaimsContext).(map[string]string)

			allowed := false
			if rolesClaim, ok := claims["roles"]; ok {
				for _, have := range strings.Split(rolesClaim, ",") {
					for _, want := range roles {
						if have == want {
							allowed = true
							break
						}
					}
				}
			}

			if !allowed {
				http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserID extracts the authenticated user's id from the token claims.
func UserID(r *http.Request) (int, bool) {
	claims, ok := r.Context().Value(oauth.ClaimsContext).(map[string]string)
	if !ok {
		return 0, false
	}
	id, err := strconv.Atoi(claims["user_id"])
	if err != nil {
		return 0, false
	}
	return id, true
}
