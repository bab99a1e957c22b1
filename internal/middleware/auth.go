package middleware

import (
	"net/http"
	"strings"

	"github.com/selfgrowth/tracker/internal/ctxkeys"
	"github.com/selfgrowth/tracker/internal/model"
	"github.com/selfgrowth/tracker/internal/response"
)

// Authenticator resolves a token to the user it was issued for.
type Authenticator interface {
	Authenticate(token string) (*model.User, error)
}

// AuthMiddleware reads a JWT from the Authorization header (falling back to
// the auth_token cookie) and adds the user to the context when it is valid.
// Requests without a valid token pass through anonymously.
func AuthMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.Authenticate(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			response.Error(w, http.StatusUnauthorized, "Not authorized, no valid token")
			return
		}

		next.ServeHTTP(w, r)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	cookie, err := r.Cookie("auth_token")
	if err == nil {
		return cookie.Value
	}

	return ""
}
