package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gather/server/internal/models"
)

type contextKey string

const UserContextKey contextKey = "user"

// Authenticator resolves the user behind a bearer token.
// services.UserService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// GetUserFromContext retrieves the authenticated user from request context
func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// bearerToken extracts the token from the Authorization header. present is
// false when the header is absent; a header that is not a well-formed bearer
// credential yields present=true and an empty token.
func bearerToken(r *http.Request) (token string, present bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, value, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", true
	}
	return strings.TrimSpace(value), true
}

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r)
			if !present {
				WriteError(w, r, models.ErrAuthRequired)
				return
			}
			if token == "" {
				WriteError(w, r, models.ErrInvalidToken)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth lets anonymous requests through but still rejects a token
// that is present and invalid
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := bearerToken(r)
			if !present {
				next.ServeHTTP(w, r)
				return
			}
			if token == "" {
				WriteError(w, r, models.ErrInvalidToken)
				return
			}

			user, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRole lets through authenticated users holding one of roles.
// It must run after RequireAuth.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUserFromContext(r.Context())
			if user == nil {
				WriteError(w, r, models.ErrAuthRequired)
				return
			}
			if !allowed[user.Role] {
				WriteError(w, r, models.ErrInsufficientRole)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
