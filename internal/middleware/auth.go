package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
	"github.com/ayush/rv-checklist/backend/internal/httpx"
	"github.com/ayush/rv-checklist/backend/internal/models"
)

// Authenticator resolves a bearer token to an active user identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type userContextKey struct{}

// WithUser stores the authenticated identity in ctx.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, u)
}

// UserFromContext returns the identity stored by RequireAuth.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userContextKey{}).(*models.User)
	return u, ok && u != nil
}

// UserIDFromContext returns the authenticated user id, or "".
func UserIDFromContext(ctx context.Context) string {
	if u, ok := UserFromContext(ctx); ok {
		return u.ID
	}
	return ""
}

// RequireAuth is middleware that validates the Authorization bearer token
// and injects the resolved identity into the request context.
func RequireAuth(authn Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, r, log, apperr.New(apperr.KindUnauthenticated, "missing bearer token"))
				return
			}

			user, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				httpx.WriteError(w, r, log, err)
				return
			}

			noteUser(r.Context(), user.ID)
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireRole rejects authenticated callers lacking role. It must run after
// RequireAuth.
func RequireRole(role models.Role, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				httpx.WriteError(w, r, log, apperr.ErrUnauthenticated)
				return
			}
			if user.Role != role {
				httpx.WriteError(w, r, log, apperr.New(apperr.KindForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
