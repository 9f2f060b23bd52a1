package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/payhook/payments-backend/internal/api/httpx"
	"github.com/payhook/payments-backend/internal/auth"
	"github.com/payhook/payments-backend/internal/models"
	"github.com/payhook/payments-backend/internal/services"
)

type userKey struct{}

// CurrentUser returns the authenticated user placed in ctx by Auth.
func CurrentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey{}).(models.User)
	return u, ok
}

type AuthMiddleware struct {
	tm    *auth.TokenManager
	users *services.UserService
}

func NewAuthMiddleware(tm *auth.TokenManager, users *services.UserService) *AuthMiddleware {
	return &AuthMiddleware{tm: tm, users: users}
}

// Auth validates the bearer token and loads the subject user into ctx.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		uid, err := m.tm.Validate(token)
		if err != nil {
			msg := "invalid access token"
			if errors.Is(err, auth.ErrMissingSubject) {
				msg = "token has no subject"
			}
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", msg)
			return
		}

		u, err := m.users.Get(r.Context(), uid)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid access token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
	})
}

// RequireAdmin allows only admin users past; it assumes Auth already ran.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		if err := m.users.RequireAdmin(u); err != nil {
			httpx.WriteError(w, http.StatusForbidden, "forbidden", "not enough privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}
