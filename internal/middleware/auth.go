// Package middleware contains HTTP middleware for the FraudBase API.
//
// Middleware functions follow the standard Go pattern of wrapping
// http.Handler and are composed with Stack.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/DukeRupert/fraudbase/internal/auth"
	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/handler"
)

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// =============================================================================
// Auth Middleware
// =============================================================================

// AuthMiddleware guards API routes with bearer tokens issued at login.
type AuthMiddleware struct {
	users  Authenticator
	logger *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(users Authenticator, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		users:  users,
		logger: logger,
	}
}

// RequireUser rejects requests without a valid "Authorization: Bearer"
// token with 401 and stores the user in the context otherwise. Retrieve it
// with auth.GetUser.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r)
		if !ok || token == "" {
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}

		user, err := m.users.Authenticate(r.Context(), token)
		if err != nil {
			handler.ErrorResponse(w, r, m.logger, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetUser(r.Context(), user)))
	})
}

// RequireAdmin is RequireUser followed by an administrator check (403).
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := auth.GetUser(r.Context())
		if user == nil || !user.IsAdmin {
			handler.ForbiddenResponse(w, r, m.logger)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// =============================================================================
// Middleware Stack Helpers
// =============================================================================

// Stack composes middleware so the first one listed is the outermost.
//
//	stack := Stack(loggingMw.Handler, authMw.RequireUser)
//	mux.Handle("GET /api/ufs", stack(ufsHandler))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

var (
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).RequireUser
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).RequireAdmin
)
