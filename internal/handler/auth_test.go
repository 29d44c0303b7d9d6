package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/fraudbase/internal/auth"
	"github.com/DukeRupert/fraudbase/internal/domain"
)

// =============================================================================
// Test Helpers
// =============================================================================

// asUser stands in for the auth middleware: it stores u in the request
// context, or passes the request through untouched when u is nil.
func asUser(u *domain.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u != nil {
				r = r.WithContext(auth.SetUser(r.Context(), u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func passthrough(next http.Handler) http.Handler { return next }

var (
	operator = &domain.User{ID: 7, Login: "agente", Nome: "Agente Silva"}
	admin    = &domain.User{ID: 1, Login: "admin", Nome: "Administrador", IsAdmin: true}
)

func do(t *testing.T, mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// Login Tests
// =============================================================================

func newAuthMux(svc *mockUserService) *http.ServeMux {
	mux := http.NewServeMux()
	NewAuthHandler(svc, testLogger()).RegisterRoutes(mux, passthrough)
	return mux
}

func TestLogin_Success(t *testing.T) {
	svc := &mockUserService{
		LoginFunc: func(ctx context.Context, login, password string) (*domain.LoginResult, error) {
			assert.Equal(t, "admin", login)
			assert.Equal(t, "segredo123", password)
			return &domain.LoginResult{Token: "tok", UserID: 1, Username: "admin", Nome: "Administrador", IsAdmin: true}, nil
		},
	}

	rec := do(t, newAuthMux(svc), http.MethodPost, "/api/login", `{"username":" admin ","password":"segredo123"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "tok", got["token"])
	assert.Equal(t, true, got["isAdmin"])
	assert.Equal(t, float64(1), got["userId"])
	assert.Equal(t, "admin", got["username"])
	assert.Equal(t, "Administrador", got["nome"])
}

func TestLogin_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		loginErr   error
		wantStatus int
		wantCode   string
	}{
		{"empty body", "", nil, http.StatusBadRequest, domain.EINVALID},
		{"malformed json", `{"username":`, nil, http.StatusBadRequest, domain.EINVALID},
		{"missing password", `{"username":"admin"}`, nil, http.StatusBadRequest, domain.EINVALID},
		{"wrong credentials", `{"username":"admin","password":"x"}`,
			domain.Unauthorized("UserService.Login", "Usuário ou senha inválidos"), http.StatusUnauthorized, domain.EUNAUTHORIZED},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			svc := &mockUserService{
				LoginFunc: func(ctx context.Context, login, password string) (*domain.LoginResult, error) {
					called = true
					return nil, tt.loginErr
				},
			}

			req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			newAuthMux(svc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Error.Code)
			assert.Equal(t, tt.loginErr != nil, called, "service should only be called with complete credentials")
		})
	}
}

func TestLogin_LimiterWrapsRoute(t *testing.T) {
	limited := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ErrorResponse(w, r, testLogger(), domain.RateLimit("Login"))
		})
	}
	mux := http.NewServeMux()
	NewAuthHandler(&mockUserService{}, testLogger()).RegisterRoutes(mux, limited)

	rec := do(t, mux, http.MethodPost, "/api/login", `{"username":"a","password":"b"}`)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
