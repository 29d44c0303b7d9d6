package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORS_Preflight(t *testing.T) {
	c := NewCORS([]string{"http://localhost:5173/", " https://app.example.gov.br"})
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	req := httptest.NewRequest(http.MethodOptions, "/api/consulta-envolvidos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "GET")
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()

	c.Handler(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if called {
		t.Error("preflight must not reach the handler")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("unexpected allow-origin %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got == "" {
		t.Error("expected allow-headers on an accepted preflight")
	}
	if got := rec.Header().Get("Access-Control-Max-Age"); got != "600" {
		t.Errorf("unexpected max-age %q", got)
	}
}

func TestCORS_SimpleRequest(t *testing.T) {
	c := NewCORS([]string{"https://app.example.gov.br"})
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/ufs", nil)
	req.Header.Set("Origin", "https://app.example.gov.br")
	rec := httptest.NewRecorder()
	c.Handler(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example.gov.br" {
		t.Error("expected allow-origin header")
	}
	if rec.Header().Get("Access-Control-Expose-Headers") == "" {
		t.Error("expected exposed headers for report downloads")
	}
}

func TestCORS_UnknownOrigin(t *testing.T) {
	c := NewCORS([]string{"https://app.example.gov.br"})
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ufs", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	c.Handler(next).ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown origin must not be allowed")
	}

	called = false
	pre := httptest.NewRequest(http.MethodOptions, "/api/ufs", nil)
	pre.Header.Set("Origin", "https://evil.example.com")
	pre.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	c.Handler(next).ServeHTTP(rec, pre)

	if called {
		t.Error("preflight must not reach the handler")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("unknown preflight must not be allowed")
	}
}

func TestCORS_Wildcard(t *testing.T) {
	c := NewCORS([]string{"*"})
	req := httptest.NewRequest(http.MethodGet, "/api/ufs", nil)
	req.Header.Set("Origin", "http://anything.local")
	rec := httptest.NewRecorder()

	c.Handler(http.NotFoundHandler()).ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("wildcard should allow any origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
