package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/api/consulta-envolvidos", "/api/consulta-envolvidos"},
		{"/api/consulta-envolvidos/42", "/api/consulta-envolvidos/{id}"},
		{"/api/users/7", "/api/users/{id}"},
		{"/api/reincidencia/cpf/123.456.789-01/relatorio", "/api/reincidencia/cpf/{id}/relatorio"},
		{"/api/reincidencia/cpf/12345678901/relatorio", "/api/reincidencia/cpf/{id}/relatorio"},
		{"/api/relatorios/6ba7b810-9dad-11d1-80b4-00c04fd430c8", "/api/relatorios/{id}"},
		{"/a/1/2", "/a/{id}/{id}"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizePath(tt.in), tt.in)
	}
}

func TestMiddleware_CapturesStatus(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("x"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users/3", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "x", rec.Body.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/users/{id}", "418")))
}

func TestMiddleware_UsesMuxPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/consulta-envolvidos/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	})
	h := Middleware(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/consulta-envolvidos/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/api/consulta-envolvidos/{id}", "200")))
}

func TestMiddleware_SkipsMetricsEndpoint(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, 0.0, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/metrics", "200")))
}
