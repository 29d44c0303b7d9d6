package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func TestNewClient(t *testing.T) {
	c := NewClient("http://localhost:8080/", staticToken("x"))

	assert.Equal(t, "http://localhost:8080", c.baseURL)
	require.NotNil(t, c.httpClient)
	assert.Zero(t, c.httpClient.Timeout, "searches carry no client-side timeout")
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin", body["username"])
		assert.Equal(t, "segredo", body["password"])

		_ = json.NewEncoder(w).Encode(domain.LoginResult{Token: "tok", UserID: 1, Username: "admin", Nome: "Admin", IsAdmin: true})
	}))
	defer server.Close()

	res, err := NewClient(server.URL, nil).Login(context.Background(), "admin", "segredo")

	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.True(t, res.IsAdmin)
}

func TestClient_SendsBearerEvenWhenEmpty(t *testing.T) {
	var got []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"data":[],"totalCount":0,"page":1,"limit":10,"totalPages":0}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, staticToken("")).SearchPersons(context.Background(), "bo=123")
	require.NoError(t, err)
	_, err = NewClient(server.URL, staticToken("abc")).SearchPersons(context.Background(), "bo=123")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer ", "Bearer abc"}, got)
}

func TestClient_SearchPersons_KeepsQueryOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nome=maria&bo=123&page=1&limit=10", r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"data":[{"id":1,"nomecompleto":"Maria"}],"totalCount":1,"page":1,"limit":10,"totalPages":1}`))
	}))
	defer server.Close()

	page, err := NewClient(server.URL, staticToken("t")).SearchPersons(context.Background(), "nome=maria&bo=123&page=1&limit=10")

	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Maria", page.Data[0].NomeCompleto)
}

func TestClient_ErrorDecoding(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantCode    string
		wantMessage string
	}{
		{"json error", http.StatusNotFound, `{"error":{"code":"not_found","message":"Envolvido 9 não encontrado"}}`, "not_found", "Envolvido 9 não encontrado"},
		{"plain text", http.StatusBadGateway, "bad gateway", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(server.URL, nil).GetPerson(context.Background(), 9)

			require.Error(t, err)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.status == http.StatusNotFound, IsNotFound(err))
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	_, err := NewClient(server.URL, nil).RecidivismByCPF(context.Background(), 1, 10)

	require.Error(t, err)
	assert.Zero(t, StatusOf(err))
}

func TestClient_RecidivismByCPF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/reincidencia/cpf", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[{"cpf":"12345678901","nomecompleto":"Carlos","numeros_do_bo":"1/2024, 2/2024","quantidade":2}],"totalCount":11,"page":2,"limit":10,"totalPages":2}`))
	}))
	defer server.Close()

	page, err := NewClient(server.URL, nil).RecidivismByCPF(context.Background(), 2, 10)

	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, []string{"1/2024", "2/2024"}, page.Data[0].BOs())
}

func TestClient_FetchReport(t *testing.T) {
	var ready atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ready.Load() {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write([]byte(`{"id":"8c1c7a4e-8a0f-4a55-9b1e-1f6d39f9c0aa","status":"pending"}`))
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.3"))
	}))
	defer server.Close()
	c := NewClient(server.URL, nil)

	var buf bytes.Buffer
	report, done, err := c.FetchReport(context.Background(), "8c1c7a4e-8a0f-4a55-9b1e-1f6d39f9c0aa", &buf)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, domain.ReportStatusPending, report.Status)
	assert.Zero(t, buf.Len())

	ready.Store(true)
	_, done, err = c.FetchReport(context.Background(), "8c1c7a4e-8a0f-4a55-9b1e-1f6d39f9c0aa", &buf)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, "%PDF-1.3", buf.String())
}

func TestClient_UploadReport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("relatorio")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)

		assert.Equal(t, "resultado_da_pesquisa_bo_1.xlsx", header.Filename)
		assert.Equal(t, "PK", string(content))
		_, _ = w.Write([]byte(`{"success":true,"registrosInseridos":3,"duplicatasEvitadas":1,"totalProcessados":4}`))
	}))
	defer server.Close()

	res, err := NewClient(server.URL, nil).UploadReport(context.Background(), "resultado_da_pesquisa_bo_1.xlsx", bytes.NewReader([]byte("PK")))

	require.NoError(t, err)
	assert.Equal(t, 3, res.RegistrosInseridos)
	assert.Equal(t, 1, res.DuplicatasEvitadas)
}

func TestClient_Lookup_RejectsUnknownList(t *testing.T) {
	_, err := NewClient("http://unused", nil).Lookup(context.Background(), "senhas", "")
	assert.Error(t, err)
}
