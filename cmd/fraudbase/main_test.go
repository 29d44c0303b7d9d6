package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/fraudbase/internal/client/session"
	"github.com/DukeRupert/fraudbase/internal/field"
)

// run executes the root command with args and returns its output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	closeSession()
	return out.String(), err
}

func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"token":"tok-123","userId":7,"username":"maria","nome":"Maria Operadora","isAdmin":false}`)
	})
	mux.HandleFunc("GET /api/consulta-envolvidos", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.Equal(t, "nome=maria+silva&page=1&limit=10", r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":[
			{"id":1,"nomecompleto":"Maria Silva","tipo_envolvido":"Suposto Autor/infrator","natureza":"Estelionato"},
			{"id":2,"nomecompleto":"Maria da Silva","tipo_envolvido":"Vítima","natureza":"Furto"}
		],"totalCount":2,"page":1,"limit":10,"totalPages":1}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func resetSearchFlags() {
	searchFilters = field.FilterSet{}
	searchPage = 1
	searchLimit = 10
	searchBrowse = false
}

func TestNeedsSession(t *testing.T) {
	assert.False(t, needsSession(loginCmd))
	assert.False(t, needsSession(logoutCmd))
	assert.False(t, needsSession(rootCmd))
	assert.True(t, needsSession(searchCmd))
	assert.True(t, needsSession(recidivismListCmd))
	assert.True(t, needsSession(usersPasswdCmd))

	child := &cobra.Command{Use: "help"}
	assert.False(t, needsSession(child))
}

func TestCLI_SearchRequiresLogin(t *testing.T) {
	srv := fakeAPI(t)
	sessionFile := filepath.Join(t.TempDir(), "session.db")
	resetSearchFlags()

	_, err := run(t, "search", "--nome", "maria silva", "--server", srv.URL, "--session", sessionFile)

	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestCLI_LoginThenSearch(t *testing.T) {
	srv := fakeAPI(t)
	sessionFile := filepath.Join(t.TempDir(), "session.db")
	resetSearchFlags()

	out, err := run(t, "login", "maria", "--password", "secret", "--server", srv.URL, "--session", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Bem-vindo, Maria Operadora.")

	out, err = run(t, "search", "--nome", "Maria Silva", "--server", srv.URL, "--session", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Maria da Silva")
	assert.Contains(t, out, "2 resultado(s) encontrado(s).")

	out, err = run(t, "logout", "--server", srv.URL, "--session", sessionFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Sessão encerrada.")

	_, err = run(t, "whoami", "--server", srv.URL, "--session", sessionFile)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestCLI_SearchInvalidFilters(t *testing.T) {
	srv := fakeAPI(t)
	sessionFile := filepath.Join(t.TempDir(), "session.db")
	resetSearchFlags()

	_, err := run(t, "login", "maria", "--password", "secret", "--server", srv.URL, "--session", sessionFile)
	require.NoError(t, err)

	out, err := run(t, "search", "--nome", "Jo", "--server", srv.URL, "--session", sessionFile)

	assert.ErrorIs(t, err, errReported)
	assert.Contains(t, out, "Informe ao menos um filtro válido")
}

func TestReadPassword_FromPipe(t *testing.T) {
	pw, err := readPassword(strings.NewReader("s3nha\r\nextra\n"))
	require.NoError(t, err)
	assert.Equal(t, "s3nha", pw)

	_, err = readPassword(strings.NewReader(""))
	assert.Error(t, err)
}
