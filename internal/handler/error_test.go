package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

// =============================================================================
// Error Response Tests - Security Focus
// =============================================================================

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) JSONError {
	t.Helper()
	var body JSONError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not a JSON error: %q", rec.Body.String())
	}
	return body
}

func TestValidationErrorResponse_DoesNotExposeOperationName(t *testing.T) {
	ve := domain.NewValidationError("PersonService.Create", "cpf", "CPF deve ter 11 dígitos")

	req := httptest.NewRequest(http.MethodPost, "/api/envolvidos", nil)
	rec := httptest.NewRecorder()
	ValidationErrorResponse(rec, req, testLogger(), ve)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "PersonService") {
		t.Errorf("response exposes internal operation name: %s", rec.Body.String())
	}

	body := decodeError(t, rec)
	if body.Error.Code != domain.EINVALID {
		t.Errorf("expected code %s, got %s", domain.EINVALID, body.Error.Code)
	}
	if body.Error.Fields["cpf"] != "CPF deve ter 11 dígitos" {
		t.Errorf("expected field message, got %v", body.Error.Fields)
	}
}

func TestErrorResponse_ValidationErrorIsDelegated(t *testing.T) {
	ve := domain.NewValidationError("UserService.Create", "login", "Login é obrigatório")

	req := httptest.NewRequest(http.MethodPost, "/api/users", nil)
	rec := httptest.NewRecorder()
	ErrorResponse(rec, req, testLogger(), ve)

	body := decodeError(t, rec)
	if rec.Code != http.StatusBadRequest || body.Error.Fields["login"] == "" {
		t.Errorf("expected 400 with fields, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestErrorResponse_InternalErrorHidesDetails(t *testing.T) {
	dbErr := &mockDatabaseError{message: "pq: relation \"envolvidos\" does not exist"}
	internalErr := domain.Internal(dbErr, "PersonRepository.Search", "Database query failed")

	req := httptest.NewRequest(http.MethodGet, "/api/consulta-envolvidos", nil)
	rec := httptest.NewRecorder()
	ErrorResponse(rec, req, testLogger(), internalErr)

	body := rec.Body.String()
	for _, leaked := range []string{"pq:", "relation", "PersonRepository", "Database query failed"} {
		if strings.Contains(body, leaked) {
			t.Errorf("response exposes %q: %s", leaked, body)
		}
	}
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec).Error.Message; got != "Erro interno. Tente novamente mais tarde." {
		t.Errorf("expected generic message, got %q", got)
	}
}

func TestErrorResponse_UnwrappedErrorReturnsGeneric(t *testing.T) {
	rawErr := &mockDatabaseError{message: "FATAL: password authentication failed for user \"postgres\""}

	req := httptest.NewRequest(http.MethodGet, "/api/ufs", nil)
	rec := httptest.NewRecorder()
	ErrorResponse(rec, req, testLogger(), rawErr)

	body := rec.Body.String()
	if strings.Contains(body, "FATAL") || strings.Contains(body, "postgres") {
		t.Errorf("response exposes raw error: %s", body)
	}
	if decodeError(t, rec).Error.Code != domain.EINTERNAL {
		t.Errorf("expected internal code, got %s", body)
	}
}

func TestErrorResponse_NotFoundDoesNotExposeInternals(t *testing.T) {
	err := domain.NotFound("PersonRepository.GetByID", "Envolvido", "42")

	req := httptest.NewRequest(http.MethodGet, "/api/consulta-envolvidos/42", nil)
	rec := httptest.NewRecorder()
	ErrorResponse(rec, req, testLogger(), err)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Repository") {
		t.Errorf("response exposes repository name: %s", rec.Body.String())
	}
	if !strings.Contains(decodeError(t, rec).Error.Message, "não encontrado") {
		t.Errorf("response should indicate resource not found: %s", rec.Body.String())
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ETOOLARGE, http.StatusRequestEntityTooLarge},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.ENOTIMPL, http.StatusNotImplemented},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"unknown", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := ErrorCodeToHTTPStatus(tt.code); got != tt.want {
			t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestErrorResponse_WrappedDomainError(t *testing.T) {
	err := errors.Join(domain.Forbidden("UserService.GetByID", "Acesso negado"))

	req := httptest.NewRequest(http.MethodGet, "/api/users/2", nil)
	rec := httptest.NewRecorder()
	ErrorResponse(rec, req, testLogger(), err)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}
}

// mockDatabaseError simulates a database error for testing
type mockDatabaseError struct {
	message string
}

func (e *mockDatabaseError) Error() string {
	return e.message
}
