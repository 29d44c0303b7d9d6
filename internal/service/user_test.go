package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

// =============================================================================
// Password Validation Tests
// =============================================================================

func TestValidatePassword_Length(t *testing.T) {
	testCases := []struct {
		name     string
		password string
		valid    bool
	}{
		{"empty", "", false},
		{"too short - 7 chars", "abcdef1", false},
		{"minimum - 8 chars", "abcdef12", true},
		{"bcrypt limit - 72 chars", strings.Repeat("a", 72), true},
		{"over bcrypt limit", strings.Repeat("a", 73), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePassword(tc.password)
			if tc.valid && err != nil {
				t.Errorf("expected valid, got error: %v", err)
			}
			if !tc.valid && err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestValidatePassword_ErrorIsInvalid(t *testing.T) {
	err := validatePassword("curta")
	if code := domain.ErrorCode(err); code != domain.EINVALID {
		t.Errorf("expected code %q, got %q", domain.EINVALID, code)
	}
	if msg := domain.ErrorMessage(err); !strings.Contains(msg, "8 caracteres") {
		t.Errorf("message %q should mention the minimum length", msg)
	}
}

// =============================================================================
// User Params Tests
// =============================================================================

func validParams() domain.UserParams {
	return domain.UserParams{
		Login: "mlima",
		Nome:  "Marcos Lima",
		CPF:   "12345678901",
		Email: "mlima@pc.gov.br",
		Senha: "segredo123",
	}
}

func TestNormalizeUserParams(t *testing.T) {
	p := normalizeUserParams(domain.UserParams{
		Login:    "  mlima ",
		CPF:      "123.456.789-01",
		Telefone: "(61) 99999-8888",
		Email:    " MLima@PC.gov.br ",
	})

	if p.Login != "mlima" {
		t.Errorf("login = %q", p.Login)
	}
	if p.CPF != "12345678901" {
		t.Errorf("cpf = %q", p.CPF)
	}
	if p.Telefone != "61999998888" {
		t.Errorf("telefone = %q", p.Telefone)
	}
	if p.Email != "mlima@pc.gov.br" {
		t.Errorf("email = %q", p.Email)
	}
}

func TestValidateUserParams(t *testing.T) {
	testCases := []struct {
		name      string
		mutate    func(p *domain.UserParams)
		create    bool
		wantField string
	}{
		{"valid create", func(p *domain.UserParams) {}, true, ""},
		{"missing login", func(p *domain.UserParams) { p.Login = "" }, true, "login"},
		{"missing name", func(p *domain.UserParams) { p.Nome = "" }, true, "nome"},
		{"short cpf", func(p *domain.UserParams) { p.CPF = "123" }, true, "cpf"},
		{"empty cpf allowed", func(p *domain.UserParams) { p.CPF = "" }, true, ""},
		{"short phone", func(p *domain.UserParams) { p.Telefone = "619999" }, true, "telefone"},
		{"bad email", func(p *domain.UserParams) { p.Email = "not-an-email" }, true, "email"},
		{"password required on create", func(p *domain.UserParams) { p.Senha = "" }, true, "senha"},
		{"password optional on update", func(p *domain.UserParams) { p.Senha = "" }, false, ""},
		{"weak password on update", func(p *domain.UserParams) { p.Senha = "123" }, false, "senha"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := validParams()
			tc.mutate(&p)

			ve := validateUserParams("test", p, tc.create)
			if tc.wantField == "" {
				if ve != nil {
					t.Errorf("expected no errors, got %v", ve.Fields)
				}
				return
			}
			if ve == nil {
				t.Fatalf("expected error on %q", tc.wantField)
			}
			if _, ok := ve.Fields[tc.wantField]; !ok {
				t.Errorf("expected error on %q, got %v", tc.wantField, ve.Fields)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	testCases := []struct {
		err  error
		want bool
	}{
		{errors.New(`ERROR: duplicate key value violates unique constraint "usuarios_login_key" (SQLSTATE 23505)`), true},
		{errors.New("connection refused"), false},
	}

	for _, tc := range testCases {
		if got := isUniqueViolation(tc.err); got != tc.want {
			t.Errorf("isUniqueViolation(%q) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
