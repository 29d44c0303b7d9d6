package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

func newPersonMux(svc *mockPersonService) *http.ServeMux {
	mux := http.NewServeMux()
	NewPersonHandler(svc, testLogger()).RegisterRoutes(mux, asUser(operator))
	return mux
}

func TestPersonHandler_Search_PassesFilters(t *testing.T) {
	var got domain.SearchParams
	svc := &mockPersonService{
		SearchFunc: func(ctx context.Context, params domain.SearchParams) (*domain.Page[domain.Person], error) {
			got = params
			page := domain.NewPage([]domain.Person{
				{ID: 1, NomeCompleto: "Maria Silva", TipoEnvolvido: "Suposto Autor/infrator"},
				{ID: 2, NomeCompleto: "Maria Silva Santos", TipoEnvolvido: "Vítima"},
			}, 2, 1, 10)
			return &page, nil
		},
	}

	rec := do(t, newPersonMux(svc), http.MethodGet, "/api/consulta-envolvidos?nome=maria&cpf=123&page=1&limit=10", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.SearchParams{Nome: "maria", CPF: "123", Page: 1, Limit: 10}, got)

	var body struct {
		Data       []domain.Person `json:"data"`
		TotalCount int             `json:"totalCount"`
		Page       int             `json:"page"`
		Limit      int             `json:"limit"`
		TotalPages int             `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.TotalCount)
	assert.Equal(t, 1, body.TotalPages)
}

func TestPersonHandler_Search_IgnoresMalformedPaging(t *testing.T) {
	var got domain.SearchParams
	svc := &mockPersonService{
		SearchFunc: func(ctx context.Context, params domain.SearchParams) (*domain.Page[domain.Person], error) {
			got = params
			page := domain.EmptyPage[domain.Person](1, domain.DefaultSearchLimit)
			return &page, nil
		},
	}

	rec := do(t, newPersonMux(svc), http.MethodGet, "/api/consulta-envolvidos?page=abc&limit=-5", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, got.Page)
	assert.Zero(t, got.Limit)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestPersonHandler_Get(t *testing.T) {
	svc := &mockPersonService{
		GetByIDFunc: func(ctx context.Context, id int64) (*domain.Person, error) {
			if id == 42 {
				return &domain.Person{ID: 42, NumeroBO: "123/2024", NomeCompleto: "João Souza"}, nil
			}
			return nil, domain.NotFound("PersonService.GetByID", "Envolvido", "99")
		},
	}
	mux := newPersonMux(svc)

	rec := do(t, mux, http.MethodGet, "/api/consulta-envolvidos/42", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"numero_do_bo":"123/2024"`)

	rec = do(t, mux, http.MethodGet, "/api/consulta-envolvidos/99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/consulta-envolvidos/0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPersonHandler_Create(t *testing.T) {
	svc := &mockPersonService{
		CreateFunc: func(ctx context.Context, p domain.Person) (*domain.Person, error) {
			if p.CPF == "1" {
				return nil, domain.NewValidationError("PersonService.Create", "cpf", "CPF deve conter 11 dígitos")
			}
			p.ID = 5
			return &p, nil
		},
	}
	mux := newPersonMux(svc)

	rec := do(t, mux, http.MethodPost, "/api/envolvidos", `{"numero_do_bo":"1/2024","nomecompleto":"Ana","tipo_envolvido":"Vítima"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":5`)

	rec = do(t, mux, http.MethodPost, "/api/envolvidos", `{"cpf":"1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "CPF deve conter 11 dígitos", decodeError(t, rec).Error.Fields["cpf"])
}
