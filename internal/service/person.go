package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
	"github.com/DukeRupert/fraudbase/internal/metrics"
	"github.com/DukeRupert/fraudbase/internal/repository"
)

// PersonService defines operations on person records.
type PersonService interface {
	// Search returns one page of records matching every non-empty
	// criterion, newest first. With no criteria it lists everything; criteria
	// that normalize to nothing (a phone without digits) are EINVALID.
	Search(ctx context.Context, params domain.SearchParams) (*domain.Page[domain.Person], error)

	// GetByID returns domain.ENOTFOUND if the record does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Person, error)

	// Create registers a record typed in by an operator.
	Create(ctx context.Context, p domain.Person) (*domain.Person, error)
}

type personService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewPersonService creates a new PersonService instance.
func NewPersonService(queries *repository.Queries, logger *slog.Logger) PersonService {
	return &personService{
		queries: queries,
		logger:  logger,
	}
}

func (s *personService) Search(ctx context.Context, params domain.SearchParams) (*domain.Page[domain.Person], error) {
	const op = "PersonService.Search"

	hadCriteria := params.HasCriteria()
	params = NormalizeSearchParams(params)
	if hadCriteria && !params.HasCriteria() {
		return nil, domain.Invalid(op, "Informe ao menos um filtro válido")
	}

	total, err := s.queries.CountEnvolvidosMatching(ctx, repository.CountEnvolvidosMatchingParams{
		Nome:     params.Nome,
		CPF:      params.CPF,
		BO:       params.BO,
		Telefone: params.Telefone,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to count records")
	}

	rows, err := s.queries.SearchEnvolvidos(ctx, repository.SearchEnvolvidosParams{
		Nome:     params.Nome,
		CPF:      params.CPF,
		BO:       params.BO,
		Telefone: params.Telefone,
		Limit:    int32(params.Limit),
		Offset:   int32(params.Offset()),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to search records")
	}

	s.logger.Debug("person search",
		"has_nome", params.Nome != "",
		"has_cpf", params.CPF != "",
		"has_bo", params.BO != "",
		"has_telefone", params.Telefone != "",
		"page", params.Page,
		"total", total,
	)

	outcome := "hit"
	if total == 0 {
		outcome = "empty"
	}
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()

	result := domain.NewPage(rows, int(total), params.Page, params.Limit)
	return &result, nil
}

func (s *personService) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	const op = "PersonService.GetByID"

	p, err := s.queries.GetEnvolvido(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "Envolvido", formatID(id))
		}
		return nil, domain.Internal(err, op, "Failed to retrieve record")
	}
	return &p, nil
}

func (s *personService) Create(ctx context.Context, p domain.Person) (*domain.Person, error) {
	const op = "PersonService.Create"

	p, ve := normalizePerson(op, p)
	if ve != nil {
		return nil, ve
	}

	id, err := s.queries.CreateEnvolvido(ctx, p)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to create record")
	}
	p.ID = id

	s.logger.Info("person record created", "id", id, "numero_do_bo", p.NumeroBO)
	return &p, nil
}

// NormalizeSearchParams folds the name, keeps only digits of CPF and phone,
// and clamps paging to the search defaults.
func NormalizeSearchParams(p domain.SearchParams) domain.SearchParams {
	p.Nome = field.NormalizeName(p.Nome)
	p.CPF = field.Digits(p.CPF)
	p.BO = strings.TrimSpace(p.BO)
	p.Telefone = field.Digits(p.Telefone)
	p.Page, p.Limit = domain.ClampPaging(p.Page, p.Limit, domain.DefaultSearchLimit, domain.MaxSearchLimit)
	return p
}

// normalizePerson trims the record, strips CPF and phone masks and converts
// ISO dates to dd/mm/yyyy.
func normalizePerson(op string, p domain.Person) (domain.Person, *domain.ValidationError) {
	ve := &domain.ValidationError{Op: op}

	p.NumeroBO = strings.TrimSpace(p.NumeroBO)
	p.NomeCompleto = strings.TrimSpace(p.NomeCompleto)
	p.TipoEnvolvido = strings.TrimSpace(p.TipoEnvolvido)
	p.CPF = field.Digits(p.CPF)
	p.TelefoneEnvolvido = field.Digits(p.TelefoneEnvolvido)

	if p.NumeroBO == "" {
		ve.Add("numero_do_bo", "Número do B.O. é obrigatório")
	}
	if p.NomeCompleto == "" {
		ve.Add("nomecompleto", "Nome completo é obrigatório")
	}
	if p.TipoEnvolvido == "" {
		ve.Add("tipo_envolvido", "Tipo de envolvimento é obrigatório")
	}
	if p.CPF != "" && len(p.CPF) != 11 {
		ve.Add("cpf", "CPF deve conter 11 dígitos")
	}
	if n := len(p.TelefoneEnvolvido); n != 0 && (n < 10 || n > 11) {
		ve.Add("telefone_envolvido", "Telefone deve conter 10 ou 11 dígitos")
	}

	var err error
	if p.Nascimento, err = domain.ToBRDate(p.Nascimento); err != nil {
		ve.Add("nascimento", "Data de nascimento inválida")
	}
	if p.DataFato, err = domain.ToBRDate(p.DataFato); err != nil {
		ve.Add("data_fato", "Data do fato inválida")
	}

	if ve.HasErrors() {
		return p, ve
	}
	return p, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
