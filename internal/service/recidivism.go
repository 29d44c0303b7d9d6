package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
	"github.com/DukeRupert/fraudbase/internal/repository"
)

// RecidivismService aggregates offender records that repeat an identifier.
type RecidivismService interface {
	// ByCPF lists CPFs with more than one offender record, highest count
	// first. Page size defaults to domain.RecidivismPageSize.
	ByCPF(ctx context.Context, page, limit int) (*domain.Page[domain.RecidivismRecord], error)

	// ByPhone lists phone numbers with more than one offender record.
	ByPhone(ctx context.Context, page, limit int) (*domain.Page[domain.PhoneRecidivismRecord], error)

	// ForCPF aggregates the offender records of one CPF. Returns
	// domain.ENOTFOUND when the CPF has none.
	ForCPF(ctx context.Context, cpf string) (*domain.RecidivismRecord, error)

	// ByPIX is not available yet and always returns domain.ENOTIMPL.
	ByPIX(ctx context.Context, page, limit int) error
}

type recidivismService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewRecidivismService creates a new RecidivismService instance.
func NewRecidivismService(queries *repository.Queries, logger *slog.Logger) RecidivismService {
	return &recidivismService{
		queries: queries,
		logger:  logger,
	}
}

// maxRecidivismLimit caps the page size accepted from clients.
const maxRecidivismLimit = 100

func (s *recidivismService) ByCPF(ctx context.Context, page, limit int) (*domain.Page[domain.RecidivismRecord], error) {
	const op = "RecidivismService.ByCPF"

	page, limit = domain.ClampPaging(page, limit, domain.RecidivismPageSize, maxRecidivismLimit)

	total, err := s.queries.CountRecidivismByCPF(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to count recidivism")
	}

	rows, err := s.queries.ListRecidivismByCPF(ctx, repository.ListRecidivismParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list recidivism")
	}

	result := domain.NewPage(rows, int(total), page, limit)
	return &result, nil
}

func (s *recidivismService) ByPhone(ctx context.Context, page, limit int) (*domain.Page[domain.PhoneRecidivismRecord], error) {
	const op = "RecidivismService.ByPhone"

	page, limit = domain.ClampPaging(page, limit, domain.RecidivismPageSize, maxRecidivismLimit)

	total, err := s.queries.CountRecidivismByPhone(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to count recidivism")
	}

	rows, err := s.queries.ListRecidivismByPhone(ctx, repository.ListRecidivismParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to list recidivism")
	}

	result := domain.NewPage(rows, int(total), page, limit)
	return &result, nil
}

func (s *recidivismService) ForCPF(ctx context.Context, cpf string) (*domain.RecidivismRecord, error) {
	const op = "RecidivismService.ForCPF"

	digits := field.Digits(cpf)
	if len(digits) != 11 {
		return nil, domain.Invalid(op, "CPF deve conter 11 dígitos")
	}

	rec, err := s.queries.GetRecidivismByCPF(ctx, digits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound(op, "CPF", field.FormatCPF(digits))
		}
		return nil, domain.Internal(err, op, "Failed to aggregate CPF")
	}
	return &rec, nil
}

func (s *recidivismService) ByPIX(ctx context.Context, page, limit int) error {
	return domain.NotImplemented("RecidivismService.ByPIX", "Reincidência por PIX ainda não está disponível")
}
