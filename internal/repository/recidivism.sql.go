package repository

import (
	"context"
	"strings"

	"github.com/lib/pq"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

const listRecidivismByCPF = `-- name: ListRecidivismByCPF :many
SELECT regexp_replace(cpf, '\D', '', 'g') AS cpf,
       MAX(nomecompleto) AS nomecompleto,
       ARRAY_AGG(COALESCE(numero_do_bo, '') ORDER BY id) AS numeros_do_bo,
       COUNT(*) AS quantidade
FROM tabela_estelionato
WHERE tipo_envolvido = 'Suposto Autor/infrator'
  AND cpf IS NOT NULL
  AND regexp_replace(cpf, '\D', '', 'g') <> ''
GROUP BY 1
HAVING COUNT(*) > 1
ORDER BY quantidade DESC, cpf
LIMIT $1 OFFSET $2
`

type ListRecidivismParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListRecidivismByCPF(ctx context.Context, arg ListRecidivismParams) ([]domain.RecidivismRecord, error) {
	rows, err := q.db.QueryContext(ctx, listRecidivismByCPF, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.RecidivismRecord
	for rows.Next() {
		var (
			i    domain.RecidivismRecord
			nome *string
			bos  pq.StringArray
		)
		if err := rows.Scan(&i.CPF, &nome, &bos, &i.Quantidade); err != nil {
			return nil, err
		}
		if nome != nil {
			i.NomeCompleto = *nome
		}
		i.NumerosBO = strings.Join(bos, domain.BOSeparator)
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRecidivismByCPF = `-- name: CountRecidivismByCPF :one
SELECT COUNT(*) FROM (
    SELECT regexp_replace(cpf, '\D', '', 'g')
    FROM tabela_estelionato
    WHERE tipo_envolvido = 'Suposto Autor/infrator'
      AND cpf IS NOT NULL
      AND regexp_replace(cpf, '\D', '', 'g') <> ''
    GROUP BY 1
    HAVING COUNT(*) > 1
) AS reincidentes
`

func (q *Queries) CountRecidivismByCPF(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRecidivismByCPF)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getRecidivismByCPF = `-- name: GetRecidivismByCPF :one
SELECT regexp_replace(cpf, '\D', '', 'g') AS cpf,
       MAX(nomecompleto) AS nomecompleto,
       ARRAY_AGG(COALESCE(numero_do_bo, '') ORDER BY id) AS numeros_do_bo,
       COUNT(*) AS quantidade
FROM tabela_estelionato
WHERE tipo_envolvido = 'Suposto Autor/infrator'
  AND regexp_replace(cpf, '\D', '', 'g') = $1
GROUP BY 1
`

// GetRecidivismByCPF aggregates the offender rows of one CPF, given as
// digits. It returns sql.ErrNoRows when the CPF has no offender rows.
func (q *Queries) GetRecidivismByCPF(ctx context.Context, cpf string) (domain.RecidivismRecord, error) {
	row := q.db.QueryRowContext(ctx, getRecidivismByCPF, cpf)
	var (
		i    domain.RecidivismRecord
		nome *string
		bos  pq.StringArray
	)
	err := row.Scan(&i.CPF, &nome, &bos, &i.Quantidade)
	if nome != nil {
		i.NomeCompleto = *nome
	}
	i.NumerosBO = strings.Join(bos, domain.BOSeparator)
	return i, err
}

const listRecidivismByPhone = `-- name: ListRecidivismByPhone :many
SELECT regexp_replace(telefone_envolvido, '\D', '', 'g') AS telefone,
       ARRAY_AGG(DISTINCT COALESCE(nomecompleto, '')) AS nomes,
       ARRAY_AGG(COALESCE(numero_do_bo, '') ORDER BY id) AS numeros_do_bo,
       COUNT(*) AS quantidade
FROM tabela_estelionato
WHERE tipo_envolvido = 'Suposto Autor/infrator'
  AND telefone_envolvido IS NOT NULL
  AND regexp_replace(telefone_envolvido, '\D', '', 'g') <> ''
GROUP BY 1
HAVING COUNT(*) > 1
ORDER BY quantidade DESC, telefone
LIMIT $1 OFFSET $2
`

func (q *Queries) ListRecidivismByPhone(ctx context.Context, arg ListRecidivismParams) ([]domain.PhoneRecidivismRecord, error) {
	rows, err := q.db.QueryContext(ctx, listRecidivismByPhone, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.PhoneRecidivismRecord
	for rows.Next() {
		var (
			i     domain.PhoneRecidivismRecord
			nomes pq.StringArray
			bos   pq.StringArray
		)
		if err := rows.Scan(&i.Telefone, &nomes, &bos, &i.Quantidade); err != nil {
			return nil, err
		}
		i.Nomes = strings.Join(nomes, domain.BOSeparator)
		i.NumerosBO = strings.Join(bos, domain.BOSeparator)
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRecidivismByPhone = `-- name: CountRecidivismByPhone :one
SELECT COUNT(*) FROM (
    SELECT regexp_replace(telefone_envolvido, '\D', '', 'g')
    FROM tabela_estelionato
    WHERE tipo_envolvido = 'Suposto Autor/infrator'
      AND telefone_envolvido IS NOT NULL
      AND regexp_replace(telefone_envolvido, '\D', '', 'g') <> ''
    GROUP BY 1
    HAVING COUNT(*) > 1
) AS reincidentes
`

func (q *Queries) CountRecidivismByPhone(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countRecidivismByPhone)
	var count int64
	err := row.Scan(&count)
	return count, err
}
