package repository

import (
	"context"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

const listBancos = `-- name: ListBancos :many
SELECT id, nome_completo FROM bancos ORDER BY nome_completo
`

func (q *Queries) ListBancos(ctx context.Context) ([]domain.LookupItem, error) {
	return q.listLookup(ctx, listBancos)
}

const listDelegacias = `-- name: ListDelegacias :many
SELECT id, nome FROM delegacias ORDER BY nome
`

func (q *Queries) ListDelegacias(ctx context.Context) ([]domain.LookupItem, error) {
	return q.listLookup(ctx, listDelegacias)
}

const listPaises = `-- name: ListPaises :many
SELECT id, nome_pais FROM paises ORDER BY nome_pais
`

func (q *Queries) ListPaises(ctx context.Context) ([]domain.LookupItem, error) {
	return q.listLookup(ctx, listPaises)
}

func (q *Queries) listLookup(ctx context.Context, query string) ([]domain.LookupItem, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.LookupItem
	for rows.Next() {
		var i domain.LookupItem
		if err := rows.Scan(&i.ID, &i.Nome); err != nil {
			return nil, err
		}
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

const listMunicipios = `-- name: ListMunicipios :many
SELECT id, municipio, uf
FROM municipios_e_estados
WHERE ($1::text = '' OR uf = $1)
ORDER BY municipio
`

// ListMunicipios returns the cities of one state, or all cities when uf is empty.
func (q *Queries) ListMunicipios(ctx context.Context, uf string) ([]domain.Municipality, error) {
	rows, err := q.db.QueryContext(ctx, listMunicipios, uf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Municipality
	for rows.Next() {
		var i domain.Municipality
		if err := rows.Scan(&i.ID, &i.Municipio, &i.UF); err != nil {
			return nil, err
		}
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

const listUFs = `-- name: ListUFs :many
SELECT DISTINCT uf FROM municipios_e_estados ORDER BY uf
`

func (q *Queries) ListUFs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listUFs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var uf string
		if err := rows.Scan(&uf); err != nil {
			return nil, err
		}
		items = append(items, uf)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
