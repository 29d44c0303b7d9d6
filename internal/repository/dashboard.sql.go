package repository

import (
	"context"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

const victimsBySex = `-- name: VictimsBySex :many
SELECT s.sexo, COALESCE(mv.quantidade, 0) AS quantidade
FROM (VALUES ('Feminino'), ('Masculino')) AS s (sexo)
LEFT JOIN mv_vitimas_por_sexo mv ON mv.sexo_envolvido = s.sexo
ORDER BY quantidade DESC, s.sexo
`

func (q *Queries) VictimsBySex(ctx context.Context) ([]domain.SexCount, error) {
	rows, err := q.db.QueryContext(ctx, victimsBySex)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.SexCount
	for rows.Next() {
		var i domain.SexCount
		if err := rows.Scan(&i.Sexo, &i.Quantidade); err != nil {
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

// Birth dates that are not dd/mm/yyyy are skipped rather than failing TO_DATE.
const victimsByAgeBracket = `-- name: VictimsByAgeBracket :many
SELECT
    CASE
        WHEN idade <= 20 THEN 'Menores ou igual a 20 anos'
        WHEN idade <= 40 THEN 'De 21 a 40 anos'
        WHEN idade <= 60 THEN 'De 41 a 60 anos'
        ELSE 'Maiores de 60 anos'
    END AS faixa_etaria,
    COUNT(*) AS quantidade
FROM (
    SELECT EXTRACT(YEAR FROM AGE(CURRENT_DATE, TO_DATE(nascimento, 'DD/MM/YYYY'))) AS idade
    FROM tabela_estelionato
    WHERE tipo_envolvido IN ('Comunicante, Vítima', 'Vítima')
      AND nascimento ~ '^\d{2}/\d{2}/\d{4}$'
) AS idades
GROUP BY faixa_etaria
ORDER BY quantidade DESC
`

func (q *Queries) VictimsByAgeBracket(ctx context.Context) ([]domain.AgeBracketCount, error) {
	rows, err := q.db.QueryContext(ctx, victimsByAgeBracket)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.AgeBracketCount
	for rows.Next() {
		var i domain.AgeBracketCount
		if err := rows.Scan(&i.FaixaEtaria, &i.Quantidade); err != nil {
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

const generalCounts = `-- name: GeneralCounts :one
SELECT total_bos, total_infratores, total_vitimas FROM mv_contagens_gerais
`

type GeneralCountsRow struct {
	TotalBOs        int64
	TotalInfratores int64
	TotalVitimas    int64
}

func (q *Queries) GeneralCounts(ctx context.Context) (GeneralCountsRow, error) {
	row := q.db.QueryRowContext(ctx, generalCounts)
	var i GeneralCountsRow
	err := row.Scan(&i.TotalBOs, &i.TotalInfratores, &i.TotalVitimas)
	return i, err
}

const offendersByStation = `-- name: OffendersByStation :many
SELECT delegacia_responsavel, quantidade
FROM mv_infratores_por_delegacia
ORDER BY quantidade DESC, delegacia_responsavel
`

func (q *Queries) OffendersByStation(ctx context.Context) ([]domain.StationCount, error) {
	rows, err := q.db.QueryContext(ctx, offendersByStation)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.StationCount
	for rows.Next() {
		var i domain.StationCount
		if err := rows.Scan(&i.Delegacia, &i.Quantidade); err != nil {
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

// DashboardViews lists the materialized views refreshed after each import.
var DashboardViews = []string{
	"mv_vitimas_por_sexo",
	"mv_infratores_por_delegacia",
	"mv_contagens_gerais",
}

// RefreshDashboardView refreshes one of DashboardViews. The name is checked
// against the list because identifiers cannot be bound as parameters.
func (q *Queries) RefreshDashboardView(ctx context.Context, view string) error {
	for _, v := range DashboardViews {
		if v == view {
			_, err := q.db.ExecContext(ctx, "REFRESH MATERIALIZED VIEW "+v)
			return err
		}
	}
	return errUnknownView(view)
}

type errUnknownView string

func (e errUnknownView) Error() string {
	return "unknown materialized view: " + string(e)
}
