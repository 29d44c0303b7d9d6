package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

const listImportKeys = `-- name: ListImportKeys :many
SELECT COALESCE(numero_do_bo, ''), regexp_replace(COALESCE(cpf, ''), '\D', '', 'g'), COALESCE(nomecompleto, ''), COALESCE(tipo_envolvido, '')
FROM tabela_estelionato
WHERE numero_do_bo = ANY($1::text[])
`

// ListImportKeys returns the dedup keys of the rows already stored for the
// given report numbers.
func (q *Queries) ListImportKeys(ctx context.Context, bos []string) (map[string]struct{}, error) {
	keys := make(map[string]struct{})
	if len(bos) == 0 {
		return keys, nil
	}
	rows, err := q.db.QueryContext(ctx, listImportKeys, pq.Array(bos))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var r domain.ImportRow
		if err := rows.Scan(&r.NumeroBO, &r.CPF, &r.NomeCompleto, &r.TipoEnvolvido); err != nil {
			return nil, err
		}
		keys[r.DedupKey()] = struct{}{}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

const importColumns = `numero_do_bo, delegacia_responsavel, situacao, natureza, data_fato,
    cep_fato, latitude_fato, longitude_fato, logradouro_fato, numerocasa_fato,
    bairro_fato, municipio_fato, pais_fato, tipo_envolvido, nomecompleto,
    cpf, nomedamae, nascimento, nacionalidade, naturalidade,
    uf_envolvido, sexo_envolvido, telefone_envolvido, relato_historico`

const importColumnCount = 24

// InsertImportBatch writes rows with one multi-row INSERT. Callers keep
// batches at domain.ImportBatchSize so the statement stays under the
// protocol's parameter limit.
func (q *Queries) InsertImportBatch(ctx context.Context, rows []domain.ImportRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO tabela_estelionato (")
	b.WriteString(importColumns)
	b.WriteString(") VALUES ")

	args := make([]interface{}, 0, len(rows)*importColumnCount)
	for i, r := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := 0; j < importColumnCount; j++ {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*importColumnCount+j+1)
		}
		b.WriteByte(')')

		args = append(args,
			r.NumeroBO, r.DelegaciaResponsavel, r.Situacao, r.Natureza, r.DataFato,
			r.CEPFato, r.LatitudeFato, r.LongitudeFato, r.LogradouroFato, r.NumeroCasaFato,
			r.BairroFato, r.MunicipioFato, r.PaisFato, r.TipoEnvolvido, r.NomeCompleto,
			r.CPF, r.NomeMae, r.Nascimento, r.Nacionalidade, r.Naturalidade,
			r.UFEnvolvido, r.SexoEnvolvido, r.TelefoneEnvolvido, r.RelatoHistorico,
		)
	}

	result, err := q.db.ExecContext(ctx, b.String(), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
