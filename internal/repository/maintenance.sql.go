package repository

import (
	"context"
	"database/sql"
)

// Rows are duplicates when every data column matches; the physical row with
// the lowest ctid of each group survives.
const deleteDuplicateEnvolvidos = `-- name: DeleteDuplicateEnvolvidos :execrows
DELETE FROM tabela_estelionato
WHERE ctid NOT IN (
    SELECT MIN(ctid)
    FROM tabela_estelionato
    GROUP BY
        numero_do_bo, tipo_envolvido, nomecompleto, cpf, nomedamae, nascimento,
        nacionalidade, naturalidade, uf_envolvido, sexo_envolvido, telefone_envolvido, data_fato,
        cep_fato, latitude_fato, longitude_fato, logradouro_fato, numerocasa_fato, bairro_fato,
        municipio_fato, pais_fato, delegacia_responsavel, situacao, natureza, relato_historico,
        instituicao_bancaria, endereco_ip, valor, pix_utilizado, numero_conta_bancaria, numero_boleto,
        processo_banco, numero_agencia_bancaria, cartao, terminal, tipo_pagamento, orgao_concessionaria,
        veiculo, terminal_conexao, erb, operacao_policial, numero_laudo_pericial
)
`

func (q *Queries) DeleteDuplicateEnvolvidos(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDuplicateEnvolvidos)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const boNumberPattern = `'^\d+/\d{4}(-[A-Z])?$'`

const listNewestBOs = `-- name: ListNewestBOs :many
SELECT numero_do_bo
FROM (
    SELECT DISTINCT numero_do_bo
    FROM tabela_estelionato
    WHERE numero_do_bo ~ ` + boNumberPattern + `
) AS bos
ORDER BY
    CAST(split_part(split_part(numero_do_bo, '/', 2), '-', 1) AS INTEGER) DESC,
    CAST(split_part(numero_do_bo, '/', 1) AS BIGINT) DESC
LIMIT $1
`

func (q *Queries) ListNewestBOs(ctx context.Context, limit int32) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listNewestBOs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var bo string
		if err := rows.Scan(&bo); err != nil {
			return nil, err
		}
		items = append(items, bo)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getOldestBO = `-- name: GetOldestBO :one
SELECT numero_do_bo
FROM tabela_estelionato
WHERE numero_do_bo ~ ` + boNumberPattern + `
ORDER BY
    CAST(split_part(split_part(numero_do_bo, '/', 2), '-', 1) AS INTEGER) ASC,
    CAST(split_part(numero_do_bo, '/', 1) AS BIGINT) ASC
LIMIT 1
`

// GetOldestBO returns an empty string when no report number matches the
// NNN/YYYY pattern.
func (q *Queries) GetOldestBO(ctx context.Context) (string, error) {
	row := q.db.QueryRowContext(ctx, getOldestBO)
	var bo string
	err := row.Scan(&bo)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return bo, err
}
