package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

// personColumns lists every person column in Person field order. Nullable
// columns are coalesced so rows scan into plain strings.
const personColumns = `id,
    COALESCE(numero_do_bo, ''), COALESCE(tipo_envolvido, ''), COALESCE(nomecompleto, ''),
    COALESCE(cpf, ''), COALESCE(nomedamae, ''), COALESCE(nascimento, ''),
    COALESCE(nacionalidade, ''), COALESCE(naturalidade, ''), COALESCE(uf_envolvido, ''),
    COALESCE(sexo_envolvido, ''), COALESCE(telefone_envolvido, ''), COALESCE(data_fato, ''),
    COALESCE(cep_fato, ''), COALESCE(latitude_fato, ''), COALESCE(longitude_fato, ''),
    COALESCE(logradouro_fato, ''), COALESCE(numerocasa_fato, ''), COALESCE(bairro_fato, ''),
    COALESCE(municipio_fato, ''), COALESCE(pais_fato, ''), COALESCE(delegacia_responsavel, ''),
    COALESCE(situacao, ''), COALESCE(natureza, ''), COALESCE(relato_historico, ''),
    COALESCE(instituicao_bancaria, ''), COALESCE(endereco_ip, ''), COALESCE(valor, ''),
    COALESCE(pix_utilizado, ''), COALESCE(numero_conta_bancaria, ''), COALESCE(numero_boleto, ''),
    COALESCE(processo_banco, ''), COALESCE(numero_agencia_bancaria, ''), COALESCE(cartao, ''),
    COALESCE(terminal, ''), COALESCE(tipo_pagamento, ''), COALESCE(orgao_concessionaria, ''),
    COALESCE(veiculo, ''), COALESCE(terminal_conexao, ''), COALESCE(erb, ''),
    COALESCE(operacao_policial, ''), COALESCE(numero_laudo_pericial, '')`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPerson(row rowScanner, p *domain.Person) error {
	return row.Scan(
		&p.ID,
		&p.NumeroBO, &p.TipoEnvolvido, &p.NomeCompleto,
		&p.CPF, &p.NomeMae, &p.Nascimento,
		&p.Nacionalidade, &p.Naturalidade, &p.UFEnvolvido,
		&p.SexoEnvolvido, &p.TelefoneEnvolvido, &p.DataFato,
		&p.CEPFato, &p.LatitudeFato, &p.LongitudeFato,
		&p.LogradouroFato, &p.NumeroCasaFato, &p.BairroFato,
		&p.MunicipioFato, &p.PaisFato, &p.DelegaciaResponsavel,
		&p.Situacao, &p.Natureza, &p.RelatoHistorico,
		&p.InstituicaoBancaria, &p.EnderecoIP, &p.Valor,
		&p.PixUtilizado, &p.NumeroContaBancaria, &p.NumeroBoleto,
		&p.ProcessoBanco, &p.NumeroAgenciaBancaria, &p.Cartao,
		&p.Terminal, &p.TipoPagamento, &p.OrgaoConcessionaria,
		&p.Veiculo, &p.TerminalConexao, &p.ERB,
		&p.OperacaoPolicial, &p.NumeroLaudoPericial,
	)
}

// searchFilter is shared by SearchEnvolvidos and CountEnvolvidosMatching.
// Empty parameters disable their condition. Text parameters go through
// EscapeLike so user wildcards match literally.
const searchFilter = `
WHERE ($1::text = '' OR unaccent(lower(COALESCE(nomecompleto, ''))) LIKE '%' || $1 || '%')
  AND ($2::text = '' OR regexp_replace(COALESCE(cpf, ''), '\D', '', 'g') LIKE '%' || $2 || '%')
  AND ($3::text = '' OR numero_do_bo ILIKE '%' || $3 || '%')
  AND ($4::text = '' OR regexp_replace(COALESCE(telefone_envolvido, ''), '\D', '', 'g') LIKE '%' || $4 || '%')
`

const searchEnvolvidos = `-- name: SearchEnvolvidos :many
SELECT ` + personColumns + `
FROM tabela_estelionato` + searchFilter + `
ORDER BY id DESC
LIMIT $5 OFFSET $6
`

type SearchEnvolvidosParams struct {
	Nome     string
	CPF      string
	BO       string
	Telefone string
	Limit    int32
	Offset   int32
}

func (q *Queries) SearchEnvolvidos(ctx context.Context, arg SearchEnvolvidosParams) ([]domain.Person, error) {
	rows, err := q.db.QueryContext(ctx, searchEnvolvidos,
		EscapeLike(arg.Nome),
		arg.CPF,
		EscapeLike(arg.BO),
		arg.Telefone,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Person
	for rows.Next() {
		var i domain.Person
		if err := scanPerson(rows, &i); err != nil {
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

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes the LIKE wildcards of s using the default backslash
// escape character.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

const countEnvolvidosMatching = `-- name: CountEnvolvidosMatching :one
SELECT COUNT(*)
FROM tabela_estelionato` + searchFilter

type CountEnvolvidosMatchingParams struct {
	Nome     string
	CPF      string
	BO       string
	Telefone string
}

func (q *Queries) CountEnvolvidosMatching(ctx context.Context, arg CountEnvolvidosMatchingParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countEnvolvidosMatching,
		EscapeLike(arg.Nome),
		arg.CPF,
		EscapeLike(arg.BO),
		arg.Telefone,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getEnvolvido = `-- name: GetEnvolvido :one
SELECT ` + personColumns + `
FROM tabela_estelionato
WHERE id = $1
`

func (q *Queries) GetEnvolvido(ctx context.Context, id int64) (domain.Person, error) {
	row := q.db.QueryRowContext(ctx, getEnvolvido, id)
	var i domain.Person
	err := scanPerson(row, &i)
	return i, err
}

const createEnvolvido = `-- name: CreateEnvolvido :one
INSERT INTO tabela_estelionato (
    numero_do_bo, tipo_envolvido, nomecompleto, cpf, nomedamae, nascimento,
    nacionalidade, naturalidade, uf_envolvido, sexo_envolvido, telefone_envolvido, data_fato,
    cep_fato, latitude_fato, longitude_fato, logradouro_fato, numerocasa_fato, bairro_fato,
    municipio_fato, pais_fato, delegacia_responsavel, situacao, natureza, relato_historico,
    instituicao_bancaria, endereco_ip, valor, pix_utilizado, numero_conta_bancaria, numero_boleto,
    processo_banco, numero_agencia_bancaria, cartao, terminal, tipo_pagamento, orgao_concessionaria,
    veiculo, terminal_conexao, erb, operacao_policial, numero_laudo_pericial
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
    $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28,
    $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41
)
RETURNING id
`

func (q *Queries) CreateEnvolvido(ctx context.Context, p domain.Person) (int64, error) {
	row := q.db.QueryRowContext(ctx, createEnvolvido,
		p.NumeroBO, p.TipoEnvolvido, p.NomeCompleto, nullString(p.CPF), p.NomeMae, p.Nascimento,
		p.Nacionalidade, p.Naturalidade, p.UFEnvolvido, p.SexoEnvolvido, nullString(p.TelefoneEnvolvido), p.DataFato,
		nullString(p.CEPFato), nullString(p.LatitudeFato), nullString(p.LongitudeFato),
		nullString(p.LogradouroFato), nullString(p.NumeroCasaFato), nullString(p.BairroFato),
		nullString(p.MunicipioFato), nullString(p.PaisFato), p.DelegaciaResponsavel,
		p.Situacao, p.Natureza, nullString(p.RelatoHistorico),
		nullString(p.InstituicaoBancaria), nullString(p.EnderecoIP), nullString(p.Valor),
		nullString(p.PixUtilizado), nullString(p.NumeroContaBancaria), nullString(p.NumeroBoleto),
		nullString(p.ProcessoBanco), nullString(p.NumeroAgenciaBancaria), nullString(p.Cartao),
		nullString(p.Terminal), nullString(p.TipoPagamento), nullString(p.OrgaoConcessionaria),
		nullString(p.Veiculo), nullString(p.TerminalConexao), nullString(p.ERB),
		nullString(p.OperacaoPolicial), nullString(p.NumeroLaudoPericial),
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const countEnvolvidos = `-- name: CountEnvolvidos :one
SELECT COUNT(*) FROM tabela_estelionato
`

func (q *Queries) CountEnvolvidos(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countEnvolvidos)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
