package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

type testSheet struct {
	name string
	rows [][]any
}

func registroSheet() testSheet {
	return testSheet{SheetRegistro, [][]any{
		{"Id", "Número", "Unidade de Apuração", "Situação", "Naturezas"},
		{"10", "200/2024", "DEAM", "Registrado", "Estelionato"},
		{"2", "100/2024", "1ª DP", "Registrado", "Estelionato eletrônico"},
		{"", "ignored", "", "", ""},
	}}
}

func fatoSheet() testSheet {
	return testSheet{SheetFato, [][]any{
		{"Id", "Data/Hora Início", "CEP", "Latitude", "Longitude", "Logradouro", "Número", "Bairro", "Município", "Pais"},
		{"2", "01/02/2024 10:00", "70000-000", "-15.7", "-47.8", "Rua A", "12", "Centro", "Brasília", "Brasil"},
	}}
}

func envolvidosSheet() testSheet {
	return testSheet{SheetEnvolvidos, [][]any{
		{"Id", "Participações", "Nome Completo", "CPF", "Filiação 1", "Data de Nascimento", "Nacionalidade", "Naturalidade", "UF", "Sexo", "Telefone"},
		{"2", "Vítima", "Maria Silva", "111.222.333-44", "Ana Silva", "01/01/1980", "Brasileira", "Brasília", "DF", "Feminino", "61999998888"},
		{"2", "Suposto Autor/infrator", "João Souza", "55566677788", "", "", "", "", "GO", "Masculino", ""},
	}}
}

func relatoSheet() testSheet {
	return testSheet{SheetRelato, [][]any{
		{"Id", "Relato / Histórico"},
		{"2", "Vítima relata transferência via PIX."},
		{"10", "Golpe do falso leilão."},
	}}
}

func buildWorkbook(t *testing.T, sheets ...testSheet) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for _, s := range sheets {
		_, err := f.NewSheet(s.name)
		require.NoError(t, err)
		for i, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(s.name, cell, &r))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseWorkbook_JoinsSheetsByID(t *testing.T) {
	data := buildWorkbook(t, registroSheet(), fatoSheet(), envolvidosSheet(), relatoSheet())

	rows, err := ParseWorkbook(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Id 2 sorts before Id 10 and yields one row per envolvido.
	maria := rows[0]
	assert.Equal(t, "100/2024", maria.NumeroBO)
	assert.Equal(t, "1ª DP", maria.DelegaciaResponsavel)
	assert.Equal(t, "Rua A", maria.LogradouroFato)
	assert.Equal(t, "12", maria.NumeroCasaFato)
	assert.Equal(t, "Brasil", maria.PaisFato)
	assert.Equal(t, "Maria Silva", maria.NomeCompleto)
	assert.Equal(t, "Vítima", maria.TipoEnvolvido)
	assert.Equal(t, "11122233344", maria.CPF)
	assert.Equal(t, "61999998888", maria.TelefoneEnvolvido)
	assert.Equal(t, "Ana Silva", maria.NomeMae)
	assert.Equal(t, "Vítima relata transferência via PIX.", maria.RelatoHistorico)

	joao := rows[1]
	assert.Equal(t, "100/2024", joao.NumeroBO)
	assert.Equal(t, "Suposto Autor/infrator", joao.TipoEnvolvido)
	assert.Equal(t, "55566677788", joao.CPF)
	assert.Equal(t, "Rua A", joao.LogradouroFato, "fato data is shared by every envolvido")

	// Id 10 has no envolvidos and no fato: one bare row.
	bare := rows[2]
	assert.Equal(t, "200/2024", bare.NumeroBO)
	assert.Empty(t, bare.NomeCompleto)
	assert.Empty(t, bare.CEPFato)
	assert.Equal(t, "Golpe do falso leilão.", bare.RelatoHistorico)
}

func TestParseWorkbook_MissingSheet(t *testing.T) {
	data := buildWorkbook(t, registroSheet(), fatoSheet(), relatoSheet())

	_, err := ParseWorkbook(bytes.NewReader(data))

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Equal(t, "Planilha 'Envolvidos' não encontrada no arquivo.", domain.ErrorMessage(err))
}

func TestParseWorkbook_MissingRequiredColumn(t *testing.T) {
	reg := testSheet{SheetRegistro, [][]any{
		{"Id", "Número", "Situação", "Naturezas"},
		{"1", "1/2024", "Registrado", "Estelionato"},
	}}
	data := buildWorkbook(t, reg, fatoSheet(), envolvidosSheet(), relatoSheet())

	_, err := ParseWorkbook(bytes.NewReader(data))

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
	assert.Contains(t, domain.ErrorMessage(err), "Unidade de Apuração")
}

func TestParseWorkbook_NotAWorkbook(t *testing.T) {
	_, err := ParseWorkbook(bytes.NewReader([]byte("not a zip")))

	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestSortIDs(t *testing.T) {
	ids := []string{"10", "b", "2", "a", "1"}
	sortIDs(ids)
	assert.Equal(t, []string{"1", "2", "10", "a", "b"}, ids)
}
