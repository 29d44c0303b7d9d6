package service

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

// Sheet names of the B.O. search export.
const (
	SheetRegistro   = "Dados do Registro"
	SheetFato       = "Dados do Fato"
	SheetEnvolvidos = "Envolvidos"
	SheetRelato     = "Relato Histórico"
)

// RequiredSheets lists the sheets every upload must carry, in check order.
var RequiredSheets = []string{SheetRegistro, SheetFato, SheetEnvolvidos, SheetRelato}

const colID = "Id"

// sheetTable is one sheet indexed by header name.
type sheetTable struct {
	name    string
	columns map[string]int
	rows    [][]string
}

func readSheet(f *excelize.File, op, name string, required ...string) (*sheetTable, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, domain.Wrap(err, domain.EINVALID, op, fmt.Sprintf("Erro ao ler a planilha '%s'.", name))
	}
	if len(rows) == 0 {
		return nil, domain.Invalid(op, fmt.Sprintf("Planilha '%s' está vazia.", name))
	}

	t := &sheetTable{name: name, columns: make(map[string]int, len(rows[0])), rows: rows[1:]}
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if _, dup := t.columns[h]; !dup {
			t.columns[h] = i
		}
	}

	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			return nil, domain.Invalid(op, fmt.Sprintf("Coluna '%s' não encontrada na planilha '%s'.", col, name))
		}
	}
	return t, nil
}

// cell returns the trimmed value of col in row, or "" when the column is
// absent or the row is short.
func (t *sheetTable) cell(row []string, col string) string {
	i, ok := t.columns[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// each calls fn for every row with a non-empty Id.
func (t *sheetTable) each(fn func(id string, row []string)) {
	for _, row := range t.rows {
		if id := t.cell(row, colID); id != "" {
			fn(id, row)
		}
	}
}

// ParseWorkbook reads a B.O. search export and joins its four sheets on Id.
// Each registro yields one row per envolvido, or one row without person
// data when it has none. Rows come out ordered by Id, numerically when the
// Ids are numbers. Failures are EINVALID errors carrying a message fit for
// the uploader.
func ParseWorkbook(r io.Reader) ([]domain.ImportRow, error) {
	const op = "ParseWorkbook"

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.Wrap(err, domain.EINVALID, op, "Arquivo .xlsx inválido ou corrompido.")
	}
	defer f.Close()

	for _, sheet := range RequiredSheets {
		idx, err := f.GetSheetIndex(sheet)
		if err != nil || idx == -1 {
			return nil, domain.Invalid(op, fmt.Sprintf("Planilha '%s' não encontrada no arquivo.", sheet))
		}
	}

	registro, err := readSheet(f, op, SheetRegistro, colID, "Número", "Unidade de Apuração", "Situação", "Naturezas")
	if err != nil {
		return nil, err
	}
	fato, err := readSheet(f, op, SheetFato, colID)
	if err != nil {
		return nil, err
	}
	envolvidos, err := readSheet(f, op, SheetEnvolvidos, colID)
	if err != nil {
		return nil, err
	}
	relato, err := readSheet(f, op, SheetRelato, colID, "Relato / Histórico")
	if err != nil {
		return nil, err
	}

	registros := make(map[string][]string)
	registro.each(func(id string, row []string) { registros[id] = row })

	fatos := make(map[string][]string)
	fato.each(func(id string, row []string) { fatos[id] = row })

	pessoas := make(map[string][][]string)
	envolvidos.each(func(id string, row []string) { pessoas[id] = append(pessoas[id], row) })

	relatos := make(map[string]string)
	relato.each(func(id string, row []string) { relatos[id] = relato.cell(row, "Relato / Histórico") })

	ids := make([]string, 0, len(registros))
	for id := range registros {
		ids = append(ids, id)
	}
	sortIDs(ids)

	var out []domain.ImportRow
	for _, id := range ids {
		reg := registros[id]
		fr := fatos[id]
		base := domain.ImportRow{
			NumeroBO:             registro.cell(reg, "Número"),
			DelegaciaResponsavel: registro.cell(reg, "Unidade de Apuração"),
			Situacao:             registro.cell(reg, "Situação"),
			Natureza:             registro.cell(reg, "Naturezas"),
			DataFato:             fato.cell(fr, "Data/Hora Início"),
			CEPFato:              fato.cell(fr, "CEP"),
			LatitudeFato:         fato.cell(fr, "Latitude"),
			LongitudeFato:        fato.cell(fr, "Longitude"),
			LogradouroFato:       fato.cell(fr, "Logradouro"),
			NumeroCasaFato:       fato.cell(fr, "Número"),
			BairroFato:           fato.cell(fr, "Bairro"),
			MunicipioFato:        fato.cell(fr, "Município"),
			PaisFato:             fato.cell(fr, "Pais"),
			RelatoHistorico:      relatos[id],
		}

		people := pessoas[id]
		if len(people) == 0 {
			out = append(out, base)
			continue
		}
		for _, p := range people {
			row := base
			row.TipoEnvolvido = envolvidos.cell(p, "Participações")
			row.NomeCompleto = envolvidos.cell(p, "Nome Completo")
			row.CPF = field.Digits(envolvidos.cell(p, "CPF"))
			row.NomeMae = envolvidos.cell(p, "Filiação 1")
			row.Nascimento = envolvidos.cell(p, "Data de Nascimento")
			row.Nacionalidade = envolvidos.cell(p, "Nacionalidade")
			row.Naturalidade = envolvidos.cell(p, "Naturalidade")
			row.UFEnvolvido = envolvidos.cell(p, "UF")
			row.SexoEnvolvido = envolvidos.cell(p, "Sexo")
			row.TelefoneEnvolvido = field.Digits(envolvidos.cell(p, "Telefone"))
			out = append(out, row)
		}
	}

	return out, nil
}

// sortIDs orders numeric Ids by value and places them before any others,
// which sort lexically.
func sortIDs(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, aErr := strconv.ParseInt(ids[i], 10, 64)
		b, bErr := strconv.ParseInt(ids[j], 10, 64)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return ids[i] < ids[j]
		}
	})
}
