package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

// naturezaWords is how many words of the crime nature a row shows.
const naturezaWords = 2

// Row is the display model of one search result.
type Row struct {
	ID           int64
	NumeroBO     string
	Nome         string
	CPF          string
	Telefone     string
	Role         string
	Offender     bool
	Natureza     string
	NaturezaFull string
	DataFato     string
}

// NewRow builds the display model of p.
func NewRow(p domain.Person) Row {
	return Row{
		ID:           p.ID,
		NumeroBO:     p.NumeroBO,
		Nome:         p.NomeCompleto,
		CPF:          field.FormatCPF(p.CPF),
		Telefone:     field.FormatPhone(p.TelefoneEnvolvido),
		Role:         p.TipoEnvolvido,
		Offender:     p.IsOffender(),
		Natureza:     field.TruncateWords(p.Natureza, naturezaWords),
		NaturezaFull: p.Natureza,
		DataFato:     p.DataFato,
	}
}

// Rows converts a page of records.
func Rows(page domain.Page[domain.Person]) []Row {
	rows := make([]Row, 0, len(page.Data))
	for _, p := range page.Data {
		rows = append(rows, NewRow(p))
	}
	return rows
}

// PageOptions controls RenderPage.
type PageOptions struct {
	// Wide prints the full crime nature instead of the truncated one.
	Wide bool
}

// RenderPage renders a result page as a table followed by the pagination
// footer, which is omitted when there is a single page.
func RenderPage(styles Styles, page domain.Page[domain.Person], opts PageOptions) string {
	if len(page.Data) == 0 {
		return ""
	}

	t := Table{Headers: []string{"ID", "B.O.", "Nome", "CPF", "Telefone", "Envolvimento", "Natureza", "Data do fato"}}
	for _, r := range Rows(page) {
		natureza := r.Natureza
		if opts.Wide {
			natureza = r.NaturezaFull
		}
		t.AddRow(
			strconv.FormatInt(r.ID, 10),
			r.NumeroBO,
			r.Nome,
			r.CPF,
			r.Telefone,
			styles.Role(r.Role).Render(roleLabel(r.Role)),
			natureza,
			r.DataFato,
		)
	}

	var sb strings.Builder
	sb.WriteString(t.Render(styles))
	if footer := Footer(page); footer != "" {
		sb.WriteString(styles.Muted.Render(footer))
		sb.WriteString("\n")
	}
	return sb.String()
}

// Footer describes the page position, or returns "" when the result fits
// on one page.
func Footer(page domain.Page[domain.Person]) string {
	if !page.Paginated() {
		return ""
	}
	return fmt.Sprintf("Página %d de %d (%d registros, %d por página)",
		page.Index()+1, page.TotalPages, page.TotalCount, page.Limit)
}

func roleLabel(role string) string {
	if strings.TrimSpace(role) == "" {
		return "-"
	}
	return role
}
