package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders static rows in aligned columns.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends one row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render lays the table out with styles. Cell widths are measured with
// lipgloss so styled badges align.
func (t *Table) Render(styles Styles) string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var sb strings.Builder
	for i, h := range t.Headers {
		sb.WriteString(pad(styles.Header.Render(h), widths[i]))
		if i < len(t.Headers)-1 {
			sb.WriteString("  ")
		}
	}
	sb.WriteString("\n")
	for _, row := range t.Rows {
		for i := range t.Headers {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			sb.WriteString(pad(cell, widths[i]))
			if i < len(t.Headers)-1 {
				sb.WriteString("  ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
