package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DukeRupert/fraudbase/internal/client/recidivism"
)

// barWidth is the length of the longest bar in the occurrences chart.
const barWidth = 30

// RenderBars draws a horizontal bar chart scaled to the largest count.
func RenderBars(styles Styles, bars []recidivism.Bar) string {
	if len(bars) == 0 {
		return ""
	}

	maxCount, nameWidth := 0, 0
	for _, b := range bars {
		maxCount = max(maxCount, b.Count)
		nameWidth = max(nameWidth, len([]rune(b.Name)))
	}

	var sb strings.Builder
	for _, b := range bars {
		n := 0
		if maxCount > 0 {
			n = b.Count * barWidth / maxCount
		}
		if b.Count > 0 && n == 0 {
			n = 1
		}
		sb.WriteString(pad(b.Name, nameWidth))
		sb.WriteString(" ")
		sb.WriteString(styles.Bar.Render(strings.Repeat("█", n)))
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(b.Count))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderCards renders the ranking as a numbered table with tier badges.
func RenderCards(styles Styles, cards []recidivism.Card, offset int) string {
	if len(cards) == 0 {
		return ""
	}

	t := Table{Headers: []string{"#", "Nome", "CPF", "Ocorrências", "Risco"}}
	for i, c := range cards {
		t.AddRow(
			strconv.Itoa(offset+i+1),
			c.Nome,
			c.CPF,
			strconv.Itoa(c.Quantidade),
			styles.Tier(c.Tier).Render(c.Tier.Label()),
		)
	}
	return t.Render(styles)
}

// RenderRecidivismDetail renders the panel of one offender: identity,
// enumerated report numbers and the risk tier with its advice.
func RenderRecidivismDetail(styles Styles, d recidivism.Detail) string {
	var sb strings.Builder
	sb.WriteString(styles.Title.Render(d.Record.NomeCompleto))
	sb.WriteString("\n")
	sb.WriteString(styles.Label.Render("CPF") + d.CPF + "\n")
	sb.WriteString(styles.Label.Render("Ocorrências") + strconv.Itoa(d.Record.Quantidade) + "\n\n")

	sb.WriteString(styles.Header.Render("Boletins de ocorrência"))
	sb.WriteString("\n")
	for i, bo := range d.BOs {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, bo)
	}
	sb.WriteString("\n")

	sb.WriteString(styles.Label.Render("Nível de risco"))
	sb.WriteString(styles.Tier(d.Tier).Render(d.Tier.Label()))
	sb.WriteString("\n")
	sb.WriteString(styles.Muted.Render(d.Tier.Advice()))
	sb.WriteString("\n")
	return styles.Card.Render(strings.TrimRight(sb.String(), "\n"))
}
