package report

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

// barScale is the occurrence count that fills the whole bar.
const barScale = 10

// StyledGenerator draws the recidivism detail panel with its live colours.
type StyledGenerator struct{}

// NewStyledGenerator creates a StyledGenerator.
func NewStyledGenerator() *StyledGenerator {
	return &StyledGenerator{}
}

// Style returns domain.ReportStyleStyled.
func (g *StyledGenerator) Style() domain.ReportStyle {
	return domain.ReportStyleStyled
}

// Generate writes the styled PDF to w.
func (g *StyledGenerator) Generate(ctx context.Context, data *domain.ReportData, w io.Writer) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+5)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle("Relatório de Reincidência - "+data.Nome, true)
	pdf.SetAuthor(data.GeneratedBy, true)
	pdf.SetCreator("FraudBase", true)

	pdf.SetFooterFunc(func() {
		g.addFooter(pdf, tr, data)
	})

	pdf.AddPage()
	g.addHeader(pdf, tr, data)
	g.addSummary(pdf, tr, data)
	g.addTier(pdf, tr, data)
	g.addBOList(pdf, tr, data)

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("pdf generation error: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("pdf output error: %w", err)
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func (g *StyledGenerator) addHeader(pdf *fpdf.Fpdf, tr func(string) string, data *domain.ReportData) {
	r, gr, b := HexToRGB(Palette.Header)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(0, 0, pageWidth, 40, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(pageMargin, 12)
	pdf.Cell(0, 10, tr("Relatório de Reincidência"))

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetXY(pageMargin, 24)
	pdf.Cell(0, 6, tr(GeneratedLine(data)))

	pdf.SetY(50)
	r, gr, b = HexToRGB(Palette.TextDark)
	pdf.SetTextColor(r, gr, b)
}

func (g *StyledGenerator) addSummary(pdf *fpdf.Fpdf, tr func(string) string, data *domain.ReportData) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(contentWidth, 8, tr(data.Nome), "", "L", false)
	pdf.Ln(2)

	g.addLabelValue(pdf, tr, "CPF", field.FormatCPF(data.CPF))
	g.addLabelValue(pdf, tr, "Ocorrências", fmt.Sprintf("%d", data.Quantidade))
	pdf.Ln(2)

	// Occurrence bar, as drawn on the dashboard chart.
	y := pdf.GetY()
	r, gr, b := HexToRGB(Palette.Border)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(pageMargin, y, contentWidth, 5, "F")

	filled := float64(min(data.Quantidade, barScale)) / barScale * contentWidth
	r, gr, b = HexToRGB(Palette.Bar)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(pageMargin, y, filled, 5, "F")
	pdf.Ln(10)
}

func (g *StyledGenerator) addTier(pdf *fpdf.Fpdf, tr func(string) string, data *domain.ReportData) {
	color := TierColor(data.Tier)

	r, gr, b := HexToRGB(color)
	pdf.SetFillColor(r, gr, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(50, 8, tr("RISCO "+data.Tier.Label()), "", 1, "C", true, 0, "")
	pdf.Ln(3)

	r, gr, b = HexToRGB(Palette.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 10)

	// Left accent stripe in the tier colour.
	y := pdf.GetY()
	pdf.SetX(pageMargin + 4)
	pdf.MultiCell(contentWidth-4, 5, tr(data.Tier.Advice()), "", "L", false)
	r, gr, b = HexToRGB(color)
	pdf.SetFillColor(r, gr, b)
	pdf.Rect(pageMargin, y, 1.5, pdf.GetY()-y, "F")
	pdf.Ln(8)
}

func (g *StyledGenerator) addBOList(pdf *fpdf.Fpdf, tr func(string) string, data *domain.ReportData) {
	r, gr, b := HexToRGB(Palette.Header)
	pdf.SetDrawColor(r, gr, b)
	pdf.SetLineWidth(0.5)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr("Boletins de Ocorrência"))
	pdf.Ln(10)
	pdf.Line(pageMargin, pdf.GetY(), pageWidth-pageMargin, pdf.GetY())
	pdf.Ln(3)

	r, gr, b = HexToRGB(Palette.TextDark)
	pdf.SetTextColor(r, gr, b)
	pdf.SetLineWidth(0.2)

	if len(data.BOs) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 7, tr("Nenhum B.O. listado."))
		return
	}

	bg := Palette.Background
	for i, bo := range data.BOs {
		fill := i%2 == 0
		if fill {
			r, gr, b := HexToRGB(bg)
			pdf.SetFillColor(r, gr, b)
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(15, 7, fmt.Sprintf("%d.", i+1), "", 0, "R", fill, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentWidth-15, 7, " "+tr(bo), "", 1, "L", fill, 0, "")
	}
}

func (g *StyledGenerator) addLabelValue(pdf *fpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(30, 6, tr(label+":"))
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(contentWidth-30, 6, tr(value), "", "L", false)
}

func (g *StyledGenerator) addFooter(pdf *fpdf.Fpdf, tr func(string) string, data *domain.ReportData) {
	pdf.SetY(-(pageMargin + 3))

	r, gr, b := HexToRGB(Palette.Border)
	pdf.SetDrawColor(r, gr, b)
	pdf.Line(pageMargin, pdf.GetY()-2, pageWidth-pageMargin, pdf.GetY()-2)

	r, gr, b = HexToRGB(Palette.TextMuted)
	pdf.SetTextColor(r, gr, b)
	pdf.SetFont("Helvetica", "", 7)
	pdf.MultiCell(contentWidth-20, 3.5, tr(Footer), "", "L", false)

	pdf.SetXY(pageWidth-pageMargin-20, -(pageMargin + 3))
	pdf.CellFormat(20, 4, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")

	r, gr, b = HexToRGB(Palette.TextDark)
	pdf.SetTextColor(r, gr, b)
}
