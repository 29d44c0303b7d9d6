// Package report renders recidivism reports as PDF.
//
// Two generators implement Generator. StyledGenerator draws the on-screen
// detail panel with its colours and tier badge. MonochromeGenerator builds a
// black-on-white HTML fragment, rasterizes the same layout and slices it
// into A4 pages.
package report

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

// =============================================================================
// Generator Interface
// =============================================================================

// Generator renders one report.
type Generator interface {
	// Generate writes a PDF for data to w and returns the bytes written.
	Generate(ctx context.Context, data *domain.ReportData, w io.Writer) (int64, error)

	// Style returns the style this generator produces.
	Style() domain.ReportStyle
}

// Registry selects a generator by style.
type Registry map[domain.ReportStyle]Generator

// NewRegistry indexes generators by their Style.
func NewRegistry(gens ...Generator) Registry {
	r := make(Registry, len(gens))
	for _, g := range gens {
		r[g.Style()] = g
	}
	return r
}

// For returns the generator of style.
func (r Registry) For(style domain.ReportStyle) (Generator, error) {
	g, ok := r[style]
	if !ok {
		return nil, fmt.Errorf("no generator for style %q", style)
	}
	return g, nil
}

// Page geometry shared by both generators, in millimetres.
const (
	pageWidth     = 210.0
	pageHeight    = 297.0
	pageMargin    = 15.0
	contentWidth  = pageWidth - 2*pageMargin
	contentHeight = pageHeight - 2*pageMargin
)

// =============================================================================
// Colors
// =============================================================================

// Palette is the on-screen colour scheme of the recidivism detail panel.
var Palette = struct {
	Header     string
	TextDark   string
	TextMuted  string
	Border     string
	Background string
	Bar        string
}{
	Header:     "#1E3A5F",
	TextDark:   "#1F2937",
	TextMuted:  "#6B7280",
	Border:     "#E5E7EB",
	Background: "#F9FAFB",
	Bar:        "#3B82F6",
}

// TierColors maps risk tiers to badge colours.
var TierColors = map[domain.RiskTier]string{
	domain.RiskHigh:   "#DC2626", // red-600
	domain.RiskMedium: "#F59E0B", // amber-500
	domain.RiskLow:    "#16A34A", // green-600
}

// TierColor returns the badge colour for a tier.
func TierColor(t domain.RiskTier) string {
	if c, ok := TierColors[t]; ok {
		return c
	}
	return Palette.TextMuted
}

// HexToRGB converts "#RRGGBB" or "RRGGBB" to components. Malformed input
// yields black.
func HexToRGB(hex string) (r, g, b int) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 {
		return 0, 0, 0
	}
	return hexToDec(hex[0:2]), hexToDec(hex[2:4]), hexToDec(hex[4:6])
}

func hexToDec(hex string) int {
	val := 0
	for _, c := range hex {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

// =============================================================================
// Text
// =============================================================================

// Footer is printed at the bottom of every report.
const Footer = "Relatório gerado a partir dos registros de ocorrência disponíveis na base. " +
	"As informações têm caráter observacional e não substituem a análise dos B.O.s originais."

// FormatDateTime formats t the way reports print timestamps.
func FormatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

// GeneratedLine is the "generated at/by" line under the report title.
func GeneratedLine(data *domain.ReportData) string {
	line := "Gerado em " + FormatDateTime(data.GeneratedAt)
	if data.GeneratedBy != "" {
		line += " por " + data.GeneratedBy
	}
	return line
}
