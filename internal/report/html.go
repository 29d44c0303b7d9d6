package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"

	"github.com/DukeRupert/fraudbase/internal/domain"
	"github.com/DukeRupert/fraudbase/internal/field"
)

// =============================================================================
// Print Fragment
// =============================================================================

// fragmentTemplate is the source of the monochrome raster: ParseFragment
// maps h1, h2, p, hr, br and ol items to layout lines.
var fragmentTemplate = template.Must(template.New("fragment").Parse(`<div style="background:#fff;color:#000;font-family:monospace;width:180mm;padding:8mm">
  <h1 style="font-size:18pt;margin:0">Relatório de Reincidência</h1>
  <p>{{.Generated}}</p>
  <hr>
  <h2>{{.Nome}}</h2>
  <p>CPF: {{.CPF}}</p>
  <p>Ocorrências: {{.Quantidade}}</p>
  <br>
  <h2>Risco: {{.Tier}}</h2>
  <p>{{.Advice}}</p>
  <br>
  <h2>Boletins de Ocorrência</h2>
  {{if .BOs}}<ol>{{range .BOs}}
    <li>{{.}}</li>{{end}}
  </ol>{{else}}<p>Nenhum B.O. listado.</p>{{end}}
  <br>
  <hr>
  <p><small>{{.Footer}}</small></p>
</div>
`))

type fragmentData struct {
	Generated  string
	Nome       string
	CPF        string
	Quantidade int
	Tier       string
	Advice     string
	BOs        []string
	Footer     string
}

// RenderFragment writes the black-on-white HTML fragment of a report.
func RenderFragment(w io.Writer, data *domain.ReportData) error {
	return fragmentTemplate.Execute(w, fragmentData{
		Generated:  GeneratedLine(data),
		Nome:       data.Nome,
		CPF:        field.FormatCPF(data.CPF),
		Quantidade: data.Quantidade,
		Tier:       data.Tier.Label(),
		Advice:     data.Tier.Advice(),
		BOs:        data.BOs,
		Footer:     Footer,
	})
}

// =============================================================================
// Monochrome Generator
// =============================================================================

// MonochromeGenerator produces the print version of a report. Its working
// files (the HTML fragment and one PNG per page band) live in a scratch
// directory that is removed when Generate returns, on success or failure.
type MonochromeGenerator struct {
	renderer Renderer
	logger   *slog.Logger

	// TempDir is the parent of the scratch directory; empty means os.TempDir.
	TempDir string
}

// NewMonochromeGenerator creates a MonochromeGenerator. A nil renderer
// selects the built-in RasterRenderer.
func NewMonochromeGenerator(renderer Renderer, logger *slog.Logger) *MonochromeGenerator {
	if renderer == nil {
		renderer = NewRasterRenderer()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MonochromeGenerator{renderer: renderer, logger: logger}
}

// Style returns domain.ReportStyleMonochrome.
func (g *MonochromeGenerator) Style() domain.ReportStyle {
	return domain.ReportStyleMonochrome
}

// Generate writes the monochrome PDF to w.
func (g *MonochromeGenerator) Generate(ctx context.Context, data *domain.ReportData, w io.Writer) (int64, error) {
	scratch, err := os.MkdirTemp(g.TempDir, "fraudbase-report-*")
	if err != nil {
		return 0, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	// 1. Offscreen fragment, read back as the raster layout
	var html bytes.Buffer
	if err := RenderFragment(&html, data); err != nil {
		return 0, fmt.Errorf("render fragment: %w", err)
	}
	fragmentPath := filepath.Join(scratch, "fragment.html")
	if err := os.WriteFile(fragmentPath, html.Bytes(), 0o600); err != nil {
		return 0, fmt.Errorf("write fragment: %w", err)
	}
	layout, err := loadLayout(fragmentPath)
	if err != nil {
		return 0, err
	}

	// 2. Rasterize into page bands
	bands, err := g.renderer.Render(ctx, layout)
	if err != nil {
		return 0, fmt.Errorf("rasterize: %w", err)
	}
	if len(bands) == 0 {
		return 0, fmt.Errorf("rasterize: no output")
	}

	// 3. One PDF page per band
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Relatório de Reincidência - "+data.Nome, true)
	pdf.SetCreator("FraudBase", true)

	for i, band := range bands {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		path := filepath.Join(scratch, fmt.Sprintf("band-%03d.png", i))
		if err := imaging.Save(band, path); err != nil {
			return 0, fmt.Errorf("save band %d: %w", i, err)
		}
		pdf.AddPage()
		pdf.ImageOptions(path, pageMargin, pageMargin, contentWidth, 0, false,
			fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if err := pdf.Error(); err != nil {
		return 0, fmt.Errorf("pdf generation error: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return 0, fmt.Errorf("pdf output error: %w", err)
	}

	g.logger.Debug("monochrome report rendered",
		"pages", len(bands),
		"lines", len(layout.Lines),
		"fragment_size", html.Len(),
		"pdf_size", buf.Len(),
	)

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

func loadLayout(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fragment: %w", err)
	}
	defer f.Close()

	layout, err := ParseFragment(f)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	return layout, nil
}
