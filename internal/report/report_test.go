package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DukeRupert/fraudbase/internal/domain"
)

func testData(bos int) *domain.ReportData {
	rec := domain.RecidivismRecord{
		CPF:          "12345678901",
		NomeCompleto: "João da Conceição",
		Quantidade:   bos,
	}
	list := make([]string, bos)
	for i := range list {
		list[i] = fmt.Sprintf("%d/2024", i+1)
	}
	rec.NumerosBO = strings.Join(list, domain.BOSeparator)
	return domain.NewReportData(rec, "Operador", time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC))
}

// buildLayout renders the print fragment of data and parses it back, as
// the monochrome generator does.
func buildLayout(t *testing.T, data *domain.ReportData) *Layout {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RenderFragment(&buf, data))
	layout, err := ParseFragment(&buf)
	require.NoError(t, err)
	return layout
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHexToRGB(t *testing.T) {
	r, g, b := HexToRGB("#DC2626")
	assert.Equal(t, []int{220, 38, 38}, []int{r, g, b})

	r, g, b = HexToRGB("bad")
	assert.Equal(t, []int{0, 0, 0}, []int{r, g, b})
}

func TestTierColor(t *testing.T) {
	assert.Equal(t, "#DC2626", TierColor(domain.RiskHigh))
	assert.Equal(t, Palette.TextMuted, TierColor(domain.RiskTier("unknown")))
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry(NewStyledGenerator(), NewMonochromeGenerator(nil, discardLogger()))

	g, err := reg.For(domain.ReportStyleMonochrome)
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStyleMonochrome, g.Style())

	_, err = reg.For("sepia")
	assert.Error(t, err)
}

func TestStyledGenerator_Generate(t *testing.T) {
	var buf bytes.Buffer
	n, err := NewStyledGenerator().Generate(context.Background(), testData(6), &buf)

	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestStyledGenerator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStyledGenerator().Generate(ctx, testData(2), io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMonochromeGenerator_Generate(t *testing.T) {
	dir := t.TempDir()
	g := NewMonochromeGenerator(nil, discardLogger())
	g.TempDir = dir

	var buf bytes.Buffer
	_, err := g.Generate(context.Background(), testData(4), &buf)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory must be removed")
}

type failingRenderer struct{}

func (failingRenderer) Render(context.Context, *Layout) ([]image.Image, error) {
	return nil, errors.New("raster failed")
}

func TestMonochromeGenerator_RemovesScratchOnFailure(t *testing.T) {
	dir := t.TempDir()
	g := NewMonochromeGenerator(failingRenderer{}, discardLogger())
	g.TempDir = dir

	var buf bytes.Buffer
	_, err := g.Generate(context.Background(), testData(4), &buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "raster failed")
	assert.Zero(t, buf.Len(), "nothing is written on failure")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch directory must be removed")
}

func TestRenderFragment(t *testing.T) {
	data := testData(2)
	data.Nome = "<script>alert(1)</script>"

	var buf bytes.Buffer
	require.NoError(t, RenderFragment(&buf, data))
	html := buf.String()

	assert.Contains(t, html, "123.456.789-01")
	assert.Contains(t, html, "<li>1/2024</li>")
	assert.Contains(t, html, "<li>2/2024</li>")
	assert.Contains(t, html, "Risco: BAIXO")
	assert.Contains(t, html, domain.RiskLow.Advice())
	assert.NotContains(t, html, "<script>", "names are escaped")
	assert.Contains(t, html, "background:#fff;color:#000")
}

func TestLayout(t *testing.T) {
	layout := buildLayout(t, testData(6))

	var texts []string
	for _, l := range layout.Lines {
		texts = append(texts, l.Text)
	}
	joined := strings.Join(texts, "\n")

	assert.Equal(t, LineTitle, layout.Lines[0].Style)
	assert.Contains(t, joined, "CPF: 123.456.789-01")
	assert.Contains(t, joined, "Ocorrências: 6")
	assert.Contains(t, joined, "Risco: ALTO")
	assert.Contains(t, joined, "  6. 6/2024")
	for _, l := range layout.Lines {
		assert.LessOrEqual(t, len([]rune(l.Text)), wrapWidth, l.Text)
	}
}

func TestLayout_FollowsFragment(t *testing.T) {
	layout := buildLayout(t, testData(2))

	var styles []LineStyle
	for _, l := range layout.Lines {
		styles = append(styles, l.Style)
	}
	require.Greater(t, len(styles), 15)
	assert.Equal(t, []LineStyle{
		LineTitle, LineBody, LineRule,
		LineHeading, LineBody, LineBody, LineBlank,
		LineHeading, LineBody, LineBlank,
		LineHeading, LineBody, LineBody, LineBlank,
		LineRule,
	}, styles[:15])
	for _, s := range styles[15:] {
		assert.Equal(t, LineBody, s, "footer lines")
	}
	assert.Equal(t, "  1. 1/2024", layout.Lines[11].Text)
	assert.Equal(t, "  2. 2/2024", layout.Lines[12].Text)
}

func TestLayout_NoBOs(t *testing.T) {
	layout := buildLayout(t, testData(0))

	var texts []string
	for _, l := range layout.Lines {
		texts = append(texts, l.Text)
	}
	assert.Contains(t, texts, "Nenhum B.O. listado.")
}

func TestParseFragment(t *testing.T) {
	src := `<div>
  <h1>Título</h1>
  <p>linha   com
     espaços</p>
  <hr>
  <h2>Seção &amp; mais</h2>
  <ol><li>A</li><li><b>B</b></li></ol>
  <br>
  <p><small>rodapé</small></p>
</div>`

	layout, err := ParseFragment(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []Line{
		{Text: "Título", Style: LineTitle},
		{Text: "linha com espaços", Style: LineBody},
		{Text: "", Style: LineRule},
		{Text: "Seção & mais", Style: LineHeading},
		{Text: "  1. A", Style: LineBody},
		{Text: "  2. B", Style: LineBody},
		{Text: "", Style: LineBlank},
		{Text: "rodapé", Style: LineBody},
	}, layout.Lines)
}

func TestParseFragment_Empty(t *testing.T) {
	_, err := ParseFragment(strings.NewReader("<div></div>"))
	assert.Error(t, err)
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"aa bb", "cc"}, wrap("aa bb cc", 5))
	assert.Equal(t, []string{"abcdefgh"}, wrap("abcdefgh", 3))
	assert.Nil(t, wrap("   ", 10))
}

func TestRasterRenderer_SplitsLongReports(t *testing.T) {
	r := NewRasterRenderer()

	short, err := r.Render(context.Background(), buildLayout(t, testData(3)))
	require.NoError(t, err)
	assert.Len(t, short, 1)

	long, err := r.Render(context.Background(), buildLayout(t, testData(150)))
	require.NoError(t, err)
	assert.Greater(t, len(long), 1)

	width := long[0].Bounds().Dx()
	assert.Equal(t, 630*2, width)
	for _, band := range long {
		assert.Equal(t, width, band.Bounds().Dx())
	}
}

func TestSliceBands(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 10, 25))

	bands := SliceBands(img, 10)

	require.Len(t, bands, 3)
	assert.Equal(t, 10, bands[0].Bounds().Dy())
	assert.Equal(t, 10, bands[1].Bounds().Dy())
	assert.Equal(t, 5, bands[2].Bounds().Dy())
}

func TestGeneratedLine(t *testing.T) {
	data := testData(1)
	assert.Equal(t, "Gerado em 01/05/2024 14:30 por Operador", GeneratedLine(data))

	data.GeneratedBy = ""
	assert.Equal(t, "Gerado em 01/05/2024 14:30", GeneratedLine(data))
}
