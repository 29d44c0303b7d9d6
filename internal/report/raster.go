package report

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/DukeRupert/fraudbase/internal/field"
)

// =============================================================================
// Layout
// =============================================================================

// LineStyle selects how a layout line is drawn.
type LineStyle int

const (
	LineBody LineStyle = iota
	LineTitle
	LineHeading
	LineRule
	LineBlank
)

// Line is one row of a monochrome report.
type Line struct {
	Text  string
	Style LineStyle
}

// Layout is the structured content of a monochrome report, top to bottom.
type Layout struct {
	Lines []Line
}

// wrapWidth is the number of characters per body line on the raster.
const wrapWidth = 84

// ParseFragment turns a print fragment into layout lines: h1 is the title,
// h2 a heading, p wrapped body text, hr a rule, br a blank line and each
// ol item a numbered body line. Other elements only contribute their
// children.
func ParseFragment(r io.Reader) (*Layout, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	l := &Layout{}
	add := func(style LineStyle, text string) {
		l.Lines = append(l.Lines, Line{Text: text, Style: style})
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.H1:
				add(LineTitle, nodeText(n))
				return
			case atom.H2:
				add(LineHeading, nodeText(n))
				return
			case atom.P:
				for _, s := range wrap(nodeText(n), wrapWidth) {
					add(LineBody, s)
				}
				return
			case atom.Hr:
				add(LineRule, "")
				return
			case atom.Br:
				add(LineBlank, "")
				return
			case atom.Ol:
				i := 0
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && c.DataAtom == atom.Li {
						i++
						add(LineBody, fmt.Sprintf("%3d. %s", i, nodeText(c)))
					}
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(l.Lines) == 0 {
		return nil, fmt.Errorf("fragment has no printable content")
	}
	return l, nil
}

// nodeText returns the text under n with runs of whitespace collapsed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// wrap breaks text on spaces into lines of at most width runes. A single
// word longer than width gets a line of its own.
func wrap(text string, width int) []string {
	var lines []string
	var cur strings.Builder
	n := 0
	for _, w := range strings.Fields(text) {
		wl := len([]rune(w))
		if n > 0 && n+1+wl > width {
			lines = append(lines, cur.String())
			cur.Reset()
			n = 0
		}
		if n > 0 {
			cur.WriteByte(' ')
			n++
		}
		cur.WriteString(w)
		n += wl
	}
	if n > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// =============================================================================
// Renderer
// =============================================================================

// Renderer turns a layout into page-sized raster bands, top to bottom.
type Renderer interface {
	Render(ctx context.Context, layout *Layout) ([]image.Image, error)
}

// RasterRenderer draws layouts with the fixed 7x13 bitmap font.
type RasterRenderer struct {
	// Width of the canvas in pixels before scaling.
	Width int
	// Scale enlarges the finished canvas for print.
	Scale int
}

// NewRasterRenderer returns a renderer sized for the A4 content area.
func NewRasterRenderer() *RasterRenderer {
	return &RasterRenderer{Width: 630, Scale: 2}
}

const (
	padX       = 20
	glyphWidth = 7
)

func lineHeight(s LineStyle) int {
	switch s {
	case LineTitle:
		return 34
	case LineHeading:
		return 22
	case LineRule:
		return 12
	case LineBlank:
		return 10
	default:
		return 18
	}
}

// Render draws the layout on a white canvas, converts it to grayscale and
// slices it into bands with the aspect ratio of the A4 content area.
func (r *RasterRenderer) Render(ctx context.Context, layout *Layout) ([]image.Image, error) {
	if layout == nil || len(layout.Lines) == 0 {
		return nil, fmt.Errorf("empty layout")
	}

	height := padX
	for _, ln := range layout.Lines {
		height += lineHeight(ln.Style)
	}
	height += padX

	canvas := imaging.New(r.Width, height, color.White)
	y := padX
	for _, ln := range layout.Lines {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := lineHeight(ln.Style)
		r.drawLine(canvas, ln, y, h)
		y += h
	}

	var img image.Image = imaging.Grayscale(canvas)
	if r.Scale > 1 {
		img = imaging.Resize(img, r.Width*r.Scale, 0, imaging.NearestNeighbor)
	}

	bandHeight := int(float64(img.Bounds().Dx()) * contentHeight / contentWidth)
	return SliceBands(img, bandHeight), nil
}

func (r *RasterRenderer) drawLine(dst *image.NRGBA, ln Line, top, h int) {
	// basicfont only carries ASCII glyphs.
	text := field.StripAccents(ln.Text)
	baseline := top + h - 5

	switch ln.Style {
	case LineRule:
		mid := top + h/2
		draw.Draw(dst, image.Rect(padX, mid, r.Width-padX, mid+1), image.Black, image.Point{}, draw.Src)
	case LineTitle:
		// Draw at 1x on a strip, then paste it doubled.
		strip := imaging.New(glyphWidth*len(text)+2, 15, color.White)
		drawText(strip, text, 1, 12, false)
		big := imaging.Resize(strip, strip.Bounds().Dx()*2, 0, imaging.NearestNeighbor)
		draw.Draw(dst, big.Bounds().Add(image.Pt(padX, top+2)), big, image.Point{}, draw.Src)
	case LineHeading:
		drawText(dst, text, padX, baseline, true)
	case LineBody:
		drawText(dst, text, padX, baseline, false)
	}
}

func drawText(dst draw.Image, text string, x, baseline int, bold bool) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(text)
	if bold {
		d.Dot = fixed.P(x+1, baseline)
		d.DrawString(text)
	}
}

// SliceBands cuts img into consecutive horizontal bands of the given
// height. The last band holds whatever remains.
func SliceBands(img image.Image, bandHeight int) []image.Image {
	b := img.Bounds()
	if bandHeight <= 0 || b.Dy() <= bandHeight {
		return []image.Image{img}
	}

	var bands []image.Image
	for y := b.Min.Y; y < b.Max.Y; y += bandHeight {
		rect := image.Rect(b.Min.X, y, b.Max.X, min(y+bandHeight, b.Max.Y))
		bands = append(bands, imaging.Crop(img, rect))
	}
	return bands
}
