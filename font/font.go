// Package font renders text with a small single-stroke font.
package font

import (
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/path"
)

// Stroke is one pen-down polyline of a glyph.
type Stroke []coord.Point

// Glyph is the stroke list of a single character on the unit square.
type Glyph []Stroke

// Defaults used by DefaultRenderer.
const (
	DefaultSize        = 10.0
	DefaultSpacing     = 2.0
	DefaultLineSpacing = 1.5
	DefaultDrawFeed    = 400.0
)

// unknownWidth is the advance, in glyph units, for characters with no glyph.
const unknownWidth = 0.5

// Lookup returns the glyph for r, ignoring case.
func Lookup(r rune) (Glyph, bool) {
	g, ok := glyphs[unicode.ToUpper(r)]
	return g, ok
}

// Width returns the advance width of r in glyph units.
func Width(r rune) float64 {
	switch unicode.ToUpper(r) {
	case ' ':
		return 0.5
	case 'I', '!', '.', '1':
		return 0.6
	case 'M', 'W':
		return 1.0
	}
	return 0.9
}

// TextWidth returns the rendered width of a single line in mm. It has no
// trailing spacing.
func TextWidth(line string, size, spacing float64) float64 {
	var total float64
	var n int
	for _, r := range line {
		total += size*Width(r) + spacing
		n++
	}
	if n > 0 {
		total -= spacing
	}
	return total
}

// SplitLines splits text on real newlines and on the two-character escape `\n`.
func SplitLines(text string) []string {
	text = strings.Replace(text, `\n`, "\n", -1)
	return strings.Split(text, "\n")
}

// A Renderer lays out text as a path.Document in arm space (mm, Y up).
type Renderer struct {
	Size        float64
	Spacing     float64
	LineSpacing float64

	// SkipUnknown advances past characters with no glyph instead of failing.
	SkipUnknown bool

	// Logger receives warnings. If nil, log.Default() is used.
	Logger *log.Logger
}

// DefaultRenderer returns a Renderer with the standard size and spacing.
func DefaultRenderer() *Renderer {
	return &Renderer{
		Size:        DefaultSize,
		Spacing:     DefaultSpacing,
		LineSpacing: DefaultLineSpacing,
		SkipUnknown: true,
	}
}

func (r *Renderer) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// LineHeight is the vertical distance between baselines.
func (r *Renderer) LineHeight() float64 {
	ls := r.LineSpacing
	if ls <= 0 {
		ls = DefaultLineSpacing
	}
	return r.Size * ls
}

// Render lays out every line of text. Each line is centered horizontally on
// the origin and lines stack downward from y=0.
func (r *Renderer) Render(text string) (path.Document, error) {
	if r.Size <= 0 {
		return nil, fmt.Errorf("render text: invalid size %g", r.Size)
	}

	var b path.Builder
	for i, line := range SplitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		origin := coord.Pt(-TextWidth(line, r.Size, r.Spacing)/2, -float64(i)*r.LineHeight())
		err := r.renderLine(&b, line, origin)
		if err != nil {
			return nil, err
		}
	}
	return b.Document(), nil
}

func (r *Renderer) renderLine(b *path.Builder, line string, origin coord.Point) error {
	x := origin.X
	for _, ch := range line {
		g, ok := Lookup(ch)
		if !ok {
			if !r.SkipUnknown {
				return fmt.Errorf("render text: no glyph for %q", ch)
			}
			r.logger().Printf("WARN: unknown character %q, skipping", ch)
			x += r.Size*unknownWidth + r.Spacing
			continue
		}

		for _, s := range g {
			if len(s) < 2 {
				continue
			}
			b.MoveTo(x+s[0].X*r.Size, origin.Y+s[0].Y*r.Size)
			for _, p := range s[1:] {
				b.LineTo(x+p.X*r.Size, origin.Y+p.Y*r.Size)
			}
		}
		x += r.Size*Width(ch) + r.Spacing
	}
	return nil
}
