// Package svg flattens SVG artwork into straight-line path documents.
package svg

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/path"
)

// ErrNoGeometry is returned when a document contains no drawable elements.
var ErrNoGeometry = errors.New("svg: no drawable geometry")

// ElementKind identifies a supported SVG shape element.
type ElementKind int

const (
	ElementPath ElementKind = iota
	ElementCircle
	ElementEllipse
	ElementRect
	ElementLine
	ElementPolyline
	ElementPolygon

	numElementKinds
)

var elementNames = [numElementKinds]string{
	"path", "circle", "ellipse", "rect", "line", "polyline", "polygon",
}

func (k ElementKind) String() string {
	if k < 0 || k >= numElementKinds {
		return "ElementKind(" + strconv.Itoa(int(k)) + ")"
	}
	return elementNames[k]
}

func elementKind(local string) (ElementKind, bool) {
	for i, name := range elementNames {
		if name == local {
			return ElementKind(i), true
		}
	}
	return 0, false
}

// Stats counts the elements that contributed geometry, by kind.
type Stats struct {
	Elements [numElementKinds]int
	Skipped  int
}

// Total returns the number of elements that produced geometry.
func (s Stats) Total() int {
	var n int
	for _, c := range s.Elements {
		n += c
	}
	return n
}

func (s Stats) String() string {
	var parts []string
	for i, c := range s.Elements {
		if c == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%d", ElementKind(i), c))
	}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("skipped=%d", s.Skipped))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// Default flattening resolution.
const (
	DefaultCurveSteps   = 20
	DefaultEllipseSteps = 48
)

// Parser converts SVG input into a path.Document. The zero value is ready
// to use.
type Parser struct {
	CurveSteps   int
	EllipseSteps int

	// Logger receives warnings about ignored input. If nil, log.Default() is used.
	Logger *log.Logger
}

func (p *Parser) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

func (p *Parser) curveSteps() int {
	if p.CurveSteps <= 0 {
		return DefaultCurveSteps
	}
	return p.CurveSteps
}

func (p *Parser) ellipseSteps() int {
	if p.EllipseSteps <= 0 {
		return DefaultEllipseSteps
	}
	return p.EllipseSteps
}

// Parse reads an SVG document using a default Parser.
func Parse(r io.Reader) (path.Document, Stats, error) {
	var p Parser
	return p.Parse(r)
}

// ParseFile reads the SVG file at name using a default Parser.
func ParseFile(name string) (path.Document, Stats, error) {
	var p Parser
	return p.ParseFile(name)
}

// ParseFile reads the SVG file at name.
func (p *Parser) ParseFile(name string) (path.Document, Stats, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, Stats{}, err
	}
	defer fd.Close()
	return p.Parse(fd)
}

// ParsePathData flattens a path `d` attribute using a default Parser.
func ParsePathData(d string) (path.Document, error) {
	var p Parser
	return p.PathData(d)
}

// Parse walks every supported shape element in document order. Transforms
// are not applied.
func (p *Parser) Parse(r io.Reader) (path.Document, Stats, error) {
	var (
		b     path.Builder
		stats Stats
	)

	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("parse svg: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		kind, ok := elementKind(el.Name.Local)
		if !ok {
			continue
		}

		doc, err := p.element(kind, attrMap(el.Attr))
		if err != nil {
			p.logger().Printf("WARN: skipping <%s>: %v", kind, err)
			stats.Skipped++
			continue
		}
		if len(doc) == 0 {
			stats.Skipped++
			continue
		}
		stats.Elements[kind]++
		b.Append(doc)
	}

	if b.Len() == 0 {
		return nil, stats, ErrNoGeometry
	}
	return b.Document(), stats, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

// length parses a numeric attribute. Missing attributes are zero; NaN and
// infinities are rejected.
func length(attrs map[string]string, name string) (float64, error) {
	s := strings.TrimSpace(attrs[name])
	if s == "" {
		return 0, nil
	}
	s = strings.TrimSuffix(s, "px")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("attribute %s: %w", name, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("attribute %s: not a finite number: %q", name, s)
	}
	return v, nil
}

func lengths(attrs map[string]string, names ...string) ([]float64, error) {
	res := make([]float64, len(names))
	for i, name := range names {
		v, err := length(attrs, name)
		if err != nil {
			return nil, err
		}
		res[i] = v
	}
	return res, nil
}

func (p *Parser) element(kind ElementKind, attrs map[string]string) (path.Document, error) {
	switch kind {
	case ElementPath:
		return p.PathData(attrs["d"])
	case ElementCircle:
		v, err := lengths(attrs, "cx", "cy", "r")
		if err != nil {
			return nil, err
		}
		return p.ellipse(v[0], v[1], v[2], v[2]), nil
	case ElementEllipse:
		v, err := lengths(attrs, "cx", "cy", "rx", "ry")
		if err != nil {
			return nil, err
		}
		return p.ellipse(v[0], v[1], v[2], v[3]), nil
	case ElementRect:
		v, err := lengths(attrs, "x", "y", "width", "height")
		if err != nil {
			return nil, err
		}
		return rect(v[0], v[1], v[2], v[3]), nil
	case ElementLine:
		v, err := lengths(attrs, "x1", "y1", "x2", "y2")
		if err != nil {
			return nil, err
		}
		return polyline([]coord.Point{coord.Pt(v[0], v[1]), coord.Pt(v[2], v[3])}, false), nil
	case ElementPolyline:
		return polyline(parsePoints(attrs["points"]), false), nil
	case ElementPolygon:
		return polyline(parsePoints(attrs["points"]), true), nil
	}
	return nil, fmt.Errorf("unsupported element kind %d", kind)
}

func (p *Parser) ellipse(cx, cy, rx, ry float64) path.Document {
	if rx <= 0 || ry <= 0 {
		return nil
	}
	n := p.ellipseSteps()
	var b path.Builder
	b.MoveTo(cx+rx, cy)
	for i := 1; i <= n; i++ {
		if i == n {
			b.LineTo(cx+rx, cy)
			break
		}
		a := 2 * math.Pi * float64(i) / float64(n)
		b.LineTo(cx+rx*math.Cos(a), cy+ry*math.Sin(a))
	}
	return b.Document()
}

func rect(x, y, w, h float64) path.Document {
	if w <= 0 || h <= 0 {
		return nil
	}
	var b path.Builder
	b.MoveTo(x, y)
	b.LineTo(x+w, y)
	b.LineTo(x+w, y+h)
	b.LineTo(x, y+h)
	b.LineTo(x, y)
	return b.Document()
}

func polyline(pts []coord.Point, closed bool) path.Document {
	if len(pts) < 2 {
		return nil
	}
	var b path.Builder
	b.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		b.LineTo(pt.X, pt.Y)
	}
	if closed {
		b.LineTo(pts[0].X, pts[0].Y)
	}
	return b.Document()
}
