package job

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mastercactapus/plotarm/calibration"
	"github.com/mastercactapus/plotarm/font"
	"github.com/mastercactapus/plotarm/motion"
	"github.com/mastercactapus/plotarm/path"
	"github.com/mastercactapus/plotarm/shape"
	"github.com/mastercactapus/plotarm/svg"
)

// ErrNothingToDraw is returned when a request produces no segments.
var ErrNothingToDraw = errors.New("nothing to draw")

// Kind selects the path front end for a request.
type Kind int

const (
	KindShape Kind = iota
	KindText
	KindSVG
)

func (k Kind) String() string {
	switch k {
	case KindShape:
		return "draw"
	case KindText:
		return "write"
	case KindSVG:
		return "svg"
	}
	return "unknown"
}

// ParseKind maps the action names "draw", "write" and "svg" to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "draw", "shape":
		return KindShape, nil
	case "write", "text":
		return KindText, nil
	case "svg":
		return KindSVG, nil
	}
	return 0, fmt.Errorf("unknown job kind %q", name)
}

// Front end defaults.
const (
	DemoSize = 25.0
	DemoGap  = 35.0

	DefaultSVGSize = 80.0
	DefaultSVGFeed = 250.0
)

// Request describes one drawing job.
type Request struct {
	Kind Kind

	// Content is the shape name, the text, or the SVG file name.
	Content string

	// Size is the shape size, letter height or SVG target; zero means the
	// front end default.
	Size float64

	// Feed overrides the draw feed when positive.
	Feed float64
}

func (r Request) String() string {
	s := fmt.Sprintf("action=%s content=%q", r.Kind, r.Content)
	if r.Size > 0 {
		s += fmt.Sprintf(" size=%g", r.Size)
	}
	return s
}

// Planner turns requests into compiled commands.
type Planner struct {
	Calibration calibration.Calibration
	Pen         motion.Pen
	Shape       shape.Options

	// LineSpacing for multi-line text; zero uses the font default.
	LineSpacing float64

	// Logger is passed to the front ends. If nil, log.Default() is used.
	Logger *log.Logger
}

// NewPlanner returns a Planner using cal and the default pen.
func NewPlanner(cal calibration.Calibration) *Planner {
	return &Planner{
		Calibration: cal,
		Pen:         cal.Apply(motion.DefaultPen()),
	}
}

func (p *Planner) logger() *log.Logger {
	if p.Logger == nil {
		return log.Default()
	}
	return p.Logger
}

// Document produces the arm-space path for req, along with the draw feed
// its front end uses.
func (p *Planner) Document(req Request) (path.Document, float64, error) {
	var (
		doc  path.Document
		feed = p.Pen.DrawFeed
		err  error
	)

	switch req.Kind {
	case KindShape:
		doc, err = p.shape(req)
	case KindText:
		r := font.DefaultRenderer()
		r.Logger = p.logger()
		if req.Size > 0 {
			r.Size = req.Size
		}
		if p.LineSpacing > 0 {
			r.LineSpacing = p.LineSpacing
		}
		feed = font.DefaultDrawFeed
		doc, err = r.Render(req.Content)
	case KindSVG:
		size := req.Size
		if size <= 0 {
			size = DefaultSVGSize
		}
		feed = DefaultSVGFeed
		doc, err = p.svg(req.Content, size)
	default:
		err = fmt.Errorf("unknown job kind %d", req.Kind)
	}
	if err != nil {
		return nil, 0, err
	}
	if len(doc) == 0 {
		return nil, 0, ErrNothingToDraw
	}
	if req.Feed > 0 {
		feed = req.Feed
	}
	return doc, feed, nil
}

func (p *Planner) shape(req Request) (path.Document, error) {
	if strings.EqualFold(strings.TrimSpace(req.Content), "demo") {
		size := req.Size
		if size <= 0 {
			size = DemoSize
		}
		return shape.Demo(size, DemoGap, p.Shape)
	}

	k, err := shape.ParseKind(req.Content)
	if err != nil {
		return nil, err
	}
	size := req.Size
	if size <= 0 {
		size = k.DefaultSize()
	}
	return shape.Generate(k, size, p.Shape)
}

func (p *Planner) svg(name string, size float64) (path.Document, error) {
	parser := &svg.Parser{Logger: p.logger()}
	doc, stats, err := parser.ParseFile(name)
	if errors.Is(err, svg.ErrNoGeometry) {
		return nil, fmt.Errorf("%w: %v", ErrNothingToDraw, err)
	}
	if err != nil {
		return nil, err
	}

	b := doc.Bounds()
	norm := path.Normalize(doc, size, path.YDown)
	moves, lines := norm.Counts()
	p.logger().Printf("SVG %s: %s; %.1fx%.1f -> %.1fx%.1fmm; %d moves, %d lines",
		name, stats, b.Width(), b.Height(), norm.Bounds().Width(), norm.Bounds().Height(), moves, lines)
	return norm, nil
}

// Plan compiles req with the calibrated pen and compensation.
func (p *Planner) Plan(req Request) ([]motion.Command, error) {
	doc, feed, err := p.Document(req)
	if err != nil {
		return nil, err
	}
	comp, err := p.Calibration.Compensator()
	if err != nil {
		return nil, err
	}
	pen := p.Pen
	pen.DrawFeed = feed
	return motion.Compile(doc, pen, comp), nil
}
