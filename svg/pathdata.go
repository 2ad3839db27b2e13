package svg

import (
	"fmt"
	"regexp"
	"strconv"

	"honnef.co/go/curve"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/path"
)

var (
	rxToken  = regexp.MustCompile(`[MmLlHhVvCcQqSsTtAaZz]|[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
	rxNumber = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)
)

// closeEpsilon is how near the current point must be to the subpath start
// for Z to skip the closing chord.
const closeEpsilon = 0.01

// argCount is the number of numeric arguments each command consumes.
var argCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

func isCommand(tok string) bool {
	if len(tok) != 1 {
		return false
	}
	_, ok := argCount[upper(tok[0])]
	return ok
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

type ctrlKind byte

const (
	ctrlNone ctrlKind = iota
	ctrlCubic
	ctrlQuad
)

type pathDataParser struct {
	p *Parser

	toks []string
	i    int

	b        path.Builder
	cur      coord.Point
	start    coord.Point
	ctrl     coord.Point
	ctrlKind ctrlKind
}

// PathData flattens an SVG path `d` attribute into straight segments in
// SVG user space.
func (p *Parser) PathData(d string) (path.Document, error) {
	pp := &pathDataParser{p: p, toks: rxToken.FindAllString(d, -1)}
	err := pp.run()
	if err != nil {
		return nil, err
	}
	return pp.b.Document(), nil
}

func (pp *pathDataParser) numbers(n int) ([]float64, bool) {
	if pp.i+n > len(pp.toks) {
		return nil, false
	}
	res := make([]float64, n)
	for k := 0; k < n; k++ {
		tok := pp.toks[pp.i+k]
		if isCommand(tok) {
			return nil, false
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, false
		}
		res[k] = v
	}
	pp.i += n
	return res, true
}

func (pp *pathDataParser) run() error {
	var cmd byte // 0 means no active command
	var stray int

	for pp.i < len(pp.toks) {
		tok := pp.toks[pp.i]
		if isCommand(tok) {
			cmd = tok[0]
			pp.i++
		} else if cmd == 0 {
			// coordinates with no command in effect, e.g. after Z
			stray++
			pp.i++
			continue
		}

		if upper(cmd) == 'Z' {
			pp.closePath()
			cmd = 0
			continue
		}

		args, ok := pp.numbers(argCount[upper(cmd)])
		if !ok {
			return fmt.Errorf("path data: not enough arguments for '%c' at token %d", cmd, pp.i)
		}
		pp.apply(cmd, args)

		// implicit repetition of a moveto is a lineto
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
	if stray > 0 {
		pp.p.logger().Printf("WARN: path data: ignored %d coordinate(s) with no command", stray)
	}
	return nil
}

func (pp *pathDataParser) abs(rel bool, x, y float64) coord.Point {
	if rel {
		return coord.Pt(pp.cur.X+x, pp.cur.Y+y)
	}
	return coord.Pt(x, y)
}

// reflect returns the implied first control point of a smooth curve.
func (pp *pathDataParser) reflect(want ctrlKind) coord.Point {
	if pp.ctrlKind != want {
		return pp.cur
	}
	return coord.Pt(2*pp.cur.X-pp.ctrl.X, 2*pp.cur.Y-pp.ctrl.Y)
}

func (pp *pathDataParser) apply(cmd byte, a []float64) {
	rel := cmd >= 'a'
	next := ctrlNone

	switch upper(cmd) {
	case 'M':
		pp.cur = pp.abs(rel, a[0], a[1])
		pp.start = pp.cur
		pp.b.MoveTo(pp.cur.X, pp.cur.Y)
	case 'L':
		pp.lineTo(pp.abs(rel, a[0], a[1]))
	case 'H':
		x := a[0]
		if rel {
			x += pp.cur.X
		}
		pp.lineTo(coord.Pt(x, pp.cur.Y))
	case 'V':
		y := a[0]
		if rel {
			y += pp.cur.Y
		}
		pp.lineTo(coord.Pt(pp.cur.X, y))
	case 'C':
		c1 := pp.abs(rel, a[0], a[1])
		c2 := pp.abs(rel, a[2], a[3])
		end := pp.abs(rel, a[4], a[5])
		pp.cubic(c1, c2, end)
		pp.ctrl, next = c2, ctrlCubic
	case 'S':
		c1 := pp.reflect(ctrlCubic)
		c2 := pp.abs(rel, a[0], a[1])
		end := pp.abs(rel, a[2], a[3])
		pp.cubic(c1, c2, end)
		pp.ctrl, next = c2, ctrlCubic
	case 'Q':
		c := pp.abs(rel, a[0], a[1])
		end := pp.abs(rel, a[2], a[3])
		pp.quad(c, end)
		pp.ctrl, next = c, ctrlQuad
	case 'T':
		c := pp.reflect(ctrlQuad)
		end := pp.abs(rel, a[0], a[1])
		pp.quad(c, end)
		pp.ctrl, next = c, ctrlQuad
	case 'A':
		// Arcs are drawn as a single chord to the end point.
		pp.lineTo(pp.abs(rel, a[5], a[6]))
	}
	pp.ctrlKind = next
}

func (pp *pathDataParser) lineTo(p coord.Point) {
	pp.b.LineTo(p.X, p.Y)
	pp.cur = p
}

func (pp *pathDataParser) closePath() {
	pp.b.Close(closeEpsilon)
	pp.cur = pp.start
	pp.ctrlKind = ctrlNone
}

func cp(p coord.Point) curve.Point { return curve.Point{X: p.X, Y: p.Y} }

func (pp *pathDataParser) cubic(c1, c2, end coord.Point) {
	bez := curve.CubicBez{cp(pp.cur), cp(c1), cp(c2), cp(end)}
	n := pp.p.curveSteps()
	for i := 1; i <= n; i++ {
		if i == n {
			pp.lineTo(end)
			break
		}
		pt := bez.Eval(float64(i) / float64(n))
		pp.b.LineTo(pt.X, pt.Y)
	}
}

func (pp *pathDataParser) quad(c, end coord.Point) {
	bez := curve.QuadBez{cp(pp.cur), cp(c), cp(end)}
	n := pp.p.curveSteps()
	for i := 1; i <= n; i++ {
		if i == n {
			pp.lineTo(end)
			break
		}
		pt := bez.Eval(float64(i) / float64(n))
		pp.b.LineTo(pt.X, pt.Y)
	}
}

// parsePoints reads a polyline/polygon `points` attribute.
func parsePoints(s string) []coord.Point {
	nums := rxNumber.FindAllString(s, -1)
	pts := make([]coord.Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		x, errX := strconv.ParseFloat(nums[i], 64)
		y, errY := strconv.ParseFloat(nums[i+1], 64)
		if errX != nil || errY != nil {
			continue
		}
		pts = append(pts, coord.Pt(x, y))
	}
	return pts
}
