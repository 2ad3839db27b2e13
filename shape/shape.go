// Package shape generates closed-form outlines for simple test figures.
package shape

import (
	"fmt"
	"math"
	"strings"

	"github.com/mastercactapus/plotarm/path"
)

// Kind is one of the supported parametric shapes.
type Kind byte

const (
	Square Kind = iota
	// Triangle is equilateral with its base on the X axis.
	Triangle
	Circle
)

// DefaultCircleSegments is the number of chords in a full circle.
const DefaultCircleSegments = 72

func (k Kind) String() string {
	switch k {
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	case Circle:
		return "circle"
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// DefaultSize is the size used when none is requested: the side length for
// square and triangle, the radius for circle.
func (k Kind) DefaultSize() float64 {
	if k == Circle {
		return 15
	}
	return 30
}

// ParseKind maps a shape name to its Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "square":
		return Square, nil
	case "triangle", "equilateral":
		return Triangle, nil
	case "circle":
		return Circle, nil
	}
	return 0, fmt.Errorf("unknown shape '%s'", name)
}

// Options configure shape generation.
type Options struct {
	// CircleSegments is the number of chords per full turn.
	CircleSegments int
}

func (opt Options) circleSegments() int {
	if opt.CircleSegments <= 0 {
		return DefaultCircleSegments
	}
	return opt.CircleSegments
}

// Generate returns the outline of kind in arm space, centered around the
// origin. Every outline is one closed subpath.
func Generate(kind Kind, size float64, opt Options) (path.Document, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%s: size must be positive, got %g", kind, size)
	}

	var b path.Builder
	switch kind {
	case Square:
		h := size / 2
		b.MoveTo(-h, -h)
		b.LineTo(h, -h)
		b.LineTo(h, h)
		b.LineTo(-h, h)
		b.LineTo(-h, -h)
	case Triangle:
		h := size * math.Sqrt(3) / 2
		b.MoveTo(-size/2, 0)
		b.LineTo(size/2, 0)
		b.LineTo(0, h)
		b.LineTo(-size/2, 0)
	case Circle:
		n := opt.circleSegments()
		b.MoveTo(size, 0)
		for i := 1; i <= n; i++ {
			if i == n {
				// land exactly on the start point
				b.LineTo(size, 0)
				break
			}
			a := 2 * math.Pi * float64(i) / float64(n)
			b.LineTo(size*math.Cos(a), size*math.Sin(a))
		}
	default:
		return nil, fmt.Errorf("unsupported shape %s", kind)
	}

	return b.Document(), nil
}

// Demo lays out a square, a triangle and a circle left to right with gap
// millimeters between their centers.
func Demo(size, gap float64, opt Options) (path.Document, error) {
	var b path.Builder
	for i, k := range []Kind{Square, Triangle, Circle} {
		s := size
		if k == Circle {
			s = size / 2
		}
		doc, err := Generate(k, s, opt)
		if err != nil {
			return nil, err
		}
		dx := float64(i-1) * gap
		for _, seg := range doc {
			seg.X += dx
			if seg.Kind == path.Move {
				b.MoveTo(seg.X, seg.Y)
			} else {
				b.LineTo(seg.X, seg.Y)
			}
		}
	}
	return b.Document(), nil
}
