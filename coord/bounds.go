package coord

import "math"

// Bounds is an axis-aligned box on the drawing plane.
//
// The zero value is empty; Extend a point into it to start.
type Bounds struct {
	Min, Max Point
	valid    bool
}

// Extend grows b to contain x,y.
func (b Bounds) Extend(x, y float64) Bounds {
	if !b.valid {
		b.Min = Pt(x, y)
		b.Max = Pt(x, y)
		b.valid = true
		return b
	}
	b.Min.X = math.Min(b.Min.X, x)
	b.Min.Y = math.Min(b.Min.Y, y)
	b.Max.X = math.Max(b.Max.X, x)
	b.Max.Y = math.Max(b.Max.Y, y)
	return b
}

// Empty is true if no point was ever added.
func (b Bounds) Empty() bool { return !b.valid }

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// MaxSide returns the longer of width and height.
func (b Bounds) MaxSide() float64 { return math.Max(b.Width(), b.Height()) }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Pt((b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2)
}

// ContainsXY reports whether x,y lies inside b grown by eps on every side.
func (b Bounds) ContainsXY(x, y, eps float64) bool {
	if !b.valid {
		return false
	}
	return x >= b.Min.X-eps && x <= b.Max.X+eps && y >= b.Min.Y-eps && y <= b.Max.Y+eps
}
