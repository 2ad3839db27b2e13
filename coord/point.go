package coord

import (
	"math"
)

// Point is a position or a relative delta in millimeters.
//
// X and Y are the drawing plane, Z is the pen-lift axis.
type Point struct{ X, Y, Z float64 }

// Pt is shorthand for a point on the drawing plane.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Equal(b Point) bool {
	return p.X == b.X && p.Y == b.Y && p.Z == b.Z
}

// NearXY reports if b is within eps of p on both plane axes.
func (p Point) NearXY(b Point, eps float64) bool {
	return math.Abs(p.X-b.X) <= eps && math.Abs(p.Y-b.Y) <= eps
}

// Add will add the target values to p.
func (p Point) Add(target Point) Point {
	p.X += target.X
	p.Y += target.Y
	p.Z += target.Z
	return p
}

// Split will return a set of evenly spaced points
// from p to the target.
func (p Point) Split(target Point, n int, relative bool) []Point {
	target.X = (target.X - p.X) / float64(n)
	target.Y = (target.Y - p.Y) / float64(n)
	target.Z = (target.Z - p.Z) / float64(n)

	res := make([]Point, n)
	for i := range res {
		if relative {
			res[i] = target
		} else {
			res[i].X = p.X + target.X*float64(i+1)
			res[i].Y = p.Y + target.Y*float64(i+1)
			res[i].Z = p.Z + target.Z*float64(i+1)
		}
	}

	return res
}

// DistanceXY will return the 2D distance to p from (x,y).
func (p Point) DistanceXY(x, y float64) float64 {
	return math.Hypot(x-p.X, y-p.Y)
}
