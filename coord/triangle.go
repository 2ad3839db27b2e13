package coord

import "math"

const (
	// Epsilon is the max error when checking containment.
	Epsilon   = 0.001
	epsilonSq = Epsilon * Epsilon
)

// Triangle is one face of a probed surface mesh.
type Triangle struct{ A, B, C Point }

// Bounds returns the XY box around the triangle.
func (t Triangle) Bounds() Bounds {
	return Bounds{}.Extend(t.A.X, t.A.Y).Extend(t.B.X, t.B.Y).Extend(t.C.X, t.C.Y)
}

// Z gives the surface height of the triangle's plane at x,y.
func (t Triangle) Z(x, y float64) float64 {
	return Plane{t.A, t.B, t.C}.Z(x, y)
}

// ContainsXY reports whether x,y falls inside the triangle's projection on
// the drawing plane, or within Epsilon of one of its edges. Either winding
// is accepted.
func (t Triangle) ContainsXY(x, y float64) bool {
	if !t.Bounds().ContainsXY(x, y, Epsilon) {
		return false
	}

	p := Pt(x, y)
	s1, s2, s3 := side(t.A, t.B, p), side(t.B, t.C, p), side(t.C, t.A, p)
	if (s1 >= 0 && s2 >= 0 && s3 >= 0) || (s1 <= 0 && s2 <= 0 && s3 <= 0) {
		return true
	}

	return segmentDistanceSq(t.A, t.B, p) <= epsilonSq ||
		segmentDistanceSq(t.B, t.C, p) <= epsilonSq ||
		segmentDistanceSq(t.C, t.A, p) <= epsilonSq
}

// side is twice the signed area of a, b, p; its sign tells which side of
// ab the point is on.
func side(a, b, p Point) float64 {
	return (b.Y-a.Y)*(p.X-a.X) - (b.X-a.X)*(p.Y-a.Y)
}

// segmentDistanceSq is the squared XY distance from p to the segment ab.
func segmentDistanceSq(a, b, p Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	u := 0.0
	if l := dx*dx + dy*dy; l > 0 {
		u = ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l
		u = math.Max(0, math.Min(1, u))
	}
	ex, ey := a.X+u*dx-p.X, a.Y+u*dy-p.Y
	return ex*ex + ey*ey
}
