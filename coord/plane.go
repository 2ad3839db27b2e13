package coord

// Plane is the surface through three probed points.
type Plane [3]Point

// Z returns the plane height at x,y.
func (p Plane) Z(x, y float64) float64 {
	a := p[0].Y*(p[1].Z-p[2].Z) + p[1].Y*(p[2].Z-p[0].Z) + p[2].Y*(p[0].Z-p[1].Z)
	b := p[0].Z*(p[1].X-p[2].X) + p[1].Z*(p[2].X-p[0].X) + p[2].Z*(p[0].X-p[1].X)
	c := p[0].X*(p[1].Y-p[2].Y) + p[1].X*(p[2].Y-p[0].Y) + p[2].X*(p[0].Y-p[1].Y)
	d := -p[0].X*(p[1].Y*p[2].Z-p[2].Y*p[1].Z) - p[1].X*(p[2].Y*p[0].Z-p[0].Y*p[2].Z) - p[2].X*(p[0].Y*p[1].Z-p[1].Y*p[0].Z)

	return -(a*x + b*y + d) / c
}

// Degenerate is true if the three points are collinear on the XY plane.
func (p Plane) Degenerate() bool {
	c := p[0].X*(p[1].Y-p[2].Y) + p[1].X*(p[2].Y-p[0].Y) + p[2].X*(p[0].Y-p[1].Y)
	return c > -Epsilon*Epsilon && c < Epsilon*Epsilon
}
