package meshlevel

import (
	"fmt"

	"github.com/fogleman/delaunay"

	"github.com/mastercactapus/plotarm/coord"
)

type face struct {
	coord.Triangle
	bounds coord.Bounds
}

// Mesh interpolates surface height from probed points over a Delaunay
// triangulation.
type Mesh struct {
	bounds coord.Bounds
	faces  []face
}

// NewMesh triangulates points. At least 3 points are required.
func NewMesh(points []coord.Point) (*Mesh, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	var b coord.Bounds
	flat := make([]delaunay.Point, len(points))
	for i, p := range points {
		flat[i] = delaunay.Point{X: p.X, Y: p.Y}
		b = b.Extend(p.X, p.Y)
	}

	tri, err := delaunay.Triangulate(flat)
	if err != nil {
		return nil, fmt.Errorf("triangulate surface: %w", err)
	}

	// Triangles holds indexes into flat, which line up with points.
	m := &Mesh{bounds: b, faces: make([]face, 0, len(tri.Triangles)/3)}
	for i := 0; i+2 < len(tri.Triangles); i += 3 {
		t := coord.Triangle{
			A: points[tri.Triangles[i]],
			B: points[tri.Triangles[i+1]],
			C: points[tri.Triangles[i+2]],
		}
		m.faces = append(m.faces, face{Triangle: t, bounds: t.Bounds()})
	}
	return m, nil
}

// OffsetZ returns the surface height at x,y. It reports false outside the
// triangulated hull.
func (m Mesh) OffsetZ(x, y float64) (bool, float64) {
	if !m.bounds.ContainsXY(x, y, coord.Epsilon) {
		return false, 0
	}
	for _, f := range m.faces {
		if !f.bounds.ContainsXY(x, y, coord.Epsilon) || !f.ContainsXY(x, y) {
			continue
		}
		return true, f.Z(x, y)
	}
	return false, 0
}
