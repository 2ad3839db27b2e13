// Package meshlevel compensates pen height for paper that is not level with
// the arm's XY plane.
package meshlevel

import (
	"errors"

	"github.com/mastercactapus/plotarm/coord"
)

// ErrTooFewPoints is returned when a surface has fewer than 3 probe points.
var ErrTooFewPoints = errors.New("need at least 3 points to describe a surface")

// Compensator returns the Z correction to ride along a move.
type Compensator interface {
	DeltaZ(from, to coord.Point) float64
}

// None never compensates.
type None struct{}

func (None) DeltaZ(from, to coord.Point) float64 { return 0 }

// Tilt models paper sloping uniformly along Y.
type Tilt struct {
	// Slope is Z mm per Y mm.
	Slope float64
}

// DeltaZ is Slope times the Y delta, exactly 0 for moves with no Y component.
func (t Tilt) DeltaZ(from, to coord.Point) float64 {
	dy := to.Y - from.Y
	if dy == 0 {
		return 0
	}
	return t.Slope * dy
}

// Surface compensates by the height difference of a probed surface between
// both endpoints. Moves with an endpoint off the surface are not adjusted.
type Surface struct {
	ZOffsetter
}

func (s Surface) DeltaZ(from, to coord.Point) float64 {
	ok, oldZ := s.OffsetZ(from.X, from.Y)
	if !ok {
		return 0
	}
	ok, newZ := s.OffsetZ(to.X, to.Y)
	if !ok {
		return 0
	}
	return newZ - oldZ
}

// Sum adds the corrections of several compensators.
type Sum []Compensator

func (s Sum) DeltaZ(from, to coord.Point) float64 {
	var dz float64
	for _, c := range s {
		dz += c.DeltaZ(from, to)
	}
	return dz
}

// FromPoints builds a Surface from probed points, relative to the first
// point's height. Three points make a plane and more make a mesh.
func FromPoints(points []coord.Point) (*Surface, error) {
	if len(points) < 3 {
		return nil, ErrTooFewPoints
	}

	rel := make([]coord.Point, len(points))
	copy(rel, points)
	for i := range rel {
		rel[i].Z -= points[0].Z
	}

	if len(rel) == 3 {
		pl := PlaneSurface{coord.Plane{rel[0], rel[1], rel[2]}}
		if pl.Degenerate() {
			return nil, errors.New("surface points are collinear")
		}
		return &Surface{pl}, nil
	}

	m, err := NewMesh(rel)
	if err != nil {
		return nil, err
	}
	return &Surface{m}, nil
}

// New combines a Y tilt and an optional probed surface.
func New(slope float64, surface []coord.Point) (Compensator, error) {
	var res Sum
	if slope != 0 {
		res = append(res, Tilt{Slope: slope})
	}
	if len(surface) > 0 {
		s, err := FromPoints(surface)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	switch len(res) {
	case 0:
		return None{}, nil
	case 1:
		return res[0], nil
	}
	return res, nil
}
