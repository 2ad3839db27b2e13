package meshlevel

import "github.com/mastercactapus/plotarm/coord"

// ZOffsetter reports the surface height at a point, if known.
type ZOffsetter interface {
	OffsetZ(x, y float64) (bool, float64)
}

// PlaneSurface is a flat surface through three probed points.
type PlaneSurface struct {
	coord.Plane
}

// OffsetZ always reports the plane height unless the points are collinear.
func (p PlaneSurface) OffsetZ(x, y float64) (bool, float64) {
	if p.Degenerate() {
		return false, 0
	}
	return true, p.Z(x, y)
}
