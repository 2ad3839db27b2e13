package path

// Orientation is the direction of a source's Y axis.
type Orientation int

const (
	// YUp is arm space, and anything already normalized.
	YUp Orientation = iota

	// YDown is screen space, as used by SVG.
	YDown
)

// Normalize maps doc into arm space: scaled so its longer side is target
// millimeters and centered on the origin. Y is flipped when src is YDown.
// The result is YUp, so normalizing it again to the same target leaves it
// unchanged.
//
// A document without extent on either axis has nothing to draw and an empty
// Document is returned.
func Normalize(doc Document, target float64, src Orientation) Document {
	if len(doc) == 0 {
		return nil
	}
	b := doc.Bounds()
	side := b.MaxSide()
	if side == 0 {
		return nil
	}

	scale := target / side
	c := b.Center()
	flip := 1.0
	if src == YDown {
		flip = -1
	}

	res := make(Document, len(doc))
	for i, s := range doc {
		res[i] = Segment{
			Kind: s.Kind,
			X:    (s.X - c.X) * scale,
			Y:    flip * (s.Y - c.Y) * scale,
		}
	}
	return res
}
