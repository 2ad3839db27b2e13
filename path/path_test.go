package path

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	var b Builder
	b.LineTo(1, 1) // no subpath yet
	b.LineTo(5, 1)
	b.LineTo(5, 4)
	b.Close(0.01)

	doc := b.Document()
	assert.Equal(t, Document{
		{Kind: Move, X: 1, Y: 1},
		{Kind: Line, X: 5, Y: 1},
		{Kind: Line, X: 5, Y: 4},
		{Kind: Line, X: 1, Y: 1},
	}, doc)

	moves, lines := doc.Counts()
	assert.Equal(t, 1, moves)
	assert.Equal(t, 3, lines)

	// already closed
	b.LineTo(1.005, 1)
	n := b.Len()
	b.Close(0.01)
	assert.Equal(t, n, b.Len())
}

func TestNormalize(t *testing.T) {
	doc := Document{
		{Kind: Move, X: 0, Y: 0},
		{Kind: Line, X: 10, Y: 0},
		{Kind: Line, X: 10, Y: 20},
		{Kind: Line, X: 0, Y: 20},
		{Kind: Line, X: 0, Y: 0},
	}

	res := Normalize(doc, 80, YDown)
	assert.Len(t, res, len(doc))
	b := res.Bounds()
	assert.InDelta(t, 40, b.Width(), 1e-9)
	assert.InDelta(t, 80, b.Height(), 1e-9)
	assert.InDelta(t, 0, b.Center().X, 1e-9)
	assert.InDelta(t, 0, b.Center().Y, 1e-9)

	// top-left in SVG space ends up top-left in arm space
	assert.InDelta(t, -20, res[0].X, 1e-9)
	assert.InDelta(t, 40, res[0].Y, 1e-9)

	for i := range doc {
		assert.Equal(t, doc[i].Kind, res[i].Kind)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	doc := Document{
		{Kind: Move, X: 3, Y: 7},
		{Kind: Line, X: 11, Y: -2},
		{Kind: Move, X: 4, Y: 4},
		{Kind: Line, X: -6, Y: 1.5},
	}
	once := Normalize(doc, 50, YDown)
	twice := Normalize(once, 50, YUp)
	require.Len(t, twice, len(once))
	for i := range once {
		assert.InDelta(t, once[i].X, twice[i].X, 1e-9)
		assert.InDelta(t, once[i].Y, twice[i].Y, 1e-9)
	}
	assert.InDelta(t, 50, twice.Bounds().MaxSide(), 1e-9)

	// a Y-up source is only scaled and centered
	up := Normalize(doc, 50, YUp)
	for i := range once {
		assert.InDelta(t, once[i].X, up[i].X, 1e-9)
		assert.InDelta(t, -once[i].Y, up[i].Y, 1e-9)
	}
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil, 80, YDown))
	assert.Empty(t, Normalize(Document{{Kind: Move, X: 3, Y: 3}, {Kind: Line, X: 3, Y: 3}}, 80, YDown))
}
