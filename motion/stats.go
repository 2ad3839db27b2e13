package motion

import (
	"fmt"
	"math"

	"github.com/mastercactapus/plotarm/coord"
)

// Summary counts the work in a compiled job.
type Summary struct {
	Travel, Draw   int
	PenLifts       int
	TravelDistance float64
	DrawDistance   float64
	Net            coord.Point
}

func (s Summary) String() string {
	return fmt.Sprintf("%d travel moves (%.1fmm), %d draw moves (%.1fmm), %d pen lifts",
		s.Travel, s.TravelDistance, s.Draw, s.DrawDistance, s.PenLifts)
}

// Stats summarizes cmds.
func Stats(cmds []Command) Summary {
	var s Summary
	for _, c := range cmds {
		s.Net = s.Net.Add(c.Delta)
		d := math.Hypot(c.Delta.X, c.Delta.Y)
		switch c.Op {
		case OpTravel:
			s.Travel++
			s.TravelDistance += d
		case OpDraw:
			s.Draw++
			s.DrawDistance += d
		case OpPenUp:
			s.PenLifts++
		}
	}
	return s
}
