package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/machine"
	"github.com/mastercactapus/plotarm/motion"
)

type WaveCommand struct {
	Distance float64 `long:"distance" default:"30" description:"Distance per move in mm"`
	Feed     float64 `long:"feed" default:"800" description:"Feed in mm/min"`
}

type waveStep struct {
	Name string
	Cmd  motion.Command
}

// waveSteps lifts and lowers, steps right, lifts and lowers again, then
// returns to the start. Every move waits for motion to finish.
func waveSteps(dist, feed float64) []waveStep {
	z := func(dz float64, pen motion.PenState) motion.Command {
		op := motion.OpPenUp
		if pen == motion.PenDown {
			op = motion.OpPenDown
		}
		return motion.Command{Op: op, Delta: coord.Point{Z: dz}, Feed: feed, Pen: pen, Sync: true}
	}
	x := func(dx float64) motion.Command {
		return motion.Command{Op: motion.OpTravel, Delta: coord.Point{X: dx}, Feed: feed, Pen: motion.PenDown, Sync: true}
	}
	return []waveStep{
		{"Up", z(dist, motion.PenUp)},
		{"Down", z(-dist, motion.PenDown)},
		{"Right", x(dist)},
		{"Up", z(dist, motion.PenUp)},
		{"Down", z(-dist, motion.PenDown)},
		{"Left (back to start)", x(-dist)},
	}
}

// wave runs steps on d. Absolute positioning is restored even when a step
// fails.
func wave(ctx context.Context, d *machine.Driver, steps []waveStep, out io.Writer) error {
	err := d.Begin(ctx)
	for i, s := range steps {
		if err != nil {
			break
		}
		fmt.Fprintf(out, "%d) %s: %s\n", i+1, s.Name, s.Cmd.Block())
		err = d.Exec(ctx, s.Cmd)
	}
	endErr := d.End(ctx)
	if err != nil {
		return err
	}
	return endErr
}

func (c *WaveCommand) Execute(args []string) error {
	if c.Distance <= 0 || c.Feed <= 0 {
		return fmt.Errorf("distance and feed must be positive")
	}
	g := opts.Global

	ctx, done := signalContext()
	defer done()

	d, err := machine.Open(ctx, g.opener(), g.driverConfig())
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Wave: %.1fmm moves at F%.0f\n", c.Distance, c.Feed)
	err = wave(ctx, d, waveSteps(c.Distance, c.Feed), os.Stdout)
	if err != nil {
		return err
	}
	fmt.Println("Done, arm back at starting position.")
	return nil
}
