package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mastercactapus/plotarm/calibration"
	"github.com/mastercactapus/plotarm/coord"
	"github.com/mastercactapus/plotarm/machine"
	"github.com/mastercactapus/plotarm/motion"
)

type CalibrateCommand struct {
	ZUp       float64  `long:"z-up" default:"6" description:"Travel height in mm above the paper (5-8 recommended)"`
	TiltSlope *float64 `long:"tilt-slope" description:"Z correction in mm per mm of Y travel; 0 disables it"`
	Yes       bool     `short:"y" long:"yes" description:"Do not ask for confirmation"`
}

func confirm(r io.Reader, prompt string) bool {
	fmt.Print(prompt)
	line, _ := bufio.NewReader(r).ReadString('\n')
	return strings.ToLower(strings.TrimSpace(line)) != "q"
}

// apply sets the values given on the command line. The saved tilt slope
// is kept unless --tilt-slope was passed.
func (c *CalibrateCommand) apply(cal calibration.Calibration) calibration.Calibration {
	cal.ZUp = c.ZUp
	if c.TiltSlope != nil {
		cal.TiltSlope = *c.TiltSlope
	}
	return cal
}

func (c *CalibrateCommand) Execute(args []string) error {
	g := opts.Global
	cal, err := calibration.Load(g.Calibration)
	if err != nil {
		return err
	}
	cal = c.apply(cal)
	err = cal.Validate()
	if err != nil {
		return err
	}

	if !c.Yes && !confirm(os.Stdin, "Position the pen so it touches the paper, then press ENTER (q to abort): ") {
		return errors.New("calibration aborted")
	}

	ctx, done := signalContext()
	defer done()

	d, err := machine.Open(ctx, g.opener(), g.driverConfig())
	if err != nil {
		return err
	}
	defer d.Close()

	fmt.Printf("Lifting pen %.1fmm...\n", cal.ZUp)
	err = d.Begin(ctx)
	if err == nil {
		err = d.Exec(ctx, motion.Command{
			Op:    motion.OpPenUp,
			Delta: coord.Point{Z: cal.ZUp},
			Feed:  motion.DefaultPen().TravelFeed,
			Pen:   motion.PenUp,
			Sync:  true,
		})
	}
	if err == nil {
		err = d.End(ctx)
	}
	if err != nil {
		return fmt.Errorf("lift pen: %w", err)
	}

	err = calibration.Save(g.Calibration, cal)
	if err != nil {
		return err
	}
	err = calibration.MarkReady(g.readyPath(), cal)
	if err != nil {
		return err
	}
	fmt.Printf("Saved! z_up=%.1fmm, pen is up and ready.\n", cal.ZUp)
	return nil
}
