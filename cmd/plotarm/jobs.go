package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/mastercactapus/plotarm/calibration"
	"github.com/mastercactapus/plotarm/job"
)

type DrawCommand struct {
	Size float64 `long:"size" description:"Size in mm; the circle size is its radius (default depends on the shape)"`
	Feed float64 `long:"feed" description:"Draw feed in mm/min"`

	Args struct {
		Shape string `positional-arg-name:"shape" description:"square, triangle, circle or demo"`
	} `positional-args:"yes" required:"yes"`
}

func (c *DrawCommand) Execute(args []string) error {
	return runJob(job.Request{Kind: job.KindShape, Content: c.Args.Shape, Size: c.Size, Feed: c.Feed}, nil)
}

type WriteCommand struct {
	Size        float64 `long:"size" default:"10" description:"Letter height in mm"`
	Feed        float64 `long:"feed" description:"Draw feed in mm/min"`
	LineSpacing float64 `long:"line-spacing" default:"1.5" description:"Line height as a multiple of the letter height"`

	Args struct {
		Text string `positional-arg-name:"text" description:"Text to write; \\n starts a new line"`
	} `positional-args:"yes" required:"yes"`
}

func (c *WriteCommand) Execute(args []string) error {
	return runJob(job.Request{Kind: job.KindText, Content: c.Args.Text, Size: c.Size, Feed: c.Feed}, func(p *job.Planner) {
		p.LineSpacing = c.LineSpacing
	})
}

type SVGCommand struct {
	Size float64 `long:"size" default:"80" description:"Length of the longer side in mm"`
	Feed float64 `long:"feed" default:"250" description:"Draw feed in mm/min"`

	Args struct {
		File string `positional-arg-name:"file" description:"SVG file to draw"`
	} `positional-args:"yes" required:"yes"`
}

func (c *SVGCommand) Execute(args []string) error {
	return runJob(job.Request{Kind: job.KindSVG, Content: c.Args.File, Size: c.Size, Feed: c.Feed}, nil)
}

func runJob(req job.Request, configure func(*job.Planner)) error {
	g := opts.Global
	err := g.checkReady()
	if err != nil {
		return fmt.Errorf("%w; run 'plotarm calibrate' first", err)
	}
	cal, err := calibration.Load(g.Calibration)
	if err != nil {
		return err
	}

	r := g.runner(cal)
	if configure != nil {
		configure(r.Planner)
	}
	return execute(func(ctx context.Context) job.Result { return r.Run(ctx, req) })
}

// execute runs fn with a context cancelled by SIGINT or SIGTERM and reports
// the outcome.
func execute(fn func(context.Context) job.Result) error {
	var ctrl job.Controller
	ctx := ctrl.Start(context.Background())
	defer ctrl.Finish()
	stop := cancelOnSignal(&ctrl)
	defer stop()

	res := fn(ctx)
	switch res.Outcome {
	case job.Success:
		if res.Stats.Draw > 0 {
			fmt.Printf("Done in %.1fs: %s. Pen is up, safe to remove paper.\n", res.Duration.Seconds(), res.Stats)
		} else {
			fmt.Printf("Done in %.1fs.\n", res.Duration.Seconds())
		}
		return nil
	case job.Cancelled:
		return errors.New("job cancelled")
	}
	return res.Err
}
