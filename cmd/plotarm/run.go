package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mastercactapus/plotarm/calibration"
	"github.com/mastercactapus/plotarm/job"
)

type RunCommand struct {
	Args struct {
		File string `positional-arg-name:"file" description:"G-code file, such as one written by export"`
	} `positional-args:"yes" required:"yes"`
}

func (c *RunCommand) Execute(args []string) error {
	g := opts.Global
	err := g.checkReady()
	if err != nil {
		return fmt.Errorf("%w; run 'plotarm calibrate' first", err)
	}

	f, err := os.Open(c.Args.File)
	if err != nil {
		return err
	}
	defer f.Close()

	r := g.runner(calibration.Default())
	return execute(func(ctx context.Context) job.Result { return r.Replay(ctx, c.Args.File, f) })
}
