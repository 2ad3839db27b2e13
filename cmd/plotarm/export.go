package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/mastercactapus/plotarm/calibration"
	"github.com/mastercactapus/plotarm/gcode"
	"github.com/mastercactapus/plotarm/job"
	"github.com/mastercactapus/plotarm/motion"
)

type ExportCommand struct {
	Output string  `short:"o" long:"output" description:"File to write (default: stdout)"`
	Size   float64 `long:"size" description:"Shape size, letter height or SVG target in mm"`
	Feed   float64 `long:"feed" description:"Draw feed in mm/min"`

	Args struct {
		Kind    string `positional-arg-name:"kind" description:"draw, write or svg"`
		Content string `positional-arg-name:"content" description:"Shape name, text or SVG file"`
	} `positional-args:"yes" required:"yes"`
}

func (c *ExportCommand) Execute(args []string) error {
	kind, err := job.ParseKind(c.Args.Kind)
	if err != nil {
		return err
	}
	cal, err := calibration.Load(opts.Global.Calibration)
	if err != nil {
		return err
	}
	cmds, err := job.NewPlanner(cal).Plan(job.Request{Kind: kind, Content: c.Args.Content, Size: c.Size, Feed: c.Feed})
	if err != nil {
		return err
	}

	if c.Output == "" {
		err = writeProgram(os.Stdout, cmds)
	} else {
		var f *os.File
		f, err = os.Create(c.Output)
		if err != nil {
			return err
		}
		err = saveProgram(f, cmds)
	}
	if err != nil {
		return fmt.Errorf("write program: %w", err)
	}
	log.Println("Exported:", motion.Stats(cmds))
	return nil
}

func writeProgram(w io.Writer, cmds []motion.Command) error {
	_, err := io.Copy(w, gcode.NewBuffer(&gcode.BlocksReader{Blocks: motion.Program(cmds)}))
	return err
}

// saveProgram writes cmds to wc and closes it. A failed close is reported,
// since buffered data may not have reached the file.
func saveProgram(wc io.WriteCloser, cmds []motion.Command) error {
	err := writeProgram(wc, cmds)
	cerr := wc.Close()
	if err != nil {
		return err
	}
	return cerr
}
