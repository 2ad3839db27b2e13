package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/mastercactapus/plotarm/calibration"
	"github.com/mastercactapus/plotarm/job"
	"github.com/mastercactapus/plotarm/machine"
	"github.com/mastercactapus/plotarm/spjs"
)

// GlobalOptions apply to every command.
type GlobalOptions struct {
	Port        string        `long:"port" env:"PLOTARM_PORT" default:"/dev/ttyUSB0" description:"Serial port of the arm (or port name on the SPJS bridge)"`
	Baud        int           `long:"baud" default:"115200" description:"Serial baud rate"`
	SPJS        string        `long:"spjs" env:"PLOTARM_SPJS" description:"Websocket URL of a serial-port-json-server to connect through"`
	Calibration string        `long:"calibration" env:"PLOTARM_CALIBRATION" default:"calibration.json" description:"Calibration file"`
	ReadyFlag   string        `long:"ready-flag" env:"PLOTARM_READY_FLAG" description:"Session ready marker (default: plotarm_ready.flag in the temp dir)"`
	Force       bool          `long:"force" description:"Run jobs even if the arm was not calibrated this session"`
	AckTimeout  time.Duration `long:"ack-timeout" default:"10s" description:"How long to wait for ok before moving on"`
}

type Options struct {
	Global GlobalOptions `group:"Global Options"`

	Draw      DrawCommand      `command:"draw" description:"Draw a shape: square, triangle, circle or demo"`
	Write     WriteCommand     `command:"write" description:"Write text with the stroke font"`
	SVG       SVGCommand       `command:"svg" description:"Draw the outlines of an SVG file"`
	Export    ExportCommand    `command:"export" description:"Write the G-code for a job without moving the arm"`
	Run       RunCommand       `command:"run" description:"Stream a G-code file to the arm"`
	Calibrate CalibrateCommand `command:"calibrate" description:"Set the pen travel height and mark the session ready"`
	Check     CheckCommand     `command:"check" description:"Report whether the arm is ready to draw"`
	Serve     ServeCommand     `command:"serve" description:"Run the HTTP job API"`
	Wave      WaveCommand      `command:"wave" description:"Jog the arm up, down, right and back as a motion check"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	log.SetFlags(log.Lshortfile)
	parser.LongDescription = "plotarm - pen plotting with a desktop robot arm"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

func (g GlobalOptions) readyPath() string {
	if g.ReadyFlag != "" {
		return g.ReadyFlag
	}
	return calibration.DefaultReadyPath()
}

func (g GlobalOptions) opener() machine.Opener {
	if g.SPJS != "" {
		return spjs.Opener{URL: g.SPJS, Port: g.Port, Baud: g.Baud, Logger: log.Default()}
	}
	o := machine.NewSerialOpener(g.Port)
	if g.Baud > 0 {
		o.Baud = g.Baud
	}
	return o
}

func (g GlobalOptions) driverConfig() machine.Config {
	cfg := machine.DefaultConfig()
	if g.AckTimeout > 0 {
		cfg.AckTimeout = g.AckTimeout
	}
	return cfg
}

func (g GlobalOptions) checkReady() error {
	if g.Force {
		return nil
	}
	return calibration.CheckReady(g.readyPath())
}

func (g GlobalOptions) runner(cal calibration.Calibration) *job.Runner {
	return &job.Runner{
		Opener:    g.opener(),
		Planner:   job.NewPlanner(cal),
		Driver:    g.driverConfig(),
		Emergency: job.DefaultEmergencyConfig(),
	}
}

// cancelOnSignal cancels ctrl on SIGINT or SIGTERM until the returned stop
// function is called.
func cancelOnSignal(ctrl *job.Controller) (stop func()) {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		for {
			select {
			case sig := <-ch:
				log.Printf("WARN: %s received, stopping", sig)
				ctrl.Cancel()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(ch)
		close(done)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, func()) {
	var ctrl job.Controller
	ctx := ctrl.Start(context.Background())
	stop := cancelOnSignal(&ctrl)
	return ctx, func() {
		stop()
		ctrl.Finish()
	}
}
