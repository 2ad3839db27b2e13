package job

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/mastercactapus/plotarm/gcode"
	"github.com/mastercactapus/plotarm/machine"
	"github.com/mastercactapus/plotarm/motion"
)

// ErrBusy is returned when a job is already running.
var ErrBusy = errors.New("a job is already running")

// Outcome is how a job ended.
type Outcome int

const (
	Success Outcome = iota
	Failure
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// MarshalText renders the outcome name in JSON.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Result summarizes a finished job.
type Result struct {
	Outcome  Outcome
	Err      error
	Stats    motion.Summary
	Duration time.Duration
}

// Status is a snapshot of the runner, published as jobs progress.
type Status struct {
	Running  bool    `json:"running"`
	Request  string  `json:"request,omitempty"`
	Sent     int     `json:"sent"`
	Total    int     `json:"total"`
	Outcome  string  `json:"outcome,omitempty"`
	Error    string  `json:"error,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Runner executes one job at a time.
type Runner struct {
	Opener    machine.Opener
	Planner   *Planner
	Driver    machine.Config
	Emergency EmergencyConfig

	// Notify, if set, is called with every status change.
	Notify func(Status)

	// Logger receives job progress. If nil, log.Default() is used.
	Logger *log.Logger

	run sync.Mutex

	mx     sync.Mutex
	status Status
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// Status returns the current status.
func (r *Runner) Status() Status {
	r.mx.Lock()
	defer r.mx.Unlock()
	return r.status
}

func (r *Runner) update(fn func(*Status)) {
	r.mx.Lock()
	fn(&r.status)
	s := r.status
	r.mx.Unlock()
	if r.Notify != nil {
		r.Notify(s)
	}
}

// Run plans req and streams it to the arm. Cancelling ctx stops the job
// between commands and lifts the pen.
func (r *Runner) Run(ctx context.Context, req Request) Result {
	return r.track(req.String(), func() Result { return r.runLocked(ctx, req) })
}

// Replay streams a G-code program, such as one written by export. The whole
// program is parsed and checked before the arm is touched.
func (r *Runner) Replay(ctx context.Context, name string, src io.Reader) Result {
	return r.track(fmt.Sprintf("action=replay file=%q", name), func() Result {
		blocks, err := gcode.ReadAll(src)
		if err != nil {
			return Result{Outcome: Failure, Err: fmt.Errorf("%s: %w", name, err)}
		}
		return r.ExecuteProgram(ctx, blocks)
	})
}

// track runs fn as the current job, logging and publishing its progress.
func (r *Runner) track(desc string, fn func() Result) Result {
	if !r.run.TryLock() {
		return Result{Outcome: Failure, Err: ErrBusy}
	}
	defer r.run.Unlock()

	start := time.Now()
	r.logger().Println("JOB START:", desc)
	r.update(func(s *Status) { *s = Status{Running: true, Request: desc} })

	res := fn()
	res.Duration = time.Since(start)

	if res.Err != nil {
		r.logger().Printf("JOB END: status=%s duration=%.1fs error=%v", res.Outcome, res.Duration.Seconds(), res.Err)
	} else {
		r.logger().Printf("JOB END: status=%s duration=%.1fs", res.Outcome, res.Duration.Seconds())
	}
	r.update(func(s *Status) {
		s.Running = false
		s.Outcome = res.Outcome.String()
		s.Duration = res.Duration.Seconds()
		if res.Err != nil {
			s.Error = res.Err.Error()
		}
	})
	return res
}

func (r *Runner) runLocked(ctx context.Context, req Request) Result {
	planner := r.Planner
	if planner == nil {
		return Result{Outcome: Failure, Err: errors.New("no planner configured")}
	}
	cmds, err := planner.Plan(req)
	if err != nil {
		return Result{Outcome: Failure, Err: err}
	}
	return r.Execute(ctx, cmds)
}

func (r *Runner) open(ctx context.Context) (*machine.Driver, error) {
	cfg := r.Driver
	if cfg.Logger == nil {
		cfg.Logger = r.Logger
	}
	return machine.Open(ctx, r.Opener, cfg)
}

// Execute streams already compiled commands.
func (r *Runner) Execute(ctx context.Context, cmds []motion.Command) Result {
	stats := motion.Stats(cmds)
	if len(cmds) == 0 {
		return Result{Outcome: Failure, Err: ErrNothingToDraw, Stats: stats}
	}
	if ctx.Err() != nil {
		return Result{Outcome: Cancelled, Err: ctx.Err(), Stats: stats}
	}
	r.logger().Println("Plan:", stats)
	r.update(func(s *Status) { s.Total = len(cmds) })

	d, err := r.open(ctx)
	if err != nil {
		res := r.openFailed(ctx, err)
		res.Stats = stats
		return res
	}

	// pos follows what the arm has acknowledged
	pos := gcode.NewVM()
	err = d.Begin(ctx)
	if err == nil {
		for _, b := range motion.Preamble() {
			pos.Run(b)
		}
	}
	sent := 0
	for _, c := range cmds {
		if err != nil || ctx.Err() != nil {
			break
		}
		err = d.Exec(ctx, c)
		if err != nil {
			break
		}
		pos.Run(c.Block())
		sent++
		n := sent
		r.update(func(s *Status) { s.Sent = n })
	}

	if err == nil && ctx.Err() == nil {
		err = d.End(ctx)
	}
	d.Close()

	res := r.finish(ctx, err, sent, len(cmds), pos)
	res.Stats = stats
	return res
}

// ExecuteProgram streams blocks as they are, without adding a preamble.
func (r *Runner) ExecuteProgram(ctx context.Context, blocks []gcode.Block) Result {
	if len(blocks) == 0 {
		return Result{Outcome: Failure, Err: ErrNothingToDraw}
	}
	if ctx.Err() != nil {
		return Result{Outcome: Cancelled, Err: ctx.Err()}
	}
	r.logger().Printf("Program: %d blocks", len(blocks))
	r.update(func(s *Status) { s.Total = len(blocks) })

	d, err := r.open(ctx)
	if err != nil {
		return r.openFailed(ctx, err)
	}

	pos := gcode.NewVM()
	sent := 0
	err = d.Stream(ctx, &gcode.BlocksReader{Blocks: blocks}, func(b gcode.Block) {
		pos.Run(b)
		sent++
		n := sent
		r.update(func(s *Status) { s.Sent = n })
	})
	d.Close()

	return r.finish(ctx, err, sent, len(blocks), pos)
}

// openFailed reports a failed open. Nothing reached the arm, so a
// cancellation needs no pen lift.
func (r *Runner) openFailed(ctx context.Context, err error) Result {
	if ctx.Err() != nil {
		r.logger().Println("WARN: job cancelled while opening", r.Opener)
		return Result{Outcome: Cancelled, Err: ctx.Err()}
	}
	return Result{Outcome: Failure, Err: err}
}

// finish turns the end of a stream into a Result, lifting the pen if the
// job was cancelled.
func (r *Runner) finish(ctx context.Context, err error, sent, total int, pos *gcode.VM) Result {
	if ctx.Err() != nil {
		p := pos.Position()
		r.logger().Printf("WARN: job cancelled after %d/%d commands at X%.3f Y%.3f, lifting pen", sent, total, p.X, p.Y)
		EmergencyStop(r.Opener, r.Emergency, r.logger())
		return Result{Outcome: Cancelled, Err: ctx.Err()}
	}
	if err != nil {
		return Result{Outcome: Failure, Err: fmt.Errorf("stream: %w", err)}
	}
	return Result{Outcome: Success}
}
