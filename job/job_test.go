package job

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/plotarm/calibration"
	"github.com/mastercactapus/plotarm/gcode"
	"github.com/mastercactapus/plotarm/machine"
	"github.com/mastercactapus/plotarm/machine/machinetest"
	"github.com/mastercactapus/plotarm/motion"
)

type syncBuffer struct {
	mx  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.buf.String()
}

func newRunner(o *machinetest.Opener, logs *syncBuffer) *Runner {
	logger := log.New(logs, "", 0)
	p := NewPlanner(calibration.Default())
	p.Logger = logger
	return &Runner{
		Opener:  o,
		Planner: p,
		Driver: machine.Config{
			AckTimeout:     200 * time.Millisecond,
			BarrierTimeout: 200 * time.Millisecond,
		},
		Emergency: EmergencyConfig{LiftZ: 5, Feed: 800},
		Logger:    logger,
	}
}

var square = Request{Kind: KindShape, Content: "square", Size: 30}

func TestRun_Square(t *testing.T) {
	var logs syncBuffer
	o := &machinetest.Opener{}
	r := newRunner(o, &logs)

	var mx sync.Mutex
	var events []Status
	r.Notify = func(s Status) {
		mx.Lock()
		events = append(events, s)
		mx.Unlock()
	}

	res := r.Run(context.Background(), square)
	require.NoError(t, res.Err)
	assert.Equal(t, Success, res.Outcome)
	assert.Equal(t, 4, res.Stats.Draw)

	require.Len(t, o.Ports(), 1)
	lines := o.Ports()[0].Lines()
	assert.Equal(t, []string{"G21", "G91", "G1 X-15 Y-15 F800", "M400", "G1 Z-6 F800", "M400", "G1 X30 Y0 F400", "M400"}, lines[:8])
	assert.Equal(t, []string{"G1 Z6 F800", "M400", "G1 X15 Y15 F800", "M400", "G90"}, lines[len(lines)-5:])
	assert.True(t, o.Ports()[0].Closed())

	st := r.Status()
	assert.False(t, st.Running)
	assert.Equal(t, "success", st.Outcome)
	assert.Equal(t, 8, st.Sent)
	assert.Equal(t, 8, st.Total)

	mx.Lock()
	assert.True(t, events[0].Running)
	mx.Unlock()

	out := logs.String()
	assert.Contains(t, out, `JOB START: action=draw content="square" size=30`)
	assert.Contains(t, out, "JOB END: status=success")
}

func TestRun_Cancel(t *testing.T) {
	var logs syncBuffer
	var ctrl Controller
	o := &machinetest.Opener{Reply: func(line string) string {
		if line == "G1 X30 Y0 F400" {
			ctrl.Cancel()
			return ""
		}
		return "ok\n"
	}}
	r := newRunner(o, &logs)

	ctx := ctrl.Start(context.Background())
	defer ctrl.Finish()
	res := r.Run(ctx, square)

	assert.Equal(t, Cancelled, res.Outcome)
	assert.True(t, errors.Is(res.Err, context.Canceled))
	assert.True(t, ctrl.Stopped())

	ports := o.Ports()
	require.Len(t, ports, 2)
	assert.True(t, ports[0].Closed())
	assert.NotContains(t, ports[0].Lines(), "G90")

	// the lift goes out on a fresh connection, without waiting for acks
	assert.Equal(t, "G21\nG91\nG1 Z5 F800\nM400\nG90\n", ports[1].Raw())
	assert.True(t, ports[1].Closed())

	assert.Contains(t, logs.String(), "job cancelled after 2/8 commands at X-15.000 Y-15.000")
	assert.Contains(t, logs.String(), "JOB END: status=cancelled")
}

func TestRun_Busy(t *testing.T) {
	var logs syncBuffer
	started := make(chan struct{}, 1)
	o := &machinetest.Opener{Reply: func(line string) string {
		if line == "G21" {
			started <- struct{}{}
			return ""
		}
		return "ok\n"
	}}
	r := newRunner(o, &logs)
	r.Driver.AckTimeout = 10 * time.Second

	var ctrl Controller
	ctx := ctrl.Start(context.Background())
	done := make(chan Result)
	go func() { done <- r.Run(ctx, square) }()
	<-started

	res := r.Run(context.Background(), square)
	assert.Equal(t, Failure, res.Outcome)
	assert.Equal(t, ErrBusy, res.Err)
	assert.True(t, r.Status().Running)

	ctrl.Cancel()
	first := <-done
	assert.Equal(t, Cancelled, first.Outcome)
}

func TestRun_NothingToDraw(t *testing.T) {
	var logs syncBuffer
	o := &machinetest.Opener{}
	r := newRunner(o, &logs)

	res := r.Run(context.Background(), Request{Kind: KindText, Content: "   "})
	assert.Equal(t, Failure, res.Outcome)
	assert.True(t, errors.Is(res.Err, ErrNothingToDraw))
	assert.Empty(t, o.Ports())
}

func TestRun_OpenError(t *testing.T) {
	var logs syncBuffer
	o := &machinetest.Opener{Err: errors.New("no such device")}
	r := newRunner(o, &logs)

	res := r.Run(context.Background(), square)
	assert.Equal(t, Failure, res.Outcome)
	assert.EqualError(t, res.Err, "open fake: no such device")
	assert.Contains(t, logs.String(), "JOB END: status=failed")
}

func TestRun_CancelWhileOpening(t *testing.T) {
	var logs syncBuffer
	o := &machinetest.Opener{Hang: true}
	r := newRunner(o, &logs)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	res := r.Run(ctx, square)
	assert.Equal(t, Cancelled, res.Outcome)
	assert.Equal(t, context.Canceled, res.Err)
	assert.Empty(t, o.Ports())
	assert.Contains(t, logs.String(), "WARN: job cancelled while opening fake")
	assert.Contains(t, logs.String(), "JOB END: status=cancelled")

	res = r.Replay(ctx, "square.gcode", strings.NewReader("G21\nG91\nG1 X1 Y1 F400\nG90\n"))
	assert.Equal(t, Cancelled, res.Outcome)
}

func TestRun_AckTimeoutIsNotFatal(t *testing.T) {
	var logs syncBuffer
	o := &machinetest.Opener{Reply: func(line string) string {
		if line == "M400" {
			return ""
		}
		return "ok\n"
	}}
	r := newRunner(o, &logs)
	r.Driver.BarrierTimeout = 10 * time.Millisecond

	res := r.Run(context.Background(), Request{Kind: KindShape, Content: "triangle", Size: 10})
	assert.Equal(t, Success, res.Outcome)
	assert.Contains(t, logs.String(), "WARN: timeout waiting for ok on: M400")
}

func TestController(t *testing.T) {
	var c Controller
	c.Cancel()
	assert.True(t, c.Stopped())

	ctx := c.Start(context.Background())
	assert.False(t, c.Stopped())
	assert.NoError(t, ctx.Err())

	c.Cancel()
	assert.True(t, c.Stopped())
	assert.Equal(t, context.Canceled, ctx.Err())

	next := c.Start(context.Background())
	assert.NoError(t, next.Err())
	c.Finish()
	assert.Error(t, next.Err())
}

func TestEmergencyStop_OpenError(t *testing.T) {
	var logs syncBuffer
	o := &machinetest.Opener{Err: errors.New("busy")}
	EmergencyStop(o, EmergencyConfig{}, log.New(&logs, "", 0))
	assert.Contains(t, logs.String(), "ERROR: could not lift pen: open: busy")
}

func TestPlanner_Document(t *testing.T) {
	p := NewPlanner(calibration.Calibration{ZUp: 4})
	p.Logger = log.New(ioutil.Discard, "", 0)
	assert.Equal(t, 4.0, p.Pen.ZUp)

	dir := t.TempDir()
	name := filepath.Join(dir, "rect.svg")
	require.NoError(t, os.WriteFile(name, []byte(`<svg><rect x="0" y="0" width="10" height="20"/></svg>`), 0644))

	doc, feed, err := p.Document(Request{Kind: KindSVG, Content: name})
	require.NoError(t, err)
	assert.Equal(t, DefaultSVGFeed, feed)
	assert.InDelta(t, 40, doc.Bounds().Width(), 1e-9)
	assert.InDelta(t, 80, doc.Bounds().Height(), 1e-9)

	empty := filepath.Join(dir, "empty.svg")
	require.NoError(t, os.WriteFile(empty, []byte(`<svg><text>hi</text></svg>`), 0644))
	_, _, err = p.Document(Request{Kind: KindSVG, Content: empty})
	assert.True(t, errors.Is(err, ErrNothingToDraw))

	_, feed, err = p.Document(Request{Kind: KindText, Content: "HI", Feed: 300})
	require.NoError(t, err)
	assert.Equal(t, 300.0, feed)

	doc, _, err = p.Document(Request{Kind: KindShape, Content: "demo"})
	require.NoError(t, err)
	moves, _ := doc.Counts()
	assert.Equal(t, 3, moves)

	_, _, err = p.Document(Request{Kind: KindShape, Content: "hexagon"})
	assert.Error(t, err)
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"draw", "write", "svg"} {
		k, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, name, k.String())
	}
	_, err := ParseKind("paint")
	assert.Error(t, err)
}

func TestLiftSequence(t *testing.T) {
	lift, restore := DefaultEmergencyConfig().liftSequence()
	assert.Equal(t, "G21\nG91\nG1 Z5 F800\nM400\n", lift)
	assert.Equal(t, "G90\n", restore)
	assert.True(t, strings.HasSuffix(lift, "\n"))
}

func squareProgram(t *testing.T) string {
	cmds, err := NewPlanner(calibration.Default()).Plan(square)
	require.NoError(t, err)
	var sb strings.Builder
	_, err = io.Copy(&sb, gcode.NewBuffer(&gcode.BlocksReader{Blocks: motion.Program(cmds)}))
	require.NoError(t, err)
	return sb.String()
}

func TestReplay(t *testing.T) {
	var logs syncBuffer
	o := &machinetest.Opener{}
	r := newRunner(o, &logs)

	prog := squareProgram(t)
	res := r.Replay(context.Background(), "square.gcode", strings.NewReader(prog))
	require.NoError(t, res.Err)
	assert.Equal(t, Success, res.Outcome)

	require.Len(t, o.Ports(), 1)
	assert.Equal(t, prog, o.Ports()[0].Raw())
	assert.Equal(t, 19, r.Status().Sent)
	assert.Contains(t, logs.String(), `JOB START: action=replay file="square.gcode"`)
}

func TestReplay_Invalid(t *testing.T) {
	var logs syncBuffer
	o := &machinetest.Opener{}
	r := newRunner(o, &logs)

	res := r.Replay(context.Background(), "arc.gcode", strings.NewReader("G21\nG2 X1 Y1 I1\n"))
	assert.Equal(t, Failure, res.Outcome)
	assert.EqualError(t, res.Err, "arc.gcode: line 2: unsupported code: G2")
	assert.Empty(t, o.Ports())
}

func TestReplay_Cancel(t *testing.T) {
	var logs syncBuffer
	var ctrl Controller
	o := &machinetest.Opener{Reply: func(line string) string {
		if line == "G1 X30 Y0 F400" {
			ctrl.Cancel()
			return ""
		}
		return "ok\n"
	}}
	r := newRunner(o, &logs)

	ctx := ctrl.Start(context.Background())
	defer ctrl.Finish()
	res := r.Replay(ctx, "square.gcode", strings.NewReader(squareProgram(t)))
	assert.Equal(t, Cancelled, res.Outcome)

	require.Len(t, o.Ports(), 2)
	assert.Equal(t, "G21\nG91\nG1 Z5 F800\nM400\nG90\n", o.Ports()[1].Raw())
	assert.Contains(t, logs.String(), "job cancelled after 6/19 commands at X-15.000 Y-15.000")
}
