// Package machine drives the arm controller over an ack-synchronized
// G-code stream.
package machine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/mastercactapus/plotarm/gcode"
	"github.com/mastercactapus/plotarm/motion"
)

// ErrClosed is returned when sending on a closed Driver.
var ErrClosed = errors.New("driver closed")

var rxOK = regexp.MustCompile(`(?i)\bok\b`)

const (
	chunkBuffer = 64
	readSize    = 1024

	// idlePoll is how long the reader rests after a read that returned
	// nothing, as serial ports do once their read timeout expires.
	idlePoll = 5 * time.Millisecond
)

// State is the lifecycle of a Driver.
type State int

const (
	StateIdle State = iota
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Config controls acknowledgement timing.
type Config struct {
	// AckTimeout bounds the wait for "ok" after an ordinary command.
	AckTimeout time.Duration

	// BarrierTimeout bounds the wait after M400.
	BarrierTimeout time.Duration

	// Logger receives warnings. If nil, log.Default() is used.
	Logger *log.Logger
}

// DefaultConfig returns the standard timeouts.
func DefaultConfig() Config {
	return Config{
		AckTimeout:     10 * time.Second,
		BarrierTimeout: 30 * time.Second,
	}
}

// Driver is a single session with the arm. It owns the transport and the
// receive buffer and is not safe for concurrent senders.
type Driver struct {
	rw   io.ReadWriteCloser
	name string
	cfg  Config
	log  *log.Logger

	chunks  chan []byte
	closeCh chan struct{}
	once    sync.Once

	// buf is only touched by the sending goroutine.
	buf []byte

	mx    sync.Mutex
	state State
	pen   motion.PenState
}

// Open connects using opener and starts the reader.
func Open(ctx context.Context, opener Opener, cfg Config) (*Driver, error) {
	rw, err := opener.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opener, err)
	}
	return NewDriver(rw, opener.String(), cfg), nil
}

// NewDriver wraps an already open transport.
func NewDriver(rw io.ReadWriteCloser, name string, cfg Config) *Driver {
	def := DefaultConfig()
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = def.AckTimeout
	}
	if cfg.BarrierTimeout <= 0 {
		cfg.BarrierTimeout = def.BarrierTimeout
	}
	d := &Driver{
		rw:      rw,
		name:    name,
		cfg:     cfg,
		log:     cfg.Logger,
		chunks:  make(chan []byte, chunkBuffer),
		closeCh: make(chan struct{}),
	}
	if d.log == nil {
		d.log = log.Default()
	}
	go d.readLoop()
	return d
}

func (d *Driver) closed() bool {
	select {
	case <-d.closeCh:
		return true
	default:
		return false
	}
}

func (d *Driver) readLoop() {
	defer close(d.chunks)
	buf := make([]byte, readSize)
	for {
		n, err := d.rw.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case d.chunks <- chunk:
			case <-d.closeCh:
				return
			}
		}
		if d.closed() {
			return
		}
		if err == io.EOF || (err == nil && n == 0) {
			time.Sleep(idlePoll)
			continue
		}
		if err != nil {
			d.log.Println("ERROR: read from port:", err)
			return
		}
	}
}

// State returns the session state.
func (d *Driver) State() State {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.state
}

// Pen returns the pen position after the last executed transition.
func (d *Driver) Pen() motion.PenState {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.pen
}

func (d *Driver) setState(s State) {
	d.mx.Lock()
	if d.state != StateClosed {
		d.state = s
	}
	d.mx.Unlock()
}

// Send writes line. If wait is set it blocks until the controller answers
// "ok", the timeout passes, or ctx is done. A timeout is logged and is not an
// error.
func (d *Driver) Send(ctx context.Context, line string, wait bool, timeout time.Duration) error {
	if d.closed() {
		return ErrClosed
	}
	line = strings.TrimSpace(line)
	d.setState(StateStreaming)

	_, err := io.WriteString(d.rw, line+"\n")
	if err != nil {
		return fmt.Errorf("write %q: %w", line, err)
	}
	if !wait {
		return nil
	}
	return d.waitOK(ctx, line, timeout)
}

func (d *Driver) waitOK(ctx context.Context, line string, timeout time.Duration) error {
	t := time.NewTimer(timeout)
	defer t.Stop()
	for {
		if rxOK.Match(d.buf) {
			d.buf = d.buf[:0]
			return nil
		}
		select {
		case chunk, ok := <-d.chunks:
			if !ok {
				return fmt.Errorf("wait for ok on %q: %w", line, ErrClosed)
			}
			d.buf = append(d.buf, chunk...)
		case <-t.C:
			d.log.Println("WARN: timeout waiting for ok on:", line)
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// WaitForMotionComplete sends a motion barrier and waits for it.
func (d *Driver) WaitForMotionComplete(ctx context.Context) error {
	return d.Send(ctx, motion.Barrier().String(), true, d.cfg.BarrierTimeout)
}

// Exec sends a compiled command, followed by a barrier if requested.
func (d *Driver) Exec(ctx context.Context, cmd motion.Command) error {
	err := d.Send(ctx, cmd.Block().String(), true, d.cfg.AckTimeout)
	if err != nil {
		return err
	}
	if cmd.Sync {
		err = d.WaitForMotionComplete(ctx)
		if err != nil {
			return err
		}
	}
	if cmd.Op == motion.OpPenUp || cmd.Op == motion.OpPenDown {
		d.mx.Lock()
		d.pen = cmd.Pen
		d.mx.Unlock()
	}
	return nil
}

// Stream sends every block from r in order, waiting for each to be
// acknowledged. M400 waits use the barrier timeout. sent is called after
// each acknowledged block and may be nil.
func (d *Driver) Stream(ctx context.Context, r gcode.Reader, sent func(gcode.Block)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		b, err := r.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		timeout := d.cfg.AckTimeout
		if ok, arg := b.Arg('M'); ok && arg == 400 {
			timeout = d.cfg.BarrierTimeout
		}
		err = d.Send(ctx, b.String(), true, timeout)
		if err != nil {
			return err
		}
		if sent != nil {
			sent(b)
		}
	}
}

// Begin selects millimeters and relative positioning.
func (d *Driver) Begin(ctx context.Context) error {
	for _, b := range motion.Preamble() {
		err := d.Send(ctx, b.String(), true, d.cfg.AckTimeout)
		if err != nil {
			return err
		}
	}
	return nil
}

// End restores absolute positioning.
func (d *Driver) End(ctx context.Context) error {
	for _, b := range motion.Postamble() {
		err := d.Send(ctx, b.String(), true, d.cfg.AckTimeout)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close releases the transport. It is safe to call more than once and never
// fails.
func (d *Driver) Close() error {
	d.once.Do(func() {
		d.mx.Lock()
		d.state = StateClosed
		d.mx.Unlock()
		close(d.closeCh)
		err := d.rw.Close()
		if err != nil {
			d.log.Printf("WARN: close %s: %v", d.name, err)
		}
	})
	return nil
}
