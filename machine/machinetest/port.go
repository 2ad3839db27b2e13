// Package machinetest provides an in-memory arm controller for tests.
package machinetest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// Port records every line written to it and answers with Reply.
type Port struct {
	// Reply returns the response to a complete line. A nil Reply answers
	// "ok\n" to everything; an empty response sends nothing.
	Reply func(line string) string

	mx      sync.Mutex
	raw     bytes.Buffer
	partial string
	lines   []string
	closed  bool

	pr *io.PipeReader
	pw *io.PipeWriter
}

// NewPort returns an open Port.
func NewPort() *Port {
	pr, pw := io.Pipe()
	return &Port{pr: pr, pw: pw}
}

func (p *Port) Read(b []byte) (int, error) { return p.pr.Read(b) }

func (p *Port) Write(b []byte) (int, error) {
	p.mx.Lock()
	if p.closed {
		p.mx.Unlock()
		return 0, io.ErrClosedPipe
	}
	p.raw.Write(b)
	p.partial += string(b)
	var complete []string
	for {
		i := strings.IndexByte(p.partial, '\n')
		if i < 0 {
			break
		}
		complete = append(complete, strings.TrimSpace(p.partial[:i]))
		p.partial = p.partial[i+1:]
	}
	p.lines = append(p.lines, complete...)
	reply := p.Reply
	p.mx.Unlock()

	for _, line := range complete {
		resp := "ok\n"
		if reply != nil {
			resp = reply(line)
		}
		if resp == "" {
			continue
		}
		go p.pw.Write([]byte(resp))
	}
	return len(b), nil
}

// Send pushes unsolicited data to the reader.
func (p *Port) Send(data string) {
	go p.pw.Write([]byte(data))
}

func (p *Port) Close() error {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.closed {
		return errors.New("already closed")
	}
	p.closed = true
	p.pr.Close()
	p.pw.Close()
	return nil
}

// Lines returns every complete line written so far.
func (p *Port) Lines() []string {
	p.mx.Lock()
	defer p.mx.Unlock()
	return append([]string(nil), p.lines...)
}

// Raw returns everything written, byte for byte.
func (p *Port) Raw() string {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.raw.String()
}

// Closed reports whether Close was called.
func (p *Port) Closed() bool {
	p.mx.Lock()
	defer p.mx.Unlock()
	return p.closed
}

// Opener hands out a new Port on every Open.
type Opener struct {
	// Err, if set, is returned from Open.
	Err error

	// Hang makes Open block until ctx is done.
	Hang bool

	// Reply is copied onto every new Port.
	Reply func(line string) string

	mx    sync.Mutex
	ports []*Port
}

func (o *Opener) String() string { return "fake" }

func (o *Opener) Open(ctx context.Context) (io.ReadWriteCloser, error) {
	if o.Hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if o.Err != nil {
		return nil, o.Err
	}
	p := NewPort()
	p.Reply = o.Reply
	o.mx.Lock()
	o.ports = append(o.ports, p)
	o.mx.Unlock()
	return p, nil
}

// Ports returns every Port opened so far, in order.
func (o *Opener) Ports() []*Port {
	o.mx.Lock()
	defer o.mx.Unlock()
	return append([]*Port(nil), o.ports...)
}
