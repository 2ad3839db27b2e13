// Package job runs drawing jobs on the arm and handles cancellation.
package job

import (
	"context"
	"sync"
)

// Controller holds the stop signal for the running job. Cancel may be called
// from any goroutine, such as a signal handler or an API request.
type Controller struct {
	mx      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// Start derives the context for a new job and clears any previous stop.
func (c *Controller) Start(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	c.mx.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.stopped = false
	c.mx.Unlock()
	return ctx
}

// Cancel stops the current job, if any. The stop is remembered until the
// next Start.
func (c *Controller) Cancel() {
	c.mx.Lock()
	defer c.mx.Unlock()
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
}

// Stopped reports whether Cancel was called since the last Start.
func (c *Controller) Stopped() bool {
	c.mx.Lock()
	defer c.mx.Unlock()
	return c.stopped
}

// Finish releases the job context.
func (c *Controller) Finish() {
	c.mx.Lock()
	defer c.mx.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
