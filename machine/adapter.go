package machine

import (
	"context"
	"io"
	"time"

	"github.com/tarm/serial"
)

// An Opener produces the byte stream to the arm controller.
type Opener interface {
	Open(ctx context.Context) (io.ReadWriteCloser, error)
	String() string
}

// Serial defaults.
const (
	DefaultBaud        = 115200
	DefaultReadTimeout = 50 * time.Millisecond
)

// SerialOpener opens a local serial port.
type SerialOpener struct {
	Port        string
	Baud        int
	ReadTimeout time.Duration
}

// NewSerialOpener returns a SerialOpener for port with default settings.
func NewSerialOpener(port string) SerialOpener {
	return SerialOpener{Port: port, Baud: DefaultBaud, ReadTimeout: DefaultReadTimeout}
}

func (o SerialOpener) String() string { return o.Port }

// Open opens the port. The context is unused; opening a tty does not block.
func (o SerialOpener) Open(ctx context.Context) (io.ReadWriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	baud := o.Baud
	if baud == 0 {
		baud = DefaultBaud
	}
	return serial.OpenPort(&serial.Config{
		Name:        o.Port,
		Baud:        baud,
		ReadTimeout: o.ReadTimeout,
	})
}
