// Package spjs reaches a controller through serial-port-json-server, a
// websocket bridge to serial ports on another host.
package spjs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
)

// DefaultBuffer is the bridge buffer algorithm requested on open.
const DefaultBuffer = "default"

type DataFrame struct {
	Port string `json:"P"`
	Data string `json:"D"`
}
type CmdStatus struct {
	Cmd        string
	QueueCount int `json:"QCnt"`
	Type       []string
	ID         string `json:"Id"`
}

type ErrorMessage struct {
	Error string
}
type SerialPortList struct {
	SerialPorts []SerialPort
}
type SerialPort struct {
	Name            string
	Friendly        string
	IsOpen          bool
	Baud            int
	BufferAlgorithm string
}

// JSON is the payload of a "sendjson" command.
type JSON struct {
	Port string `json:"P"`
	Data []Data
}
type Data struct {
	Data string `json:"D"`
	ID   string `json:"Id"`
}

var lastID int64

func nextID() string {
	id := atomic.AddInt64(&lastID, 1)
	return "cmd_" + strconv.FormatInt(id, 36)
}

func parseMessage(data []byte) (val interface{}, err error) {
	var msg map[string]json.RawMessage
	err = json.Unmarshal(data, &msg)
	if err != nil {
		return nil, err
	}
	check := func(fieldName string, v interface{}) bool {
		if msg[fieldName] == nil {
			return false
		}
		val = v
		err = json.Unmarshal(data, val)
		return true
	}
	if check("Error", &ErrorMessage{}) {
		return
	}
	if check("SerialPorts", &SerialPortList{}) {
		return
	}
	if check("Cmd", &CmdStatus{}) {
		return
	}
	if check("D", &DataFrame{}) {
		return
	}

	return nil, errors.New("unknown message: " + string(data))
}

// Conn is a byte stream to one serial port on the bridge.
type Conn struct {
	ws   *websocket.Conn
	port string
	log  *log.Logger

	wMx     sync.Mutex
	partial string

	pr *io.PipeReader
	pw *io.PipeWriter

	once sync.Once
}

var _ io.ReadWriteCloser = &Conn{}

// Dial connects to the bridge at url and opens port on it.
func Dial(ctx context.Context, url, port string, baud int, logger *log.Logger) (*Conn, error) {
	if logger == nil {
		logger = log.Default()
	}
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", url, err)
	}
	pr, pw := io.Pipe()
	c := &Conn{ws: ws, port: port, log: logger, pr: pr, pw: pw}
	go c.readLoop()

	err = c.writeText(fmt.Sprintf("open %s %d %s", port, baud, DefaultBuffer))
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("open %s: %w", port, err)
	}
	return c, nil
}

func (c *Conn) readLoop() {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.pw.CloseWithError(err)
			return
		}
		if !bytes.HasPrefix(data, []byte("{")) {
			// ignore echo messages
			continue
		}
		val, err := parseMessage(data)
		if err != nil {
			c.log.Println("ERROR: parse:", err)
			continue
		}
		switch msg := val.(type) {
		case *DataFrame:
			if msg.Port != "" && msg.Port != c.port {
				continue
			}
			_, err = io.WriteString(c.pw, msg.Data)
			if err != nil {
				return
			}
		case *ErrorMessage:
			c.log.Println("ERROR: bridge:", msg.Error)
		}
	}
}

func (c *Conn) writeText(s string) error {
	c.wMx.Lock()
	defer c.wMx.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(s))
}

func (c *Conn) Read(p []byte) (int, error) { return c.pr.Read(p) }

// Write queues every complete line in p on the port.
func (c *Conn) Write(p []byte) (int, error) {
	c.wMx.Lock()
	defer c.wMx.Unlock()

	c.partial += string(p)
	j := JSON{Port: c.port}
	for {
		i := strings.IndexByte(c.partial, '\n')
		if i < 0 {
			break
		}
		j.Data = append(j.Data, Data{
			Data: strings.TrimSpace(c.partial[:i]) + "\n",
			ID:   nextID(),
		})
		c.partial = c.partial[i+1:]
	}
	if len(j.Data) == 0 {
		return len(p), nil
	}

	data, err := json.Marshal(j)
	if err != nil {
		return 0, err
	}
	err = c.ws.WriteMessage(websocket.TextMessage, append([]byte("sendjson "), data...))
	if err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close disconnects from the bridge. The port stays open on the bridge.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		err = c.ws.Close()
		c.pw.Close()
		c.pr.Close()
	})
	return err
}

// Opener dials the bridge once per session.
type Opener struct {
	URL  string
	Port string
	Baud int

	Logger *log.Logger
}

func (o Opener) String() string { return o.Port + " via " + o.URL }

func (o Opener) Open(ctx context.Context) (io.ReadWriteCloser, error) {
	baud := o.Baud
	if baud == 0 {
		baud = 115200
	}
	return Dial(ctx, o.URL, o.Port, baud, o.Logger)
}
