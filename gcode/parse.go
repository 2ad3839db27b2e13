package gcode

import (
	"fmt"
	"io"
	"strings"
)

// ReadAll parses every block from r and checks it against a VM, so a
// program the arm would reject fails before anything is sent.
func ReadAll(r io.Reader) ([]Block, error) {
	p := NewParser(r)
	vm := NewVM()
	var blocks []Block
	for {
		b, err := p.Read()
		if err == io.EOF {
			return blocks, nil
		}
		if err != nil {
			return nil, err
		}
		err = vm.Run(b)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", p.Line(), err)
		}
		blocks = append(blocks, b)
	}
}

func Parse(data string) ([]Block, error) {
	r := NewParser(strings.NewReader(data))
	var b []Block
	for {
		bl, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		b = append(b, bl)
	}
	return b, nil
}

func MustParse(data string) []Block {
	b, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return b
}
