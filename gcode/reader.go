package gcode

import "io"

// A Reader yields blocks one at a time. Read returns io.EOF once the
// program is exhausted.
type Reader interface {
	Read() (Block, error)
}

// BlocksReader reads from a slice of already parsed blocks, such as a
// compiled job or a validated program file.
type BlocksReader struct {
	Blocks []Block
	n      int
}

func (r *BlocksReader) Read() (Block, error) {
	if r.n >= len(r.Blocks) {
		return nil, io.EOF
	}
	b := r.Blocks[r.n]
	r.n++
	return b, nil
}
