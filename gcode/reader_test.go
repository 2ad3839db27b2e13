package gcode

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocksReader(t *testing.T) {
	r := &BlocksReader{Blocks: MustParse("G91\nG1 Z-6 F800\nM400\n")}

	var got []string
	for {
		b, err := r.Read()
		if err == io.EOF {
			assert.Nil(t, b)
			break
		}
		require.NoError(t, err)
		got = append(got, b.String())
	}
	assert.Equal(t, []string{"G91", "G1 Z-6 F800", "M400"}, got)

	// stays exhausted
	_, err := r.Read()
	assert.Equal(t, io.EOF, err)
}

func TestBlocksReader_Empty(t *testing.T) {
	_, err := (&BlocksReader{}).Read()
	assert.Equal(t, io.EOF, err)
}
