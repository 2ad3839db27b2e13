package gcode

import (
	"fmt"
	"strings"
)

// Block is one line of G-code.
type Block []Word

// String renders the block with words separated by spaces, e.g.
// "G1 X10 Y-2.5 F400".
func (b Block) String() string {
	parts := make([]string, len(b))
	for i, w := range b {
		parts[i] = w.String()
	}
	return strings.Join(parts, " ")
}

// Arg returns the argument of the first w word in the block.
func (b Block) Arg(w byte) (bool, float64) {
	for _, g := range b {
		if g.W == w {
			return true, g.Arg
		}
	}
	return false, 0
}

// Args returns the words that belong to no modal group, such as axes.
func (b Block) Args() Block {
	res := make(Block, 0, len(b))
	for _, g := range b {
		if g.ModalGroup() == ModalGroupNone {
			res = append(res, g)
		}
	}
	return res
}

// Validate checks that no letter other than G repeats, and that no two words
// share a modal group.
func (b Block) Validate() error {
	var seenWord [256]bool
	var seenGroup [modalGroupCount]bool

	for _, g := range b {
		if !g.IsValid() {
			return fmt.Errorf("invalid word %q", g.W)
		}
		if g.W != 'G' && seenWord[g.W] {
			return fmt.Errorf("%c repeated in block", g.W)
		}
		seenWord[g.W] = true

		m := g.ModalGroup()
		if m == ModalGroupNone {
			continue
		}
		if seenGroup[m] {
			return fmt.Errorf("%s conflicts with another word in the block", g)
		}
		seenGroup[m] = true
	}
	return nil
}
