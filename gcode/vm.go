package gcode

import (
	"errors"

	"github.com/mastercactapus/plotarm/coord"
)

// VM follows the modal state and position of the arm through a program.
type VM struct {
	pos   coord.Point
	modal [modalGroupCount]float64
	feed  float64
}

// NewVM returns a VM in the arm's power-on state: millimeters, absolute
// positioning, at the origin.
func NewVM() *VM {
	vm := &VM{}
	vm.modal[ModalGroupMotion] = 0
	vm.modal[ModalGroupPlaneSelection] = 17
	vm.modal[ModalGroupDistanceMode] = 90
	vm.modal[ModalGroupFeedRateMode] = 94
	vm.modal[ModalGroupUnits] = 21
	vm.modal[ModalGroupCoordinateSystem] = 54
	vm.modal[ModalGroupSpindle] = 5
	return vm
}

// Feed returns the last programmed feed rate.
func (vm VM) Feed() float64 { return vm.feed }

func (vm VM) Inches() bool         { return vm.modal[ModalGroupUnits] == 20 }
func (vm VM) RelativeMotion() bool { return vm.modal[ModalGroupDistanceMode] == 91 }

// Position is where the program has moved the pen, in millimeters.
func (vm VM) Position() coord.Point { return vm.pos }

// isSupported reports whether the arm firmware accepts g.
func isSupported(g Word) bool {
	if g.IsAxis() {
		return true
	}
	switch g.W {
	case 'G':
		switch g.Arg {
		case 0, 1, 20, 21, 90, 91, 94:
			return true
		}
	case 'M':
		return g.Arg == 400
	case 'F':
		return true
	}
	return false
}

func applyBlock(p coord.Point, b Block, mul float64) coord.Point {
	for _, g := range b {
		switch g.W {
		case 'X':
			p.X = g.Arg * mul
		case 'Y':
			p.Y = g.Arg * mul
		case 'Z':
			p.Z = g.Arg * mul
		}
	}
	return p
}

// Run applies b. Blocks with codes the arm does not understand are rejected
// and leave the VM unchanged.
func (vm *VM) Run(b Block) error {
	err := b.Validate()
	if err != nil {
		return err
	}
	for _, g := range b {
		if !isSupported(g) {
			return errors.New("unsupported code: " + g.String())
		}
	}

	for _, g := range b {
		if mg := g.ModalGroup(); mg != ModalGroupNone && mg != ModalGroupNonModal {
			vm.modal[mg] = g.Arg
		}
		if g.W == 'F' {
			vm.feed = g.Arg
		}
	}

	args := b.Args()
	if len(args) == 0 {
		return nil
	}

	mul := 1.0
	if vm.Inches() {
		mul = 25.4
	}
	if vm.RelativeMotion() {
		vm.pos = vm.pos.Add(applyBlock(coord.Point{}, args, mul))
	} else {
		vm.pos = applyBlock(vm.pos, args, mul)
	}
	return nil
}
