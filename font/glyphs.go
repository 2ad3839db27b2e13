package font

import "github.com/mastercactapus/plotarm/coord"

func pt(x, y float64) coord.Point { return coord.Pt(x, y) }

// glyphs holds every drawable character on the unit square, origin
// bottom-left with Y up.
var glyphs = map[rune]Glyph{
	'A': {
		{pt(0, 0), pt(0.5, 1), pt(1, 0)},
		{pt(0.2, 0.4), pt(0.8, 0.4)},
	},
	'B': {
		{pt(0, 0), pt(0, 1), pt(0.7, 1), pt(0.9, 0.85), pt(0.9, 0.65), pt(0.7, 0.5), pt(0, 0.5)},
		{pt(0.7, 0.5), pt(0.9, 0.35), pt(0.9, 0.15), pt(0.7, 0), pt(0, 0)},
	},
	'C': {
		{pt(1, 0.85), pt(0.7, 1), pt(0.3, 1), pt(0, 0.7), pt(0, 0.3), pt(0.3, 0), pt(0.7, 0), pt(1, 0.15)},
	},
	'D': {
		{pt(0, 0), pt(0, 1), pt(0.6, 1), pt(0.9, 0.75), pt(0.9, 0.25), pt(0.6, 0), pt(0, 0)},
	},
	'E': {
		{pt(0.8, 0), pt(0, 0), pt(0, 0.5), pt(0.6, 0.5)},
		{pt(0, 0.5), pt(0, 1), pt(0.8, 1)},
	},
	'F': {
		{pt(0, 0), pt(0, 0.5), pt(0.6, 0.5)},
		{pt(0, 0.5), pt(0, 1), pt(0.8, 1)},
	},
	'G': {
		{pt(1, 0.85), pt(0.7, 1), pt(0.3, 1), pt(0, 0.7), pt(0, 0.3), pt(0.3, 0), pt(0.7, 0), pt(1, 0.3), pt(1, 0.5), pt(0.5, 0.5)},
	},
	'H': {
		{pt(0, 0), pt(0, 1)},
		{pt(0, 0.5), pt(0.8, 0.5)},
		{pt(0.8, 0), pt(0.8, 1)},
	},
	'I': {
		{pt(0.2, 0), pt(0.6, 0)},
		{pt(0.4, 0), pt(0.4, 1)},
		{pt(0.2, 1), pt(0.6, 1)},
	},
	'J': {
		{pt(0.2, 1), pt(0.8, 1)},
		{pt(0.6, 1), pt(0.6, 0.2), pt(0.4, 0), pt(0.2, 0), pt(0, 0.2)},
	},
	'K': {
		{pt(0, 0), pt(0, 1)},
		{pt(0.8, 1), pt(0, 0.4), pt(0.8, 0)},
	},
	'L': {
		{pt(0, 1), pt(0, 0), pt(0.7, 0)},
	},
	'M': {
		{pt(0, 0), pt(0, 1), pt(0.5, 0.5), pt(1, 1), pt(1, 0)},
	},
	'N': {
		{pt(0, 0), pt(0, 1), pt(0.8, 0), pt(0.8, 1)},
	},
	'O': {
		{pt(0.3, 0), pt(0.7, 0), pt(1, 0.3), pt(1, 0.7), pt(0.7, 1), pt(0.3, 1), pt(0, 0.7), pt(0, 0.3), pt(0.3, 0)},
	},
	'P': {
		{pt(0, 0), pt(0, 1), pt(0.7, 1), pt(0.9, 0.85), pt(0.9, 0.6), pt(0.7, 0.45), pt(0, 0.45)},
	},
	'Q': {
		{pt(0.3, 0), pt(0.7, 0), pt(1, 0.3), pt(1, 0.7), pt(0.7, 1), pt(0.3, 1), pt(0, 0.7), pt(0, 0.3), pt(0.3, 0)},
		{pt(0.6, 0.3), pt(1, 0)},
	},
	'R': {
		{pt(0, 0), pt(0, 1), pt(0.7, 1), pt(0.9, 0.85), pt(0.9, 0.6), pt(0.7, 0.45), pt(0, 0.45)},
		{pt(0.5, 0.45), pt(0.9, 0)},
	},
	'S': {
		{pt(0.9, 0.85), pt(0.7, 1), pt(0.3, 1), pt(0, 0.8), pt(0, 0.6), pt(0.3, 0.5), pt(0.7, 0.5), pt(1, 0.4), pt(1, 0.2), pt(0.7, 0), pt(0.3, 0), pt(0.1, 0.15)},
	},
	'T': {
		{pt(0, 1), pt(1, 1)},
		{pt(0.5, 1), pt(0.5, 0)},
	},
	'U': {
		{pt(0, 1), pt(0, 0.2), pt(0.2, 0), pt(0.6, 0), pt(0.8, 0.2), pt(0.8, 1)},
	},
	'V': {
		{pt(0, 1), pt(0.5, 0), pt(1, 1)},
	},
	'W': {
		{pt(0, 1), pt(0.25, 0), pt(0.5, 0.6), pt(0.75, 0), pt(1, 1)},
	},
	'X': {
		{pt(0, 0), pt(0.8, 1)},
		{pt(0, 1), pt(0.8, 0)},
	},
	'Y': {
		{pt(0, 1), pt(0.4, 0.5), pt(0.4, 0)},
		{pt(0.8, 1), pt(0.4, 0.5)},
	},
	'Z': {
		{pt(0, 1), pt(0.8, 1), pt(0, 0), pt(0.8, 0)},
	},
	' ': {},
	'-': {
		{pt(0.1, 0.5), pt(0.6, 0.5)},
	},
	'.': {
		{pt(0.2, 0.05), pt(0.2, 0), pt(0.3, 0), pt(0.3, 0.05), pt(0.2, 0.05)},
	},
	'!': {
		{pt(0.3, 1), pt(0.3, 0.3)},
		{pt(0.3, 0.05), pt(0.3, 0), pt(0.35, 0), pt(0.35, 0.05), pt(0.3, 0.05)},
	},
	'0': {
		{pt(0.3, 0), pt(0.7, 0), pt(1, 0.3), pt(1, 0.7), pt(0.7, 1), pt(0.3, 1), pt(0, 0.7), pt(0, 0.3), pt(0.3, 0)},
	},
	'1': {
		{pt(0.2, 0.8), pt(0.5, 1), pt(0.5, 0)},
		{pt(0.2, 0), pt(0.8, 0)},
	},
	'2': {
		{pt(0, 0.8), pt(0.2, 1), pt(0.7, 1), pt(0.9, 0.8), pt(0.9, 0.6), pt(0, 0), pt(0.9, 0)},
	},
	'3': {
		{pt(0, 0.85), pt(0.3, 1), pt(0.7, 1), pt(0.9, 0.8), pt(0.9, 0.6), pt(0.6, 0.5)},
		{pt(0.6, 0.5), pt(0.9, 0.4), pt(0.9, 0.2), pt(0.7, 0), pt(0.3, 0), pt(0, 0.15)},
	},
}
