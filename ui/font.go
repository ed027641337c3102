package ui

import (
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Font is a tinyfont face with its line metrics.
type Font struct {
	Face tinyfont.Fonter
	// Height is the line height and Offset the baseline distance from the
	// top of the line, both in pixels.
	Height int16
	Offset int16
}

var (
	FontSmall = NewFont(&proggy.TinySZ8pt7b)
	FontLarge = NewFont(&freemono.Regular9pt7b)
)

// NewFont derives line metrics from the glyph extents of printable ASCII.
func NewFont(face tinyfont.Fonter) Font {
	minY, maxY := 0, 0
	for r := rune(0x20); r < 0x7F; r++ {
		info := face.GetGlyph(r).Info()
		top := int(info.YOffset)
		bottom := top + int(info.Height)
		if top < minY {
			minY = top
		}
		if bottom > maxY {
			maxY = bottom
		}
	}
	h := int16(face.GetYAdvance())
	if bbox := int16(maxY - minY); bbox > h {
		h = bbox
	}
	return Font{Face: face, Height: h, Offset: int16(-minY)}
}

// Width returns the advance width of s.
func (f Font) Width(s string) int {
	_, outbox := tinyfont.LineWidth(f.Face, s)
	return int(outbox)
}

// span returns the horizontal ink extent of s relative to the pen start,
// including glyphs that overhang their advance.
func (f Font) span(s string) (left, right int) {
	x := 0
	for _, r := range s {
		info := f.Face.GetGlyph(r).Info()
		ink := x + int(info.XOffset)
		left = min(left, ink)
		right = max(right, ink+int(info.Width), x+int(info.XAdvance))
		x += int(info.XAdvance)
	}
	return left, right
}
