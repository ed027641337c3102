// Package ui is a small retained-mode widget layer drawing into RGB565
// frame buffers.
package ui

import (
	"image"
	"image/color"

	"gforce/hal"

	"tinygo.org/x/drivers"
)

// Canvas is a drawing surface over an RGB565 little-endian pixel buffer.
// All drawing is clipped to the current clip rectangle.
type Canvas struct {
	pix    []byte
	stride int
	width  int
	height int
	clip   image.Rectangle
}

var _ drivers.Displayer = (*Canvas)(nil)

// NewCanvas wraps pix as a width x height surface with rows stride bytes
// apart.
func NewCanvas(pix []byte, width, height, stride int) *Canvas {
	return &Canvas{
		pix:    pix,
		stride: stride,
		width:  width,
		height: height,
		clip:   image.Rect(0, 0, width, height),
	}
}

func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }
func (c *Canvas) Pix() []byte             { return c.pix }
func (c *Canvas) Stride() int             { return c.stride }

// SetClip restricts drawing to r. An empty r disables drawing.
func (c *Canvas) SetClip(r image.Rectangle) {
	c.clip = r.Intersect(c.Bounds())
}

// ResetClip makes the whole surface drawable.
func (c *Canvas) ResetClip() { c.clip = c.Bounds() }

func (c *Canvas) Size() (x, y int16) {
	return int16(c.width), int16(c.height)
}

func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.set(int(x), int(y), hal.RGB565Color(col))
}

// Display is a no-op: flushing belongs to the compositor.
func (c *Canvas) Display() error { return nil }

func (c *Canvas) set(x, y int, p uint16) {
	if !(image.Point{X: x, Y: y}).In(c.clip) {
		return
	}
	off := y*c.stride + x*2
	c.pix[off] = byte(p)
	c.pix[off+1] = byte(p >> 8)
}

// At returns the RGB565 value at (x, y), or 0 outside the surface.
func (c *Canvas) At(x, y int) uint16 {
	if !(image.Point{X: x, Y: y}).In(c.Bounds()) {
		return 0
	}
	off := y*c.stride + x*2
	return uint16(c.pix[off]) | uint16(c.pix[off+1])<<8
}

// Blend mixes col into the pixel at (x, y) with opacity a in [0, 1].
func (c *Canvas) Blend(x, y int, col color.RGBA, a float64) {
	if a >= 1 {
		c.set(x, y, hal.RGB565Color(col))
		return
	}
	if a <= 0 || !(image.Point{X: x, Y: y}).In(c.clip) {
		return
	}
	r, g, b := hal.RGB888(c.At(x, y))
	mix := func(dst, src uint8) uint8 {
		return uint8(float64(dst)*(1-a) + float64(src)*a + 0.5)
	}
	c.set(x, y, hal.RGB565(mix(r, col.R), mix(g, col.G), mix(b, col.B)))
}

// Fill paints r (clipped) with one color.
func (c *Canvas) Fill(r image.Rectangle, col color.RGBA) {
	r = r.Intersect(c.clip)
	if r.Empty() {
		return
	}
	p := hal.RGB565Color(col)
	lo, hi := byte(p), byte(p>>8)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.pix[y*c.stride+r.Min.X*2 : y*c.stride+r.Max.X*2]
		for i := 0; i < len(row); i += 2 {
			row[i] = lo
			row[i+1] = hi
		}
	}
}

// FillRectangle is Fill in the drivers call shape, for tinyterm.
func (c *Canvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	c.Fill(image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)), col)
	return nil
}

// SetScroll is not supported; terminals on a Canvas use software scroll.
func (c *Canvas) SetScroll(line int16) {}

// SetRotation accepts only the native orientation.
func (c *Canvas) SetRotation(rotation drivers.Rotation) error {
	if rotation != drivers.Rotation0 {
		return hal.ErrNotImplemented
	}
	return nil
}

// CopyRect copies r from src, which must have the same geometry.
func (c *Canvas) CopyRect(src *Canvas, r image.Rectangle) {
	r = r.Intersect(c.Bounds()).Intersect(src.Bounds())
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		d := y*c.stride + r.Min.X*2
		s := y*src.stride + r.Min.X*2
		copy(c.pix[d:d+r.Dx()*2], src.pix[s:s+r.Dx()*2])
	}
}
