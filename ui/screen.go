package ui

import (
	"image"
	"image/color"

	"gforce/input"
)

// maxDirty bounds the dirty list; past it the list collapses to a single
// bounding box.
const maxDirty = 16

// Widget is anything a Screen can draw.
type Widget interface {
	Bounds() image.Rectangle
	Visible() bool
	Draw(c *Canvas)

	attach(s *Screen)
}

// Pressable widgets receive Press on a pointer press inside their bounds.
type Pressable interface {
	Widget
	Press()
}

// Screen is the active screen: a background and an ordered widget list,
// drawn back to front.
type Screen struct {
	bounds     image.Rectangle
	background color.RGBA
	widgets    []Widget
	dirty      []image.Rectangle

	pressed bool
}

// NewScreen returns a width x height screen. The whole area starts dirty.
func NewScreen(width, height int, background color.RGBA) *Screen {
	s := &Screen{
		bounds:     image.Rect(0, 0, width, height),
		background: background,
	}
	s.Invalidate(s.bounds)
	return s
}

func (s *Screen) Bounds() image.Rectangle { return s.bounds }

// Add appends w on top of the existing widgets.
func (s *Screen) Add(w Widget) {
	s.widgets = append(s.widgets, w)
	w.attach(s)
	if w.Visible() {
		s.Invalidate(w.Bounds())
	}
}

// Invalidate marks r for redraw.
func (s *Screen) Invalidate(r image.Rectangle) {
	r = r.Intersect(s.bounds)
	if r.Empty() {
		return
	}
	// Absorb every rectangle overlapping r, repeating while the union grows.
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(s.dirty); i++ {
			if s.dirty[i].Overlaps(r) {
				r = r.Union(s.dirty[i])
				s.dirty = append(s.dirty[:i], s.dirty[i+1:]...)
				merged = true
				i--
			}
		}
	}
	s.dirty = append(s.dirty, r)
	if len(s.dirty) > maxDirty {
		u := s.dirty[0]
		for _, d := range s.dirty[1:] {
			u = u.Union(d)
		}
		s.dirty = append(s.dirty[:0], u)
	}
}

// Dirty reports whether anything awaits redraw.
func (s *Screen) Dirty() bool { return len(s.dirty) > 0 }

// TakeDirty returns the pending rectangles and clears the list.
func (s *Screen) TakeDirty() []image.Rectangle {
	if len(s.dirty) == 0 {
		return nil
	}
	out := make([]image.Rectangle, len(s.dirty))
	copy(out, s.dirty)
	s.dirty = s.dirty[:0]
	return out
}

// Draw repaints r: background first, then every visible widget that
// touches r, clipped to r.
func (s *Screen) Draw(c *Canvas, r image.Rectangle) {
	c.SetClip(r)
	defer c.ResetClip()
	c.Fill(r, s.background)
	for _, w := range s.widgets {
		if w.Visible() && w.Bounds().Overlaps(r) {
			w.Draw(c)
		}
	}
}

// Dispatch delivers pointer state. Press fires once per released-to-pressed
// edge, on the topmost visible pressable widget under the pointer.
func (s *Screen) Dispatch(p input.Pointer) {
	edge := p.Pressed && !s.pressed
	s.pressed = p.Pressed
	if !edge {
		return
	}
	pt := image.Pt(p.X, p.Y)
	for i := len(s.widgets) - 1; i >= 0; i-- {
		w, ok := s.widgets[i].(Pressable)
		if !ok || !w.Visible() || !pt.In(w.Bounds()) {
			continue
		}
		w.Press()
		return
	}
}
