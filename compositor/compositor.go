// Package compositor redraws the dirty parts of a ui.Screen into frame
// buffers and hands them to the panel.
package compositor

import (
	"errors"
	"fmt"
	"image"

	"gforce/hal"
	"gforce/ui"
)

// Compositor owns the frame buffers. In double-buffer mode software only
// ever draws into the back buffer; the buffer last handed to the panel is
// left alone until the next hand-off completes.
type Compositor struct {
	panel  hal.Panel
	frame  hal.FramePanel
	screen *ui.Screen
	log    hal.Logger

	bufs [2]*ui.Canvas
	back int
	// prev holds the rectangles drawn into the front buffer by the last
	// frame; they are copied into the back buffer before it is drawn.
	prev []image.Rectangle

	frames   uint64
	failures uint64
	failing  bool
}

// New allocates frame buffers for panel. With double set, two buffers are
// used; if the panel also implements hal.FramePanel, whole frames are
// presented instead of flushed rectangle by rectangle.
func New(panel hal.Panel, screen *ui.Screen, log hal.Logger, double bool) (*Compositor, error) {
	if panel == nil {
		return nil, fmt.Errorf("compositor: panel: %w", hal.ErrNoDevice)
	}
	if panel.Format() != hal.PixelFormatRGB565 {
		return nil, fmt.Errorf("compositor: unsupported pixel format %d", panel.Format())
	}
	w, h := panel.Width(), panel.Height()
	if screen.Bounds() != image.Rect(0, 0, w, h) {
		return nil, fmt.Errorf("compositor: screen %v does not match panel %dx%d", screen.Bounds(), w, h)
	}

	c := &Compositor{panel: panel, screen: screen, log: log}
	n := 1
	if double {
		n = 2
		c.frame, _ = panel.(hal.FramePanel)
	}
	stride := w * panel.Format().BytesPerPixel()
	for i := 0; i < n; i++ {
		c.bufs[i] = ui.NewCanvas(make([]byte, stride*h), w, h, stride)
	}
	return c, nil
}

// Double reports whether two buffers are in use.
func (c *Compositor) Double() bool { return c.bufs[1] != nil }

// Frames returns the number of frames handed to the panel.
func (c *Compositor) Frames() uint64 { return c.frames }

// Failures returns the number of failed hand-offs.
func (c *Compositor) Failures() uint64 { return c.failures }

// Back returns the buffer the next frame will be drawn into.
func (c *Compositor) Back() *ui.Canvas { return c.bufs[c.back] }

// Render redraws and flushes whatever the screen has marked dirty. Flush
// failures are logged and the rectangles re-queued for the next call; only
// a vanished panel is returned as an error.
func (c *Compositor) Render() error {
	if !c.screen.Dirty() {
		return nil
	}
	rects := c.screen.TakeDirty()
	if c.Double() {
		return c.renderDouble(rects)
	}
	return c.renderSingle(rects)
}

func (c *Compositor) renderSingle(rects []image.Rectangle) error {
	buf := c.bufs[0]
	var failed error
	for _, r := range rects {
		c.screen.Draw(buf, r)
		if err := c.panel.Flush(r, buf.Pix(), buf.Stride()); err != nil {
			c.screen.Invalidate(r)
			failed = err
		}
	}
	return c.settle(failed)
}

func (c *Compositor) renderDouble(rects []image.Rectangle) error {
	back := c.bufs[c.back]
	front := c.bufs[1-c.back]
	for _, r := range c.prev {
		back.CopyRect(front, r)
	}
	for _, r := range rects {
		c.screen.Draw(back, r)
	}

	var err error
	if c.frame != nil {
		err = c.frame.Present(back.Pix())
	} else {
		for _, r := range rects {
			if err = c.panel.Flush(r, back.Pix(), back.Stride()); err != nil {
				break
			}
		}
	}
	if err != nil {
		// The front buffer is still the one on the panel. Keep prev so the
		// next attempt resyncs, and redraw this frame's rectangles.
		for _, r := range rects {
			c.screen.Invalidate(r)
		}
		return c.settle(err)
	}

	c.prev = append(c.prev[:0], rects...)
	c.back = 1 - c.back
	return c.settle(nil)
}

// settle records the outcome of one frame and logs failure transitions.
func (c *Compositor) settle(err error) error {
	if err == nil {
		c.frames++
		if c.failing {
			c.failing = false
			c.logf("compositor: flush recovered after %d failures", c.failures)
		}
		return nil
	}
	c.failures++
	if !c.failing {
		c.failing = true
		c.logf("compositor: flush failed: %v", err)
	}
	if errors.Is(err, hal.ErrNoDevice) {
		return fmt.Errorf("compositor: %w", err)
	}
	return nil
}

func (c *Compositor) logf(format string, args ...any) {
	if c.log != nil {
		c.log.WriteLineString(fmt.Sprintf(format, args...))
	}
}
