//go:build !tinygo

package hal

import (
	"errors"
	"image"
	"sync"
)

// hostPanel emulates a 16bpp panel. Its scan-out buffer is what the window
// shows; Flush copies into it and Present swaps it for a software buffer.
type hostPanel struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	own    []byte
	scan   []byte

	flushes  uint64
	presents uint64
}

func newHostPanel(width, height int) *hostPanel {
	stride := width * 2
	own := make([]byte, stride*height)
	return &hostPanel{
		width:  width,
		height: height,
		stride: stride,
		own:    own,
		scan:   own,
	}
}

func (p *hostPanel) Width() int          { return p.width }
func (p *hostPanel) Height() int         { return p.height }
func (p *hostPanel) Format() PixelFormat { return PixelFormatRGB565 }

func (p *hostPanel) Flush(r image.Rectangle, pix []byte, stride int) error {
	r = r.Intersect(image.Rect(0, 0, p.width, p.height))
	if r.Empty() {
		return nil
	}
	if stride < r.Max.X*2 || len(pix) < (r.Max.Y-1)*stride+r.Max.X*2 {
		return errors.New("hal: flush region outside buffer")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	// After a Present the scan-out buffer belongs to the caller; go back to
	// the panel's own memory, seeded with the last presented frame.
	if &p.scan[0] != &p.own[0] {
		copy(p.own, p.scan)
		p.scan = p.own
	}
	rowBytes := r.Dx() * 2
	for y := r.Min.Y; y < r.Max.Y; y++ {
		src := y*stride + r.Min.X*2
		dst := y*p.stride + r.Min.X*2
		copy(p.scan[dst:dst+rowBytes], pix[src:src+rowBytes])
	}
	p.flushes++
	return nil
}

func (p *hostPanel) Present(pix []byte) error {
	if len(pix) < p.stride*p.height {
		return errors.New("hal: present buffer too small")
	}
	p.mu.Lock()
	p.scan = pix
	p.presents++
	p.mu.Unlock()
	return nil
}

func (p *hostPanel) snapshotRGB565(dst []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	copy(dst, p.scan)
}
