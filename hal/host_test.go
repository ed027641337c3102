//go:build !tinygo

package hal

import (
	"bytes"
	"image"
	"math"
	"regexp"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestNewHostHALRejectsBadSize(t *testing.T) {
	c := qt.New(t)

	_, err := newHostHAL(Config{Width: 0, Height: 10}, &bytes.Buffer{})
	c.Assert(err, qt.ErrorMatches, `hal: invalid panel size 0x10`)

	h, err := newHostHAL(Config{Width: 8, Height: 4, Seed: 3}, &bytes.Buffer{})
	c.Assert(err, qt.IsNil)
	c.Assert(h.Panel().Width(), qt.Equals, 8)
	c.Assert(h.Panel().Height(), qt.Equals, 4)
	_, ok := h.Panel().(FramePanel)
	c.Assert(ok, qt.IsTrue)
}

func TestHostPanelFlushCopiesRegion(t *testing.T) {
	c := qt.New(t)

	p := newHostPanel(4, 3)
	src := make([]byte, 4*3*2)
	for i := range src {
		src[i] = 0xAA
	}
	c.Assert(p.Flush(image.Rect(1, 1, 3, 2), src, 8), qt.IsNil)

	got := make([]byte, len(src))
	p.snapshotRGB565(got)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			want := byte(0)
			if y == 1 && x >= 1 && x < 3 {
				want = 0xAA
			}
			c.Assert(got[y*8+x*2], qt.Equals, want, qt.Commentf("pixel %d,%d", x, y))
		}
	}

	// Rectangles are clipped to the panel.
	c.Assert(p.Flush(image.Rect(-5, -5, 0, 0), src, 8), qt.IsNil)
	c.Assert(p.Flush(image.Rect(0, 0, 4, 3), src[:4], 8), qt.ErrorMatches, "hal: flush region outside buffer")
}

func TestHostPanelPresentThenFlush(t *testing.T) {
	c := qt.New(t)

	p := newHostPanel(2, 2)
	frame := []byte{1, 1, 2, 2, 3, 3, 4, 4}
	c.Assert(p.Present(frame), qt.IsNil)
	c.Assert(p.Present(frame[:2]), qt.ErrorMatches, "hal: present buffer too small")

	// A flush after a present must not write into the presented buffer.
	patch := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	c.Assert(p.Flush(image.Rect(0, 0, 1, 1), patch, 4), qt.IsNil)
	c.Assert(frame, qt.DeepEquals, []byte{1, 1, 2, 2, 3, 3, 4, 4})

	got := make([]byte, 8)
	p.snapshotRGB565(got)
	c.Assert(got, qt.DeepEquals, []byte{9, 9, 2, 2, 3, 3, 4, 4})
	c.Assert(p.presents, qt.Equals, uint64(1))
	c.Assert(p.flushes, qt.Equals, uint64(1))
}

func TestHostTouch(t *testing.T) {
	c := qt.New(t)

	var tc hostTouch
	rep, err := tc.ReadTouch()
	c.Assert(err, qt.IsNil)
	c.Assert(rep.Points, qt.Equals, uint8(0))

	tc.set(true, -4, 17)
	rep, _ = tc.ReadTouch()
	c.Assert(rep, qt.Equals, TouchReport{Points: 1, X: 0, Y: 17})

	tc.set(false, 100, 100)
	rep, _ = tc.ReadTouch()
	c.Assert(rep, qt.Equals, TouchReport{})
}

func TestHostLoggerFormat(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	l := &hostLogger{w: &buf}
	l.WriteLineString("sensor: ok")
	l.WriteLineBytes([]byte("scheduler: ok"))

	re := regexp.MustCompile(`^\d{4}-\d\d-\d\d \d\d:\d\d:\d\d\.\d{3} sensor: ok\n` +
		`\d{4}-\d\d-\d\d \d\d:\d\d:\d\d\.\d{3} scheduler: ok\n$`)
	c.Assert(re.MatchString(buf.String()), qt.IsTrue, qt.Commentf("%q", buf.String()))
}

func TestHostIMU(t *testing.T) {
	c := qt.New(t)

	m := newHostIMU(1)
	before, err := m.ReadMotion()
	c.Assert(err, qt.IsNil)
	c.Assert(math.Abs(before.Z-9.81) < 1, qt.IsTrue)

	m.nudge(4.9, -4.9)
	after, _ := m.ReadMotion()
	// The simulated drive moves slowly; a nudge dominates one read apart.
	c.Assert(after.X-before.X > 4, qt.IsTrue)
	c.Assert(before.Y-after.Y > 4, qt.IsTrue)
}

func TestHostBattery(t *testing.T) {
	c := qt.New(t)

	v, err := newHostBattery().ReadVoltage()
	c.Assert(err, qt.IsNil)
	c.Assert(v > 4.1 && v <= 4.15, qt.IsTrue)
}
