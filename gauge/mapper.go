// Package gauge turns accelerations into gauge geometry and label values.
// Everything here is pure: no I/O, no shared state.
package gauge

import (
	"image"
	"math"
)

// StandardGravity is the acceleration that maps to 1 g, in m/s².
const StandardGravity = 9.81

// Mapper converts accelerations (m/s²) to screen space.
type Mapper struct {
	Width, Height    int
	CenterX, CenterY int

	// Scale is the gauge radius of 1 g, in pixels.
	Scale float64
	// Limit caps |a/g| before scaling.
	Limit float64

	// LabelScale multiplies g before truncating to a label integer, and
	// LabelMax caps the result.
	LabelScale float64
	LabelMax   int
}

// G converts an acceleration to g. NaN is treated as no acceleration.
func G(a float64) float64 {
	if math.IsNaN(a) {
		return 0
	}
	return a / StandardGravity
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Position maps an acceleration to the gauge dot position. The result is
// clamped twice: to ±Limit in g, then to the panel in screen space, so no
// reading can push the dot off the panel.
func (m Mapper) Position(ax, ay float64) image.Point {
	x := float64(m.CenterX) + clamp(G(ax), -m.Limit, m.Limit)*m.Scale
	y := float64(m.CenterY) + clamp(G(ay), -m.Limit, m.Limit)*m.Scale
	x = clamp(x, 0, float64(m.Width-1))
	y = clamp(y, 0, float64(m.Height-1))
	return image.Point{X: int(x), Y: int(y)}
}

// Split returns the positive and negative parts of v as magnitudes:
// pos = max(v, 0), neg = |min(v, 0)|. At most one of them is non-zero.
func Split(v float64) (pos, neg float64) {
	if math.IsNaN(v) {
		return 0, 0
	}
	return math.Max(v, 0), math.Abs(math.Min(v, 0))
}

// Channels are the four derived label values.
type Channels struct {
	Accel, Brake int
	Left, Right  int
}

// Channels derives label values from an acceleration. The longitudinal axis
// is y (positive is accelerating) and the lateral axis is x (positive is
// right).
func (m Mapper) Channels(ax, ay float64) Channels {
	accel, brake := Split(G(ay))
	right, left := Split(G(ax))
	return Channels{
		Accel: m.label(accel),
		Brake: m.label(brake),
		Left:  m.label(left),
		Right: m.label(right),
	}
}

func (m Mapper) label(g float64) int {
	v := g * m.LabelScale
	if v > float64(m.LabelMax) {
		return m.LabelMax
	}
	if v < 0 {
		return 0
	}
	return int(v)
}
