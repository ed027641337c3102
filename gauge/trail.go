package gauge

import "image"

// Trail is a fixed-capacity history of gauge positions. Push is O(1): the
// newest point overwrites the oldest slot.
type Trail struct {
	pts      []image.Point
	head     int // index of the newest point
	minAlpha float64
}

// NewTrail returns a trail of n slots, all holding def.
func NewTrail(n int, def image.Point, minAlpha float64) *Trail {
	t := &Trail{pts: make([]image.Point, n), minAlpha: minAlpha}
	t.Fill(def)
	return t
}

// Len returns the number of slots.
func (t *Trail) Len() int { return len(t.pts) }

// Push inserts p as the newest point, dropping the oldest.
func (t *Trail) Push(p image.Point) {
	if len(t.pts) == 0 {
		return
	}
	t.head = (t.head + 1) % len(t.pts)
	t.pts[t.head] = p
}

// At returns the i-th newest point; At(0) is the newest and At(Len()-1) the
// oldest.
func (t *Trail) At(i int) image.Point {
	n := len(t.pts)
	return t.pts[((t.head-i)%n+n)%n]
}

// Fill sets every slot to p.
func (t *Trail) Fill(p image.Point) {
	for i := range t.pts {
		t.pts[i] = p
	}
	t.head = 0
}

// Alpha returns the opacity of slot i: a linear ramp from 1 at the newest
// slot down to the configured minimum at the oldest.
func (t *Trail) Alpha(i int) float64 {
	n := len(t.pts)
	if n <= 1 {
		return 1
	}
	return 1 - (1-t.minAlpha)*float64(i)/float64(n-1)
}
