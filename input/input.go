// Package input turns raw touch controller reports into pointer state.
package input

import (
	"sync/atomic"

	"gforce/hal"
)

// Pointer is the state of the primary contact.
type Pointer struct {
	X, Y    int
	Pressed bool
}

// Sampler reads the touch controller once per render tick. It keeps no
// pressed state of its own: a press that is not reported again reads as
// released on the next sample.
type Sampler struct {
	touch  hal.Touch
	width  int
	height int

	errors atomic.Uint64
}

// NewSampler returns a sampler clamping to a width x height panel.
func NewSampler(touch hal.Touch, width, height int) *Sampler {
	return &Sampler{touch: touch, width: width, height: height}
}

// SamplePointer returns the current pointer. A read error reports released.
func (s *Sampler) SamplePointer() Pointer {
	if s.touch == nil {
		return Pointer{}
	}
	rep, err := s.touch.ReadTouch()
	if err != nil {
		s.errors.Add(1)
		return Pointer{}
	}
	if rep.Points == 0 {
		return Pointer{}
	}
	return Pointer{
		X:       clamp(int(rep.X), s.width-1),
		Y:       clamp(int(rep.Y), s.height-1),
		Pressed: true,
	}
}

// Errors returns the number of failed reads so far.
func (s *Sampler) Errors() uint64 { return s.errors.Load() }

func clamp(v, hi int) int {
	if v > hi {
		return hi
	}
	if v < 0 {
		return 0
	}
	return v
}
