package input

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"gforce/hal"
)

type fakeTouch struct {
	reports []hal.TouchReport
	errs    []error
	i       int
}

func (f *fakeTouch) ReadTouch() (hal.TouchReport, error) {
	i := f.i
	f.i++
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if i >= len(f.reports) {
		return hal.TouchReport{}, err
	}
	return f.reports[i], err
}

func TestSamplePointer(t *testing.T) {
	c := qt.New(t)

	touch := &fakeTouch{reports: []hal.TouchReport{
		{Points: 1, X: 100, Y: 200},
		{Points: 0, X: 100, Y: 200},
		{Points: 2, X: 500, Y: 9999},
	}}
	s := NewSampler(touch, 480, 480)

	c.Assert(s.SamplePointer(), qt.Equals, Pointer{X: 100, Y: 200, Pressed: true})
	// Zero points is a release even if coordinates are stale.
	c.Assert(s.SamplePointer(), qt.Equals, Pointer{})
	// Out-of-range coordinates are clamped to the panel.
	c.Assert(s.SamplePointer(), qt.Equals, Pointer{X: 479, Y: 479, Pressed: true})
	// Nothing reported: released.
	c.Assert(s.SamplePointer(), qt.Equals, Pointer{})
	c.Assert(s.Errors(), qt.Equals, uint64(0))
}

func TestSamplePointerErrorIsRelease(t *testing.T) {
	c := qt.New(t)

	errBus := errors.New("bus error")
	touch := &fakeTouch{
		reports: []hal.TouchReport{{Points: 1, X: 10, Y: 10}, {Points: 1, X: 10, Y: 10}, {Points: 1, X: 10, Y: 10}},
		errs:    []error{nil, errBus, nil},
	}
	s := NewSampler(touch, 320, 320)

	c.Assert(s.SamplePointer().Pressed, qt.IsTrue)
	c.Assert(s.SamplePointer(), qt.Equals, Pointer{})
	c.Assert(s.SamplePointer().Pressed, qt.IsTrue)
	c.Assert(s.Errors(), qt.Equals, uint64(1))
}

func TestSamplePointerNoController(t *testing.T) {
	c := qt.New(t)

	s := NewSampler(nil, 320, 320)
	c.Assert(s.SamplePointer(), qt.Equals, Pointer{})
}
