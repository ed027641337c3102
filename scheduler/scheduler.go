// Package scheduler runs the render loop: one tick samples input, applies
// the latest sensor reading, renders, and fires due timers.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gforce/hal"
	"gforce/input"
	"gforce/kernel"
	"gforce/sensor"
)

// PointerSource samples the touch input once per tick.
type PointerSource interface {
	SamplePointer() input.Pointer
}

// Dispatcher delivers pointer state to the widgets.
type Dispatcher interface {
	Dispatch(p input.Pointer)
}

// Applier maps a sensor reading onto the screen.
type Applier interface {
	Apply(r sensor.Reading)
}

// Renderer draws and flushes whatever changed.
type Renderer interface {
	Render() error
}

// Config wires a Scheduler. All fields except MaxTicks are required.
type Config struct {
	Input      PointerSource
	Screen     Dispatcher
	Cell       *kernel.Cell[sensor.Reading]
	View       Applier
	Compositor Renderer
	Clock      *kernel.Clock
	Logger     hal.Logger

	Period time.Duration
	// MaxTicks stops Run after that many ticks; 0 runs until cancelled.
	MaxTicks uint64
}

type timer struct {
	name   string
	period uint64 // ms
	next   uint64
	fn     func()
}

// Scheduler is the single-threaded owner of the UI.
type Scheduler struct {
	cfg    Config
	timers []*timer
	ticks  uint64
}

// New validates cfg and returns an idle scheduler.
func New(cfg Config) (*Scheduler, error) {
	switch {
	case cfg.Input == nil, cfg.Screen == nil, cfg.Cell == nil, cfg.View == nil,
		cfg.Compositor == nil, cfg.Clock == nil, cfg.Logger == nil:
		return nil, errors.New("scheduler: incomplete config")
	case cfg.Period <= 0:
		return nil, fmt.Errorf("scheduler: invalid period %v", cfg.Period)
	}
	return &Scheduler{cfg: cfg}, nil
}

// Every registers fn to run from the tick loop once per period of the
// animation clock. Late timers fire once and skip the missed periods.
func (s *Scheduler) Every(name string, period time.Duration, fn func()) {
	ms := max(uint64(period/time.Millisecond), 1)
	s.timers = append(s.timers, &timer{
		name:   name,
		period: ms,
		next:   s.cfg.Clock.Millis() + ms,
		fn:     fn,
	})
}

// Ticks returns the number of completed ticks.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// Tick runs one cycle. Input is dispatched before the reading is applied,
// so a press takes effect in the frame rendered by the same tick.
func (s *Scheduler) Tick(time.Time) error {
	p := s.cfg.Input.SamplePointer()
	s.cfg.Screen.Dispatch(p)

	r, _ := s.cfg.Cell.Load()
	s.cfg.View.Apply(r)
	if err := s.cfg.Compositor.Render(); err != nil {
		return fmt.Errorf("scheduler: render: %w", err)
	}

	now := s.cfg.Clock.Millis()
	for _, t := range s.timers {
		if now < t.next {
			continue
		}
		t.fn()
		t.next += t.period
		if t.next <= now {
			t.next = now + t.period
		}
	}

	s.ticks++
	kernel.Yield()
	return nil
}

// Run ticks once per period until ctx is done, MaxTicks is reached, or a
// render error occurs. Reaching MaxTicks returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cfg.Logger.WriteLineString(fmt.Sprintf("scheduler: render tick %v", s.cfg.Period))
	err := kernel.Every(ctx, s.cfg.Period, func(now time.Time) error {
		if err := s.Tick(now); err != nil {
			return err
		}
		if s.cfg.MaxTicks > 0 && s.ticks >= s.cfg.MaxTicks {
			return kernel.ErrStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.cfg.Logger.WriteLineString(fmt.Sprintf("scheduler: stopped: %v", err))
	}
	return err
}
