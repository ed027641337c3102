package kernel

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// Clock is the animation timebase: a millisecond counter advanced by a
// periodic ticker, independent of how long render ticks take.
type Clock struct {
	period time.Duration
	millis atomic.Uint64
}

// NewClock creates a clock that advances every period (rounded up to 1ms).
func NewClock(period time.Duration) *Clock {
	if period < time.Millisecond {
		period = time.Millisecond
	}
	return &Clock{period: period}
}

// Start runs the ticker until ctx is done.
func (c *Clock) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(c.period)
		defer t.Stop()
		step := uint64(c.period / time.Millisecond)
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				c.millis.Add(step)
			}
		}
	}()
}

// Advance moves the clock forward by ms milliseconds.
func (c *Clock) Advance(ms uint64) {
	c.millis.Add(ms)
}

// Millis returns the current tick count in milliseconds.
func (c *Clock) Millis() uint64 {
	return c.millis.Load()
}

// Yield yields execution to let other goroutines run.
func Yield() {
	runtime.Gosched()
}
