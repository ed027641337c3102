package kernel

import (
	"context"
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestEveryStopsOnErrStop(t *testing.T) {
	c := qt.New(t)

	n := 0
	err := Every(context.Background(), time.Millisecond, func(time.Time) error {
		n++
		if n == 3 {
			return ErrStop
		}
		return nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 3)
}

func TestEveryReturnsCallbackError(t *testing.T) {
	c := qt.New(t)

	boom := errors.New("boom")
	err := Every(context.Background(), time.Millisecond, func(time.Time) error {
		return boom
	})
	c.Assert(err, qt.Equals, boom)
}

func TestEveryCancelled(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	err := Every(ctx, time.Millisecond, func(time.Time) error {
		cancel()
		return nil
	})
	c.Assert(err, qt.Equals, context.Canceled)
}

func TestEveryRejectsZeroPeriod(t *testing.T) {
	c := qt.New(t)

	err := Every(context.Background(), 0, func(time.Time) error { return nil })
	c.Assert(err, qt.ErrorMatches, "kernel: period must be positive")
}

func TestClockAdvance(t *testing.T) {
	c := qt.New(t)

	clk := NewClock(2 * time.Millisecond)
	c.Assert(clk.Millis(), qt.Equals, uint64(0))
	clk.Advance(2)
	clk.Advance(5)
	c.Assert(clk.Millis(), qt.Equals, uint64(7))
}

func TestClockStart(t *testing.T) {
	c := qt.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk := NewClock(time.Millisecond)
	clk.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for clk.Millis() < 5 {
		if time.Now().After(deadline) {
			c.Fatalf("clock stuck at %d ms", clk.Millis())
		}
		time.Sleep(time.Millisecond)
	}
}
