package kernel

import (
	"context"
	"errors"
	"time"
)

// ErrStop can be returned by an Every callback to end the loop cleanly.
var ErrStop = errors.New("kernel: stop")

// Every calls fn once per period until ctx is done or fn returns an error.
// Ticks that arrive while fn is still running are coalesced, so a slow
// callback skips periods instead of building a backlog.
//
// It returns nil when fn returns ErrStop and ctx.Err() on cancellation.
func Every(ctx context.Context, period time.Duration, fn func(now time.Time) error) error {
	if period <= 0 {
		return errors.New("kernel: period must be positive")
	}
	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-t.C:
			if err := fn(now); err != nil {
				if errors.Is(err, ErrStop) {
					return nil
				}
				return err
			}
		}
	}
}
