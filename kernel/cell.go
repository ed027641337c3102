package kernel

import (
	"sync"
	"sync/atomic"
)

// Cell holds the most recent value published by a single writer.
//
// Readers always get a complete copy of one published value. The lock is
// held only for the copy, so a slow reader never delays the writer by more
// than that. There is no history: the last write wins.
type Cell[T any] struct {
	mu  sync.Mutex
	val T
	seq atomic.Uint64
}

// Publish replaces the value and returns its sequence number (1 for the
// first publish).
func (c *Cell[T]) Publish(v T) uint64 {
	c.mu.Lock()
	c.val = v
	seq := c.seq.Add(1)
	c.mu.Unlock()
	return seq
}

// Load returns the current value and its sequence number. Before the first
// Publish it returns the zero value and 0.
func (c *Cell[T]) Load() (T, uint64) {
	c.mu.Lock()
	v := c.val
	seq := c.seq.Load()
	c.mu.Unlock()
	return v, seq
}

// Seq returns the sequence number of the current value without copying it.
func (c *Cell[T]) Seq() uint64 {
	return c.seq.Load()
}
