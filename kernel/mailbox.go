package kernel

import (
	"context"
	"sync/atomic"
)

const mailboxSlots = 8

// Mailbox is a fixed-size single-producer, single-consumer queue.
// TrySend never blocks and never allocates, so it is safe to call from the
// render loop; a full mailbox drops the message.
type Mailbox[T any] struct {
	head   atomic.Uint32
	tail   atomic.Uint32
	slots  [mailboxSlots]T
	notify chan struct{}

	dropped atomic.Uint64
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{notify: make(chan struct{}, 1)}
}

// TrySend enqueues a message, returning false if the mailbox is full.
func (mb *Mailbox[T]) TrySend(msg T) bool {
	head := mb.head.Load()
	if head-mb.tail.Load() >= mailboxSlots {
		mb.dropped.Add(1)
		return false
	}
	mb.slots[head%mailboxSlots] = msg
	mb.head.Store(head + 1)

	select {
	case mb.notify <- struct{}{}:
	default:
	}
	return true
}

// TryRecv dequeues one message, returning false if empty.
func (mb *Mailbox[T]) TryRecv() (T, bool) {
	tail := mb.tail.Load()
	if tail == mb.head.Load() {
		var zero T
		return zero, false
	}
	msg := mb.slots[tail%mailboxSlots]
	mb.tail.Store(tail + 1)
	return msg, true
}

// Recv blocks until a message is available or ctx is done.
func (mb *Mailbox[T]) Recv(ctx context.Context) (T, error) {
	for {
		if msg, ok := mb.TryRecv(); ok {
			return msg, nil
		}
		select {
		case <-mb.notify:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Len returns the number of queued messages.
func (mb *Mailbox[T]) Len() int {
	return int(mb.head.Load() - mb.tail.Load())
}

// Dropped returns how many sends failed because the mailbox was full.
func (mb *Mailbox[T]) Dropped() uint64 {
	return mb.dropped.Load()
}
