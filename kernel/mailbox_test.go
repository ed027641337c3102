package kernel

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMailboxTryRecvEmpty(t *testing.T) {
	mb := NewMailbox[int]()

	_, ok := mb.TryRecv()
	if ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestMailboxTrySendFull(t *testing.T) {
	mb := NewMailbox[int]()

	for i := 0; i < mailboxSlots; i++ {
		if ok := mb.TrySend(i); !ok {
			t.Fatalf("TrySend() ok = false at slot %d, want true", i)
		}
	}
	if ok := mb.TrySend(99); ok {
		t.Fatalf("TrySend() ok = true when full, want false")
	}
	if got := mb.Dropped(); got != 1 {
		t.Fatalf("Dropped() = %d, want 1", got)
	}

	for i := 0; i < mailboxSlots; i++ {
		got, ok := mb.TryRecv()
		if !ok {
			t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
		}
		if got != i {
			t.Fatalf("TryRecv() = %d, want %d", got, i)
		}
	}
}

func TestMailboxRecvCancelled(t *testing.T) {
	mb := NewMailbox[int]()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mb.Recv(ctx); err != context.Canceled {
		t.Fatalf("Recv() err = %v, want %v", err, context.Canceled)
	}
}

func TestMailboxProducerConsumer(t *testing.T) {
	const total = 10_000

	mb := NewMailbox[int]()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		for i := 0; i < total; {
			if mb.TrySend(i) {
				i++
				continue
			}
			Yield()
		}
	}()
	close(start)

	for want := 0; want < total; want++ {
		got, err := mb.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv() err = %v at %d", err, want)
		}
		if got != want {
			t.Fatalf("Recv() = %d, want %d", got, want)
		}
	}

	wg.Wait()
	if n := mb.Len(); n != 0 {
		t.Fatalf("Len() = %d, want 0", n)
	}
}
