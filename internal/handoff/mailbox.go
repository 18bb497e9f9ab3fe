// Package handoff carries pointer coordinates from the input goroutine to the
// render goroutine.
package handoff

import (
	"context"
	"sync/atomic"
)

// Mailbox is a single-slot cell where the most recent value wins. A value
// that is overwritten before it is taken is never delivered.
//
// Any number of goroutines may Put; Take is meant for a single consumer.
type Mailbox[T any] struct {
	slot atomic.Pointer[T]
	wake chan struct{}
}

// NewMailbox returns an empty mailbox.
func NewMailbox[T any]() *Mailbox[T] {
	return &Mailbox[T]{wake: make(chan struct{}, 1)}
}

// Put stores v, replacing any value not yet taken. It never blocks.
func (m *Mailbox[T]) Put(v T) {
	m.slot.Store(&v)
	select {
	case m.wake <- struct{}{}:
	default:
		// A wakeup is already pending; the consumer will see the new value.
	}
}

// TryTake removes and returns the current value, if any.
func (m *Mailbox[T]) TryTake() (T, bool) {
	if p := m.slot.Swap(nil); p != nil {
		return *p, true
	}
	var zero T
	return zero, false
}

// Take blocks until a value is available or ctx is done.
func (m *Mailbox[T]) Take(ctx context.Context) (T, error) {
	for {
		if v, ok := m.TryTake(); ok {
			return v, nil
		}
		select {
		case <-m.wake:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}
