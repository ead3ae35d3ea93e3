// Package event hands work from interrupt context to a single worker
// goroutine. Producers never block: when the queue is full the event is
// dropped and counted.
package event

import (
	"context"
	"sync/atomic"
)

// DefaultSize is the queue capacity used by the daemon.
const DefaultSize = 32

// Func is a deferred callback run on the worker goroutine.
type Func func(ctx context.Context)

// Queue is a bounded single-consumer callback queue.
type Queue struct {
	ch    chan Func
	drops atomic.Uint32
}

// NewQueue creates a queue holding up to size pending callbacks.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultSize
	}

	return &Queue{ch: make(chan Func, size)}
}

// Post enqueues fn without blocking. It reports false if the queue was full.
func (q *Queue) Post(fn Func) bool {
	select {
	case q.ch <- fn:
		return true
	default:
		q.drops.Add(1)
		return false
	}
}

// Dispatch runs queued callbacks one at a time until ctx is done.
func (q *Queue) Dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-q.ch:
			fn(ctx)
		}
	}
}

// Drain discards pending callbacks and returns how many were dropped.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case <-q.ch:
			n++
		default:
			return n
		}
	}
}

// Len returns the number of pending callbacks.
func (q *Queue) Len() int {
	return len(q.ch)
}

// Drops returns how many posts were rejected because the queue was full.
func (q *Queue) Drops() uint32 {
	return q.drops.Load()
}
