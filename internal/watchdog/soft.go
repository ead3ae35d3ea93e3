package watchdog

import (
	"context"
	"sync"
	"time"
)

// Soft is an in-process watchdog. It is evaluated on its own tick so a
// stalled poll loop cannot keep it alive.
type Soft struct {
	mu       sync.Mutex
	now      func() time.Time
	timeout  time.Duration
	deadline time.Time
	lastKick time.Time
	armed    bool
	fired    chan struct{}
	kicks    int
}

// NewSoft creates a disarmed watchdog reading time from now.
func NewSoft(now func() time.Time) *Soft {
	if now == nil {
		now = time.Now
	}

	return &Soft{now: now}
}

// Start arms the watchdog. Every Start gets a fresh Fired channel.
func (s *Soft) Start(timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now()
	s.timeout = timeout
	s.deadline = t.Add(timeout)
	s.lastKick = t
	s.armed = true
	s.fired = make(chan struct{})
	return nil
}

// Kick pushes the deadline out by one timeout. Kicking a fired or
// unstarted watchdog does nothing.
func (s *Soft) Kick() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed {
		return nil
	}

	t := s.now()
	s.deadline = t.Add(s.timeout)
	s.lastKick = t
	s.kicks++
	return nil
}

// Fired returns a channel closed when the current arming expires.
// Before the first Start it returns nil, which blocks forever in a select.
func (s *Soft) Fired() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fired
}

// Check fires the watchdog if the deadline has passed. It reports whether
// this call fired it.
func (s *Soft) Check() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.armed || s.now().Before(s.deadline) {
		return false
	}

	s.armed = false
	close(s.fired)
	return true
}

// Watch calls Check on every tick until ctx is done.
func (s *Soft) Watch(ctx context.Context, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
			s.Check()
		}
	}
}

// Kicks returns the number of kicks accepted since creation.
func (s *Soft) Kicks() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kicks
}

// LastKick returns when the countdown last restarted.
func (s *Soft) LastKick() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastKick
}
