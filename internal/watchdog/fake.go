package watchdog

import (
	"sync"
	"time"
)

// FakeTimer records Start and Kick calls.
type FakeTimer struct {
	mu     sync.Mutex
	starts []time.Duration
	kicks  int

	// KickError, if set, is returned by Kick.
	KickError error
}

// Start records timeout.
func (f *FakeTimer) Start(timeout time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.starts = append(f.starts, timeout)
	return nil
}

// Kick records a kick.
func (f *FakeTimer) Kick() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.kicks++
	return f.KickError
}

// Starts returns every timeout passed to Start.
func (f *FakeTimer) Starts() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]time.Duration(nil), f.starts...)
}

// Kicks returns the number of Kick calls.
func (f *FakeTimer) Kicks() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.kicks
}
