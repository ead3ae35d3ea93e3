package motor

import "sync"

// FakeOutput records levels written to it.
type FakeOutput struct {
	mu     sync.Mutex
	levels []float64

	// WriteError, if set, is returned by Write and the level is not recorded.
	WriteError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeOutput creates a FakeOutput at level 0.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Write records level.
func (f *FakeOutput) Write(level float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.WriteError != nil {
		return f.WriteError
	}
	f.levels = append(f.levels, clamp(level))
	return nil
}

// Level returns the last level written, or 0.
func (f *FakeOutput) Level() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.levels) == 0 {
		return 0
	}
	return f.levels[len(f.levels)-1]
}

// Levels returns every level written, in order.
func (f *FakeOutput) Levels() []float64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]float64(nil), f.levels...)
}

// Close marks the output closed.
func (f *FakeOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Closed = true
	return nil
}
