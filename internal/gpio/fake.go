package gpio

import (
	"errors"
	"sync"
)

// FakeInput is a test double that returns scripted line levels.
type FakeInput struct {
	mu sync.Mutex

	// Samples contains scripted levels to return.
	// Each call to Read() consumes the next sample.
	Samples []bool

	// index tracks current position in Samples
	index int

	// reads counts calls to Read
	reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeInput creates a FakeInput with the given samples.
func NewFakeInput(samples ...bool) *FakeInput {
	return &FakeInput{Samples: samples}
}

// Read returns the next scripted sample.
// If samples are exhausted, returns the last sample repeatedly.
func (f *FakeInput) Read() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reads++

	if f.ReadError != nil {
		return false, f.ReadError
	}

	if len(f.Samples) == 0 {
		return false, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	return sample, nil
}

// Reads returns how many times Read was called.
func (f *FakeInput) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Close marks the input as closed.
func (f *FakeInput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// SetLevel replaces the script with a single level returned from now on.
func (f *FakeInput) SetLevel(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Samples = []bool{on}
	f.index = 0
}

// Reset rewinds the input to the first sample.
func (f *FakeInput) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.index = 0
	f.reads = 0
	f.Closed = false
}

// FakeOutput records the level written to a line.
type FakeOutput struct {
	mu sync.Mutex

	on     bool
	writes int

	// SetError, if set, is returned by Set and the level is left unchanged.
	SetError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeOutput creates a FakeOutput driven low.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// Set records the new level.
func (f *FakeOutput) Set(on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.writes++
	if f.SetError != nil {
		return f.SetError
	}

	f.on = on
	return nil
}

// On reports the last level successfully written.
func (f *FakeOutput) On() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.on
}

// Writes returns how many times Set was called.
func (f *FakeOutput) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// FakeButton stands in for an edge-triggered button line.
type FakeButton struct {
	handler EdgeHandler
	level   bool
}

// NewFakeButton creates a button that calls handler on each Press.
func NewFakeButton(handler EdgeHandler) *FakeButton {
	return &FakeButton{handler: handler}
}

// Press simulates a rising edge followed by release.
func (b *FakeButton) Press() {
	b.level = true
	if b.handler != nil {
		b.handler()
	}
	b.level = false
}

// Read returns the current button level.
func (b *FakeButton) Read() (bool, error) {
	return b.level, nil
}

// Close is a no-op.
func (b *FakeButton) Close() error {
	return nil
}
