//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealInput reads a line from actual hardware using the Linux GPIO character device.
type RealInput struct {
	line *gpiocdev.Line
}

// NewRealInput requests offset on chip as an input with pull-down.
func NewRealInput(chip string, offset int) (*RealInput, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		return nil, fmt.Errorf("request input line %s:%d: %w", chip, offset, err)
	}

	return &RealInput{line: line}, nil
}

// Read returns true when the line is high.
func (r *RealInput) Read() (bool, error) {
	v, err := r.line.Value()
	if err != nil {
		return false, fmt.Errorf("read line: %w", err)
	}

	return v == 1, nil
}

// Close releases the line.
func (r *RealInput) Close() error {
	return closeLine(r.line)
}

// RealOutput drives a line on actual hardware.
type RealOutput struct {
	line *gpiocdev.Line
}

// NewRealOutput requests offset on chip as an output, initially low.
func NewRealOutput(chip string, offset int) (*RealOutput, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0))
	if err != nil {
		return nil, fmt.Errorf("request output line %s:%d: %w", chip, offset, err)
	}

	return &RealOutput{line: line}, nil
}

// Set drives the line high or low.
func (o *RealOutput) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}

	if err := o.line.SetValue(v); err != nil {
		return fmt.Errorf("set line: %w", err)
	}

	return nil
}

// Close drives the line low and reverts it to an input before releasing it.
func (o *RealOutput) Close() error {
	var errs []error
	if err := o.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("drive low: %w", err))
	}
	if err := closeLine(o.line); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// RealButton watches a line for rising edges.
// The handler runs on the gpiocdev watcher goroutine.
type RealButton struct {
	line *gpiocdev.Line
}

// NewRealButton requests offset on chip with rising-edge detection and calls
// handler for each edge. No debounce is applied.
func NewRealButton(chip string, offset int, handler EdgeHandler) (*RealButton, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			handler()
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("request button line %s:%d: %w", chip, offset, err)
	}

	return &RealButton{line: line}, nil
}

// Read returns the current button level.
func (b *RealButton) Read() (bool, error) {
	v, err := b.line.Value()
	if err != nil {
		return false, fmt.Errorf("read button: %w", err)
	}

	return v == 1, nil
}

// Close stops edge detection and releases the line.
func (b *RealButton) Close() error {
	return closeLine(b.line)
}

// closeLine reconfigures the line to input with pull-down (matching Pi boot
// defaults) before closing, so nothing is left driven across a reboot.
func closeLine(line *gpiocdev.Line) error {
	if line == nil {
		return nil
	}

	var errs []error
	if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure line: %w", err))
	}
	if err := line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close line: %w", err))
	}

	return errors.Join(errs...)
}
