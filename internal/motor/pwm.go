package motor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// PWM is a Linux sysfs PWM channel
// (see Documentation/ABI/testing/sysfs-class-pwm).
type PWM struct {
	chip    string
	channel int
	period  time.Duration
	dir     string
}

// OpenPWM exports channel on chip if needed, programs the period, and
// enables the channel at zero duty.
func OpenPWM(chip string, channel int, period time.Duration) (*PWM, error) {
	if period <= 0 {
		return nil, errors.New("pwm period must be positive")
	}

	p := &PWM{
		chip:    chip,
		channel: channel,
		period:  period,
		dir:     filepath.Join(chip, "pwm"+strconv.Itoa(channel)),
	}

	if _, err := os.Stat(p.dir); err != nil {
		if err := write(filepath.Join(chip, "export"), strconv.Itoa(channel)); err != nil {
			return nil, fmt.Errorf("export pwm channel %d: %w", channel, err)
		}
	}

	// duty_cycle must not exceed period, so zero it before changing period.
	if err := p.set("duty_cycle", "0"); err != nil {
		return nil, err
	}
	if err := p.set("period", strconv.FormatInt(period.Nanoseconds(), 10)); err != nil {
		return nil, err
	}
	if err := p.set("polarity", "normal"); err != nil {
		return nil, err
	}
	if err := p.set("enable", "1"); err != nil {
		return nil, err
	}

	return p, nil
}

// Write sets the duty cycle to level of the period.
func (p *PWM) Write(level float64) error {
	duty := int64(clamp(level) * float64(p.period.Nanoseconds()))
	return p.set("duty_cycle", strconv.FormatInt(duty, 10))
}

// Close stops the motor, disables the channel and unexports it.
func (p *PWM) Close() error {
	var errs []error
	if err := p.set("duty_cycle", "0"); err != nil {
		errs = append(errs, err)
	}
	if err := p.set("enable", "0"); err != nil {
		errs = append(errs, err)
	}
	if err := write(filepath.Join(p.chip, "unexport"), strconv.Itoa(p.channel)); err != nil {
		errs = append(errs, fmt.Errorf("unexport pwm channel %d: %w", p.channel, err))
	}

	return errors.Join(errs...)
}

func (p *PWM) set(attr, value string) error {
	if err := write(filepath.Join(p.dir, attr), value); err != nil {
		return fmt.Errorf("pwm %s: %w", attr, err)
	}
	return nil
}

func write(path, value string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	n, err := f.WriteString(value)
	if err != nil {
		return err
	}
	if n < len(value) {
		return io.ErrShortWrite
	}

	return nil
}
