// Package motor drives the vibration motor through a PWM channel, exposing
// it as an analog output whose level is a fraction of full scale.
package motor

import "time"

// Output is an analog output.
type Output interface {
	// Write sets the output to level, a fraction of full scale in [0, 1].
	Write(level float64) error

	// Close stops the output and releases it.
	Close() error
}

// Levels written by the alert loop.
const (
	LevelOff   = 0.0
	LevelAlert = 0.5
)

// Sysfs defaults.
const (
	DefaultChip   = "/sys/class/pwm/pwmchip0"
	DefaultPeriod = 40 * time.Microsecond // 25 kHz, above audible range
)

// clamp limits level to [0, 1].
func clamp(level float64) float64 {
	switch {
	case level < 0:
		return 0
	case level > 1:
		return 1
	default:
		return level
	}
}
