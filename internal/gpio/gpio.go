// Package gpio provides digital input and output lines with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementations allow testing without hardware.
package gpio

// Input reads a single digital line.
type Input interface {
	// Read returns true when the line is high.
	Read() (bool, error)

	// Close releases the line.
	Close() error
}

// Output drives a single digital line.
type Output interface {
	// Set drives the line high (true) or low (false).
	Set(on bool) error

	// Close releases the line.
	Close() error
}

// EdgeHandler is called once per rising edge from the line's event context.
// It must return quickly and never block.
type EdgeHandler func()

// Chip and line defaults (BCM numbering on gpiochip0).
const (
	DefaultChip      = "gpiochip0"
	DefaultPinSensor = 17 // audio threshold sensor digital out
	DefaultPinButton = 27 // mute button
	DefaultPinLED    = 22 // alert LED
)
