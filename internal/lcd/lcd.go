// Package lcd drives the 16x2 character display that shows the alert status.
package lcd

import "tinygo.org/x/drivers"

// Display geometry.
const (
	Columns = 16
	Rows    = 2
)

// Defaults for a PCF8574 backpack on the Pi's primary I2C bus.
const (
	DefaultBus     = "/dev/i2c-1"
	DefaultAddress = 0x27
)

// Display is a character display addressed by cursor position.
type Display interface {
	// Clear blanks every cell and homes the cursor.
	Clear() error

	// SetCursor moves the write position.
	SetCursor(col, row uint8) error

	// Print writes text from the cursor position onwards.
	Print(text string) error

	// Close releases the display.
	Close() error
}

// Bus is an I2C bus that keeps the first failed transfer since the last
// call to Err. The character driver ignores Tx errors, so they are
// collected here instead.
type Bus interface {
	drivers.I2C

	// Err returns and clears the pending transfer error.
	Err() error

	// Close releases the bus.
	Close() error
}
