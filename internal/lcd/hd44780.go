package lcd

import (
	"errors"
	"fmt"

	"tinygo.org/x/drivers/hd44780i2c"
)

// HD44780 is a Display backed by an HD44780 controller behind an I2C backpack.
type HD44780 struct {
	dev hd44780i2c.Device
	bus Bus
}

// NewHD44780 initialises the controller at addr on bus. The display takes
// ownership of bus: Close releases it, and so does a failed start.
func NewHD44780(bus Bus, addr uint8) (*HD44780, error) {
	h := &HD44780{dev: hd44780i2c.New(bus, addr), bus: bus}

	if err := h.dev.Configure(hd44780i2c.Config{Width: Columns, Height: Rows}); err != nil {
		return nil, errors.Join(fmt.Errorf("configure hd44780: %w", err), bus.Close())
	}
	if err := bus.Err(); err != nil {
		return nil, errors.Join(fmt.Errorf("configure hd44780 at 0x%02x: %w", addr, err), bus.Close())
	}

	return h, nil
}

// Clear blanks the display.
func (h *HD44780) Clear() error {
	h.dev.ClearDisplay()
	return h.bus.Err()
}

// SetCursor moves the write position.
func (h *HD44780) SetCursor(col, row uint8) error {
	h.dev.SetCursor(col, row)
	return h.bus.Err()
}

// Print writes text at the cursor.
func (h *HD44780) Print(text string) error {
	h.dev.Print([]byte(text))
	return h.bus.Err()
}

// Close blanks the display, switches the backlight off and releases the bus.
func (h *HD44780) Close() error {
	h.dev.ClearDisplay()
	h.dev.BacklightOn(false)
	return errors.Join(h.bus.Err(), h.bus.Close())
}

var _ Bus = (*DevBus)(nil)
