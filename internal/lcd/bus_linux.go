//go:build linux

package lcd

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// i2cSlave is the I2C_SLAVE ioctl from <linux/i2c-dev.h>.
const i2cSlave = 0x0703

// DevBus is a Linux i2c-dev bus (/dev/i2c-N).
type DevBus struct {
	mu   sync.Mutex
	f    *os.File
	addr uint16
	err  error
}

// OpenBus opens the i2c-dev node at path.
func OpenBus(path string) (*DevBus, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %s: %w", path, err)
	}

	return &DevBus{f: f}, nil
}

// Tx writes w then reads into r on the device at addr.
func (b *DevBus) Tx(addr uint16, w, r []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.tx(addr, w, r); err != nil {
		if b.err == nil {
			b.err = err
		}
		return err
	}

	return nil
}

func (b *DevBus) tx(addr uint16, w, r []byte) error {
	if b.addr != addr {
		if err := unix.IoctlSetInt(int(b.f.Fd()), i2cSlave, int(addr)); err != nil {
			return fmt.Errorf("select i2c device 0x%02x: %w", addr, err)
		}
		b.addr = addr
	}

	if len(w) > 0 {
		if _, err := b.f.Write(w); err != nil {
			return fmt.Errorf("i2c write 0x%02x: %w", addr, err)
		}
	}

	if len(r) > 0 {
		if _, err := b.f.Read(r); err != nil {
			return fmt.Errorf("i2c read 0x%02x: %w", addr, err)
		}
	}

	return nil
}

// Err returns and clears the first failed transfer.
func (b *DevBus) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.err
	b.err = nil
	return err
}

// Close releases the bus.
func (b *DevBus) Close() error {
	return b.f.Close()
}
