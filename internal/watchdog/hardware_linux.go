//go:build linux

package watchdog

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// Hardware is a kernel watchdog device such as /dev/watchdog. When it is not
// kicked in time the kernel reboots the board.
type Hardware struct {
	f *os.File
}

// OpenHardware opens the watchdog device. Opening it starts the countdown
// with the driver default timeout.
func OpenHardware(path string) (*Hardware, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("open watchdog %s: %w", path, err)
	}

	return &Hardware{f: f}, nil
}

// Start programs the timeout, rounded up to whole seconds.
func (h *Hardware) Start(timeout time.Duration) error {
	secs := int((timeout + time.Second - 1) / time.Second)
	if err := unix.IoctlSetPointerInt(int(h.f.Fd()), unix.WDIOC_SETTIMEOUT, secs); err != nil {
		return fmt.Errorf("set watchdog timeout %ds: %w", secs, err)
	}

	return h.Kick()
}

// Kick sends a keepalive.
func (h *Hardware) Kick() error {
	if err := unix.IoctlWatchdogKeepalive(int(h.f.Fd())); err != nil {
		return fmt.Errorf("watchdog keepalive: %w", err)
	}

	return nil
}

// Close disarms the device with the magic close character and releases it.
func (h *Hardware) Close() error {
	_, werr := h.f.Write([]byte("V"))
	return errors.Join(werr, h.f.Close())
}
