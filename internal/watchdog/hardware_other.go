//go:build !linux

package watchdog

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("watchdog: kernel watchdog not supported on this platform (requires Linux)")

// Hardware is not available on non-Linux platforms.
type Hardware struct{}

// OpenHardware returns an error on non-Linux platforms.
func OpenHardware(string) (*Hardware, error) { return nil, errUnsupported }

// Start is not implemented on non-Linux platforms.
func (h *Hardware) Start(time.Duration) error { return errUnsupported }

// Kick is not implemented on non-Linux platforms.
func (h *Hardware) Kick() error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (h *Hardware) Close() error { return nil }
