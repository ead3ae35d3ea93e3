//go:build !linux

package lcd

import "errors"

var errUnsupported = errors.New("lcd: i2c-dev not supported on this platform (requires Linux)")

// DevBus is not available on non-Linux platforms.
type DevBus struct{}

// OpenBus returns an error on non-Linux platforms.
func OpenBus(string) (*DevBus, error) { return nil, errUnsupported }

// Tx is not implemented on non-Linux platforms.
func (b *DevBus) Tx(uint16, []byte, []byte) error { return errUnsupported }

// Err is not implemented on non-Linux platforms.
func (b *DevBus) Err() error { return nil }

// Close is not implemented on non-Linux platforms.
func (b *DevBus) Close() error { return nil }
