// Package watchdog supervises the alert loop. A timer that is not kicked
// within its timeout fires, and the owner treats that as a hard reset.
package watchdog

import "time"

// Timeout is the supervision window. It is fixed, not configurable.
const Timeout = 30 * time.Second

// CheckInterval is how often the soft watchdog deadline is evaluated.
const CheckInterval = 100 * time.Millisecond

// HardwareTimeout is given to a kernel watchdog running alongside the soft
// one. It outlasts the soft watchdog's worst-case detection so an unkicked
// alert restarts the loop in-process, and the kernel only resets the board
// when the process itself stops.
const HardwareTimeout = Timeout + 2*time.Second

// Timer is a watchdog that must be kicked at least once per timeout.
type Timer interface {
	// Start arms the timer with the given timeout.
	Start(timeout time.Duration) error

	// Kick restarts the countdown.
	Kick() error
}
