// Package alert owns the alert state and the writes that make the outputs
// reflect it. It has no knowledge of sensors, buttons or the watchdog.
package alert

import "time"

// State is the alert state shown on the outputs.
type State string

const (
	StateQuiet State = "QUIET"
	StateLoud  State = "LOUD"
)

// LCD messages. The boot and mute messages differ by one dot.
const (
	MessageBoot = "Quiet.."
	MessageLoud = "LOUD.."
	MessageMute = "Quiet..."
)

// Source says what caused a transition.
type Source string

const (
	SourceBoot   Source = "boot"
	SourceSensor Source = "sensor"
	SourceButton Source = "button"
)

// Event describes a state transition.
type Event struct {
	Timestamp time.Time
	State     State
	Source    Source
	Message   string
}

// Snapshot is the last set of values written to the outputs.
type Snapshot struct {
	State State
	LED   bool
	Text  string
	Level float64
}

// Transition is the outcome of one output write.
type Transition struct {
	Snapshot
	Source  Source
	Changed bool
}
