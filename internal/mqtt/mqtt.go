// Package mqtt publishes alert transitions and lifecycle events, with an
// abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/noise-alert/internal/alert"
)

// Topic is the MQTT topic for alert transitions.
const Topic = "noise-alert/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "noise-alert/system"

// ClientID identifies the daemon to the broker.
const ClientID = "noise-alert"

// Lifecycle event names.
const (
	EventStartup       = "STARTUP"
	EventWatchdogReset = "WATCHDOG_RESET"
	EventShutdown      = "SHUTDOWN"
	EventOffline       = "OFFLINE"
)

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an alert transition to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event alert.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a lifecycle event (startup, watchdog reset, shutdown).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Alert AlertPayload `json:"alert"`
}

// AlertPayload contains the transition details.
type AlertPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Source    string `json:"source"`
	Display   string `json:"display"`
}

// FormatPayload creates the JSON payload for an alert transition.
func FormatPayload(event alert.Event) ([]byte, error) {
	payload := Payload{
		Alert: AlertPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.State),
			Source:    string(event.Source),
			Display:   event.Message,
		},
	}
	return json.Marshal(payload)
}

// SystemPayload is used for simple events (LWT) that don't carry a full
// status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
