package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	State         string       `json:"state"`
	Outputs       OutputsJSON  `json:"outputs"`
	Watchdog      WatchdogJSON `json:"watchdog"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	QueueDrops    uint32       `json:"queue_drops"`
	Config        ConfigJSON   `json:"config"`
}

// OutputsJSON is the JSON representation of the output peripherals.
type OutputsJSON struct {
	LED   bool    `json:"led"`
	LCD   string  `json:"lcd"`
	Motor float64 `json:"motor"`
}

// WatchdogJSON reports watchdog health.
type WatchdogJSON struct {
	TimeoutMs        int64  `json:"timeout_ms"`
	Restarts         int    `json:"restarts"`
	LastKick         string `json:"last_kick,omitempty"`
	SinceKickSeconds int64  `json:"since_kick_seconds"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Loud int `json:"loud"`
	Mute int `json:"mute"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs    int64  `json:"poll_ms"`
	Broker    string `json:"broker"`
	HTTPAddr  string `json:"http_addr"`
	Chip      string `json:"gpio_chip"`
	PinSensor int    `json:"pin_sensor"`
	PinButton int    `json:"pin_button"`
	PinLED    int    `json:"pin_led"`
	Watchdog  string `json:"watchdog_device,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	state := string(snap.Alert.State)
	if state == "" {
		state = "UNKNOWN"
	}

	wd := WatchdogJSON{
		TimeoutMs:        snap.Config.WatchdogMs,
		Restarts:         snap.Restarts,
		SinceKickSeconds: int64(snap.SinceKick().Truncate(time.Second).Seconds()),
	}
	if !snap.LastKick.IsZero() {
		wd.LastKick = snap.LastKick.UTC().Format(time.RFC3339)
	}

	return StatusInner{
		State: state,
		Outputs: OutputsJSON{
			LED:   snap.Alert.LED,
			LCD:   snap.Alert.Text,
			Motor: snap.Alert.Level,
		},
		Watchdog:      wd,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts:        CountsJSON{Loud: snap.Counts.Loud, Mute: snap.Counts.Mute},
		QueueDrops:    snap.QueueDrops,
		Config: ConfigJSON{
			PollMs:    snap.Config.PollMs,
			Broker:    snap.Config.Broker,
			HTTPAddr:  snap.Config.HTTPAddr,
			Chip:      snap.Config.Chip,
			PinSensor: snap.Config.PinSensor,
			PinButton: snap.Config.PinButton,
			PinLED:    snap.Config.PinLED,
			Watchdog:  snap.Config.Watchdog,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
