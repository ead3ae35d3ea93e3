package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/noise-alert/internal/alert"
)

func TestFormatPayload(t *testing.T) {
	event := alert.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		State:     alert.StateLoud,
		Source:    alert.SourceSensor,
		Message:   alert.MessageLoud,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Alert.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Alert.Timestamp)
	}
	if parsed.Alert.Event != "LOUD" {
		t.Errorf("unexpected event: %s", parsed.Alert.Event)
	}
	if parsed.Alert.Source != "sensor" {
		t.Errorf("unexpected source: %s", parsed.Alert.Source)
	}
	if parsed.Alert.Display != "LOUD.." {
		t.Errorf("unexpected display: %s", parsed.Alert.Display)
	}
}

func TestFormatPayloadExactJSON(t *testing.T) {
	event := alert.Event{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		State:     alert.StateQuiet,
		Source:    alert.SourceButton,
		Message:   alert.MessageMute,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"alert":{"timestamp":"2026-02-02T22:18:12Z","event":"QUIET","source":"button","display":"Quiet..."}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFormatPayloadTimezoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	event := alert.Event{
		Timestamp: time.Date(2026, 2, 3, 0, 18, 12, 0, loc),
		State:     alert.StateLoud,
		Source:    alert.SourceSensor,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Alert.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("expected UTC timestamp, got %s", parsed.Alert.Timestamp)
	}
}

func TestTopics(t *testing.T) {
	if Topic != "noise-alert/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "noise-alert/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	tests := []struct {
		name     string
		event    SystemEvent
		expected string
	}{
		{
			name:     "startup omits reason",
			event:    SystemEvent{Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC), Event: EventStartup},
			expected: `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"STARTUP"}}`,
		},
		{
			name:     "watchdog reset",
			event:    SystemEvent{Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC), Event: EventWatchdogReset},
			expected: `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"WATCHDOG_RESET"}}`,
		},
		{
			name:     "shutdown with signal",
			event:    SystemEvent{Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC), Event: EventShutdown, Reason: "SIGTERM"},
			expected: `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := FormatSystemPayload(tt.event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(payload) != tt.expected {
				t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), tt.expected)
			}
		})
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":"ok"}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: EventStartup, RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload, got %s", payload)
	}
}

func TestWillPayloadFormat(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 10, 8, 30, 0, 0, time.UTC),
		Event:     EventOffline,
		Reason:    "MQTT_DISCONNECT",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"system":{"timestamp":"2026-02-10T08:30:00Z","event":"OFFLINE","reason":"MQTT_DISCONNECT"}}`
	if string(payload) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", string(payload), expected)
	}
}

func TestFakePublisher(t *testing.T) {
	pub := NewFakePublisher()

	events := []alert.Event{
		{Timestamp: time.Now(), State: alert.StateLoud, Source: alert.SourceSensor, Message: alert.MessageLoud},
		{Timestamp: time.Now(), State: alert.StateQuiet, Source: alert.SourceButton, Message: alert.MessageMute},
	}
	for _, e := range events {
		if err := pub.Publish(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	got := pub.Events()
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].State != alert.StateLoud || got[1].State != alert.StateQuiet {
		t.Errorf("events out of order: %v", got)
	}
	if len(pub.Payloads()) != 2 {
		t.Errorf("expected 2 payloads, got %d", len(pub.Payloads()))
	}
}

func TestFakePublisherError(t *testing.T) {
	pub := NewFakePublisher()
	pub.PublishError = errors.New("connection failed")

	err := pub.Publish(alert.Event{State: alert.StateLoud})
	if err == nil {
		t.Error("expected error")
	}
	if len(pub.Events()) != 0 {
		t.Error("event should not be recorded on error")
	}
}

func TestFakePublisherPublishSystem(t *testing.T) {
	pub := NewFakePublisher()

	if err := pub.PublishSystem(SystemEvent{Event: EventStartup, Retained: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pub.PublishSystemError = errors.New("broker down")
	if err := pub.PublishSystem(SystemEvent{Event: EventShutdown}); err == nil {
		t.Error("expected error")
	}

	got := pub.SystemEvents()
	if len(got) != 1 {
		t.Fatalf("expected 1 system event, got %d", len(got))
	}
	if got[0].Event != EventStartup {
		t.Errorf("expected STARTUP, got %s", got[0].Event)
	}
	if !got[0].Retained {
		t.Error("expected retained flag to be recorded")
	}
}

func TestFakePublisherCloseAndReset(t *testing.T) {
	pub := NewFakePublisher()
	pub.Connected = true
	_ = pub.Publish(alert.Event{State: alert.StateLoud})
	_ = pub.PublishSystem(SystemEvent{Event: EventStartup})

	if err := pub.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !pub.Closed {
		t.Error("expected Closed to be true")
	}
	if !pub.IsConnected() {
		t.Error("expected IsConnected to be true")
	}

	pub.Reset()

	if len(pub.Events()) != 0 || len(pub.SystemEvents()) != 0 {
		t.Error("expected no recorded events after reset")
	}
	if pub.Closed || pub.IsConnected() {
		t.Error("expected flags cleared after reset")
	}

	if err := pub.Publish(alert.Event{State: alert.StateQuiet}); err != nil {
		t.Fatalf("unexpected error after reset: %v", err)
	}
	if len(pub.Events()) != 1 {
		t.Errorf("expected publisher reusable after reset")
	}
}
