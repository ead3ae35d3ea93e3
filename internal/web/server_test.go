package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/noise-alert/internal/alert"
	"github.com/sweeney/noise-alert/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:     5,
		WatchdogMs: 30000,
		Broker:     "tcp://192.168.1.200:1883",
		HTTPAddr:   ":80",
		Chip:       "gpiochip0",
		PinSensor:  17,
		PinButton:  27,
		PinLED:     22,
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}
	return sj
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetAlert(alert.Snapshot{State: alert.StateLoud, LED: true, Text: alert.MessageLoud, Level: 0.5})
	tr.CountLoud()
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.State != "LOUD" {
		t.Errorf("State: got %q, want LOUD", sj.Status.State)
	}
	if !sj.Status.Outputs.LED {
		t.Error("expected LED on")
	}
	if sj.Status.Outputs.LCD != "LOUD.." {
		t.Errorf("LCD: got %q, want LOUD..", sj.Status.Outputs.LCD)
	}
	if sj.Status.Outputs.Motor != 0.5 {
		t.Errorf("Motor: got %v, want 0.5", sj.Status.Outputs.Motor)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.Counts.Loud != 1 {
		t.Errorf("Counts.Loud: got %d, want 1", sj.Status.Counts.Loud)
	}
	if sj.Status.Watchdog.TimeoutMs != 30000 {
		t.Errorf("Watchdog.TimeoutMs: got %d, want 30000", sj.Status.Watchdog.TimeoutMs)
	}
	if sj.Status.Config.PollMs != 5 {
		t.Errorf("Config.PollMs: got %d, want 5", sj.Status.Config.PollMs)
	}
}

func TestJSONUnknownStateBeforeBoot(t *testing.T) {
	ts, _ := newTestServer(t)

	sj := getJSON(t, ts.URL+"/index.json")
	if sj.Status.State != "UNKNOWN" {
		t.Errorf("State before boot: got %q, want UNKNOWN", sj.Status.State)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.SetAlert(alert.Snapshot{State: alert.StateQuiet, Text: alert.MessageMute})
	tr.SetBoot(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 3)

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	page := string(body)
	for _, want := range []string{"Noise Alert", "QUIET", "Quiet...", "<td>3</td>", "tcp://192.168.1.200:1883"} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	tr.SetAlert(alert.Snapshot{State: alert.StateQuiet, Text: alert.MessageBoot})
	sj1 := getJSON(t, ts.URL+"/index.json")
	if sj1.Status.State != "QUIET" {
		t.Errorf("State: got %q, want QUIET", sj1.Status.State)
	}

	tr.SetAlert(alert.Snapshot{State: alert.StateLoud, LED: true, Text: alert.MessageLoud, Level: 0.5})
	tr.SetMQTTConnected(true)

	sj2 := getJSON(t, ts.URL+"/index.json")
	if sj2.Status.State != "LOUD" {
		t.Errorf("State: got %q, want LOUD", sj2.Status.State)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}
