// Package status provides a thread-safe status tracker for the noise-alert daemon.
// It is read by the HTTP handlers and by MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/noise-alert/internal/alert"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs     int64
	WatchdogMs int64
	Broker     string
	HTTPAddr   string
	Chip       string
	PinSensor  int
	PinButton  int
	PinLED     int
	Watchdog   string // Hardware watchdog device (empty = soft only)
}

// Counts tallies transitions since the daemon started.
type Counts struct {
	Loud int
	Mute int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Alert         alert.Snapshot
	Counts        Counts
	Restarts      int
	QueueDrops    uint32
	LastKick      time.Time
	StartTime     time.Time
	BootTime      time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// SinceKick returns how long the watchdog has gone without a kick, measured
// from the last kick or, if none happened this boot, from the boot itself.
func (s Snapshot) SinceKick() time.Duration {
	from := s.BootTime
	if s.LastKick.After(from) {
		from = s.LastKick
	}
	if from.IsZero() {
		return 0
	}
	return s.Now.Sub(from)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// SetClock replaces the clock used to stamp snapshots.
func (t *Tracker) SetClock(now func() time.Time) {
	t.mu.Lock()
	t.now = now
	t.mu.Unlock()
}

// SetAlert records the values last written to the outputs.
func (t *Tracker) SetAlert(a alert.Snapshot) {
	t.mu.Lock()
	t.snap.Alert = a
	t.mu.Unlock()
}

// CountLoud records a QUIET to LOUD transition.
func (t *Tracker) CountLoud() {
	t.mu.Lock()
	t.snap.Counts.Loud++
	t.mu.Unlock()
}

// CountMute records a button press that reached the mute worker.
func (t *Tracker) CountMute() {
	t.mu.Lock()
	t.snap.Counts.Mute++
	t.mu.Unlock()
}

// SetBoot records a boot. Every boot after the first is a watchdog restart.
func (t *Tracker) SetBoot(at time.Time, restarts int) {
	t.mu.Lock()
	t.snap.BootTime = at
	t.snap.Restarts = restarts
	t.snap.LastKick = time.Time{}
	t.mu.Unlock()
}

// SetKick records the time of the last watchdog kick.
func (t *Tracker) SetKick(at time.Time) {
	t.mu.Lock()
	t.snap.LastKick = at
	t.mu.Unlock()
}

// SetQueueDrops records how many button events were dropped on a full queue.
func (t *Tracker) SetQueueDrops(n uint32) {
	t.mu.Lock()
	t.snap.QueueDrops = n
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	now := t.now
	t.mu.RUnlock()
	s.Now = now()
	return s
}
