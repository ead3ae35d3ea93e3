// Package monitor runs the noise alert: it polls the sensor, hands button
// presses to the mute worker and restarts itself when the watchdog expires.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/noise-alert/internal/alert"
	"github.com/sweeney/noise-alert/internal/event"
	"github.com/sweeney/noise-alert/internal/gpio"
	"github.com/sweeney/noise-alert/internal/lcd"
	"github.com/sweeney/noise-alert/internal/logger"
	"github.com/sweeney/noise-alert/internal/motor"
	"github.com/sweeney/noise-alert/internal/mqtt"
	"github.com/sweeney/noise-alert/internal/status"
	"github.com/sweeney/noise-alert/internal/watchdog"
)

// Banner is logged at the start of every boot.
const Banner = "-----------START----------"

// ErrWatchdogReset is returned by a run when the watchdog expired.
var ErrWatchdogReset = errors.New("watchdog expired")

// Peripherals are the hardware capabilities the device drives.
type Peripherals struct {
	Sensor  gpio.Input
	LED     gpio.Output
	Display lcd.Display
	Motor   motor.Output

	// Watchdog decides when the run loop is restarted.
	Watchdog *watchdog.Soft

	// Hardware, if set, is started with watchdog.HardwareTimeout and kicked
	// alongside Watchdog.
	Hardware watchdog.Timer
}

// Options are the optional collaborators of a Device.
type Options struct {
	Publisher mqtt.Publisher        // nil disables notifications
	MQTT      mqtt.ConnectionStatus // nil reports disconnected
	Tracker   *status.Tracker       // nil creates a private tracker
	Now       func() time.Time
	QueueSize int
}

// Device owns the peripherals, the alert state and the mute queue.
type Device struct {
	sensor   gpio.Input
	soft     *watchdog.Soft
	hardware watchdog.Timer
	actuator *alert.Actuator
	queue    *event.Queue

	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	now        func() time.Time

	restarts atomic.Int32
}

// New creates a Device. Nothing is written to the peripherals until Run.
func New(p Peripherals, opts Options) (*Device, error) {
	switch {
	case p.Sensor == nil:
		return nil, errors.New("sensor input is required")
	case p.LED == nil:
		return nil, errors.New("led output is required")
	case p.Display == nil:
		return nil, errors.New("display is required")
	case p.Motor == nil:
		return nil, errors.New("motor output is required")
	case p.Watchdog == nil:
		return nil, errors.New("watchdog is required")
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	tracker := opts.Tracker
	if tracker == nil {
		tracker = status.NewTracker(now(), status.Config{})
		tracker.SetClock(now)
	}

	d := &Device{
		sensor:   p.Sensor,
		soft:     p.Watchdog,
		hardware: p.Hardware,
		actuator: alert.NewActuator(alert.Outputs{
			LED:     p.LED,
			Display: p.Display,
			Motor:   p.Motor,
		}),
		queue:      event.NewQueue(opts.QueueSize),
		publisher:  opts.Publisher,
		mqttStatus: opts.MQTT,
		tracker:    tracker,
		now:        now,
	}
	d.actuator.Observe(d.observe)

	return d, nil
}

// ButtonPressed queues a mute. It never blocks and is safe to call from the
// GPIO edge handler; it reports false if the press was dropped.
func (d *Device) ButtonPressed() bool {
	if d.queue.Post(d.mute) {
		return true
	}
	d.tracker.SetQueueDrops(d.queue.Drops())
	return false
}

// State returns the current alert state.
func (d *Device) State() alert.State {
	return d.actuator.State()
}

// Restarts returns how many times the watchdog restarted the run loop.
func (d *Device) Restarts() int {
	return int(d.restarts.Load())
}

// Drops returns how many button presses were dropped on a full queue.
func (d *Device) Drops() uint32 {
	return d.queue.Drops()
}

// Run boots the device and polls the sensor on every tick until ctx is done.
// A watchdog expiry reboots the device in place.
func (d *Device) Run(ctx context.Context, tick <-chan time.Time) error {
	reason := mqtt.EventStartup

	for {
		if err := d.boot(ctx, reason); err != nil {
			return err
		}

		err := d.runOnce(ctx, tick)
		if errors.Is(err, ErrWatchdogReset) {
			d.restarts.Add(1)
			logger.WarnKV(ctx, "watchdog expired, restarting",
				"timeout", watchdog.Timeout, "restarts", d.restarts.Load())
			reason = mqtt.EventWatchdogReset
			continue
		}

		d.shutdown(ctx)
		return err
	}
}

func (d *Device) boot(ctx context.Context, reason string) error {
	logger.Info(ctx, Banner)

	if n := d.queue.Drain(); n > 0 {
		logger.InfoKV(ctx, "discarded pending button presses", "count", n)
	}

	d.actuator.Boot(ctx)

	if err := d.soft.Start(watchdog.Timeout); err != nil {
		return fmt.Errorf("start watchdog: %w", err)
	}
	if d.hardware != nil {
		if err := d.hardware.Start(watchdog.HardwareTimeout); err != nil {
			return fmt.Errorf("start hardware watchdog: %w", err)
		}
	}

	d.tracker.SetBoot(d.now(), d.Restarts())
	d.publishSystem(ctx, reason, "")

	logger.InfoKV(ctx, "booted", "state", d.actuator.State(), "reason", reason)
	return nil
}

func (d *Device) runOnce(ctx context.Context, tick <-chan time.Time) error {
	workerCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.queue.Dispatch(logger.WithName(workerCtx, "mute"))
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	fired := d.soft.Fired()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-fired:
			return ErrWatchdogReset
		case <-tick:
			d.poll(ctx)
		}
	}
}

func (d *Device) poll(ctx context.Context) {
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}

	high, err := d.sensor.Read()
	if err != nil {
		logger.WarnKV(ctx, "sensor read failed", "error", err)
		return
	}
	if !high {
		return
	}

	if _, changed := d.actuator.Loud(ctx); changed {
		logger.InfoKV(ctx, "noise detected", "state", alert.StateLoud)
	}
}

func (d *Device) mute(ctx context.Context) {
	_, changed := d.actuator.Quiet(ctx)

	if err := d.soft.Kick(); err != nil {
		logger.WarnKV(ctx, "watchdog kick failed", "error", err)
	}
	if d.hardware != nil {
		if err := d.hardware.Kick(); err != nil {
			logger.WarnKV(ctx, "hardware watchdog kick failed", "error", err)
		}
	}

	d.tracker.CountMute()
	d.tracker.SetKick(d.soft.LastKick())

	logger.InfoKV(ctx, "muted", "changed", changed)
}

// observe runs under the actuator lock, so the tracker and the published
// transitions follow the order the outputs were written in.
func (d *Device) observe(ctx context.Context, tr alert.Transition) {
	d.tracker.SetAlert(tr.Snapshot)

	if !tr.Changed || tr.Source == alert.SourceBoot {
		return
	}
	if tr.State == alert.StateLoud {
		d.tracker.CountLoud()
	}
	d.publish(ctx, tr)
}

func (d *Device) shutdown(ctx context.Context) {
	reason := ""
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		reason = cause.Error()
	}
	logger.InfoKV(ctx, "shutting down", "reason", reason)
	d.publishSystem(ctx, mqtt.EventShutdown, reason)
}

// publish hands tr to the publisher, which must not block: it is called
// with the output lock held.
func (d *Device) publish(ctx context.Context, tr alert.Transition) {
	if d.publisher == nil {
		return
	}

	ev := alert.Event{
		Timestamp: d.now(),
		State:     tr.State,
		Source:    tr.Source,
		Message:   tr.Text,
	}
	if err := d.publisher.Publish(ev); err != nil {
		logger.WarnKV(ctx, "publish failed", "event", ev.State, "error", err)
	}
}

func (d *Device) publishSystem(ctx context.Context, name, reason string) {
	if d.publisher == nil {
		return
	}

	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
	snap := d.tracker.Snapshot()
	ev := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      name,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, name, reason),
	}
	if err := d.publisher.PublishSystem(ev); err != nil {
		logger.WarnKV(ctx, "publish system event failed", "event", name, "error", err)
	}
}
