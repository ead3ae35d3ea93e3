package alert

import (
	"context"
	"sync"

	"github.com/sweeney/noise-alert/internal/gpio"
	"github.com/sweeney/noise-alert/internal/lcd"
	"github.com/sweeney/noise-alert/internal/logger"
	"github.com/sweeney/noise-alert/internal/motor"
)

// Outputs groups the peripherals that are always written together.
type Outputs struct {
	LED     gpio.Output
	Display lcd.Display
	Motor   motor.Output
}

// Actuator serialises every output write behind one lock, so the polling
// path and the mute worker never interleave.
type Actuator struct {
	mu       sync.Mutex
	out      Outputs
	snap     Snapshot
	observer Observer
}

// Observer is called under the output lock after every write, so it sees
// writes in the order they reached the peripherals. It must not block or
// call back into the Actuator.
type Observer func(ctx context.Context, t Transition)

// NewActuator creates an actuator in the QUIET state without touching the outputs.
func NewActuator(out Outputs) *Actuator {
	return &Actuator{
		out:  out,
		snap: Snapshot{State: StateQuiet},
	}
}

// Boot forces QUIET, writes the boot screen and returns the values written.
func (a *Actuator) Boot(ctx context.Context) Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := Snapshot{State: StateQuiet, LED: false, Text: MessageBoot, Level: motor.LevelOff}
	a.apply(ctx, next, SourceBoot)
	return next
}

// Loud writes the alert outputs. The writes are repeated on every call even
// when already LOUD. It returns the values it wrote and whether the state
// changed.
func (a *Actuator) Loud(ctx context.Context) (Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := Snapshot{State: StateLoud, LED: true, Text: MessageLoud, Level: motor.LevelAlert}
	return next, a.apply(ctx, next, SourceSensor)
}

// Quiet writes the muted outputs regardless of the current state. It returns
// the values it wrote and whether the state changed.
func (a *Actuator) Quiet(ctx context.Context) (Snapshot, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := Snapshot{State: StateQuiet, LED: false, Text: MessageMute, Level: motor.LevelOff}
	return next, a.apply(ctx, next, SourceButton)
}

// Observe registers fn to be told about every write.
func (a *Actuator) Observe(fn Observer) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.observer = fn
}

// State returns the current alert state.
func (a *Actuator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.snap.State
}

// Snapshot returns the last values written.
func (a *Actuator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.snap
}

// apply must be called with mu held. Failed writes are logged and the
// remaining writes still go out.
func (a *Actuator) apply(ctx context.Context, next Snapshot, source Source) bool {
	if err := a.out.LED.Set(next.LED); err != nil {
		logger.WarnKV(ctx, "led write failed", "state", next.State, "error", err)
	}

	if err := a.out.Display.SetCursor(0, 0); err != nil {
		logger.WarnKV(ctx, "lcd cursor failed", "state", next.State, "error", err)
	}
	if err := a.out.Display.Clear(); err != nil {
		logger.WarnKV(ctx, "lcd clear failed", "state", next.State, "error", err)
	}
	if err := a.out.Display.Print(next.Text); err != nil {
		logger.WarnKV(ctx, "lcd print failed", "state", next.State, "text", next.Text, "error", err)
	}

	if err := a.out.Motor.Write(next.Level); err != nil {
		logger.WarnKV(ctx, "motor write failed", "state", next.State, "level", next.Level, "error", err)
	}

	changed := a.snap.State != next.State
	a.snap = next

	if a.observer != nil {
		a.observer(ctx, Transition{Snapshot: next, Source: source, Changed: changed})
	}
	return changed
}
