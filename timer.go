package gotimer

import (
	"log/slog"
	"time"
)

// Task is the unit of work handed to a [Dispatcher] when a timer fires.
// The argument is opaque to the service and passed to Func as is.
type Task struct {
	Func func(arg any)
	Arg  any
}

// Run invokes the task callback with its argument.
func (t Task) Run() {
	if t.Func != nil {
		t.Func(t.Arg)
	}
}

type timerState uint8

const (
	stateRunning timerState = iota
	statePaused
)

func (s timerState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case statePaused:
		return "paused"
	}
	return "unknown"
}

// timer is one scheduled unit of work. All fields are guarded by the
// owning service's mutex; the registry holds every live timer exactly once.
type timer struct {
	id       int64
	state    timerState
	repeat   bool
	cronExpr string

	duration  time.Duration
	startedAt time.Time
	// pausedAt is meaningful only while state is statePaused.
	pausedAt time.Time
	// pausedFor accumulates time spent paused during the current countdown.
	pausedFor time.Duration

	task Task
}

// elapsed returns the running time consumed so far, excluding paused stretches.
func (t *timer) elapsed(now time.Time) time.Duration {
	return now.Sub(t.startedAt) - t.pausedFor
}

// remaining returns the time until the deadline as computed from live fields.
// A paused timer's remaining time is frozen at its value as of pausedAt.
func (t *timer) remaining(now time.Time) time.Duration {
	ref := now
	if t.state == statePaused {
		ref = t.pausedAt
	}
	return t.duration - ref.Sub(t.startedAt) + t.pausedFor
}

// restart begins a fresh countdown from now.
func (t *timer) restart(now time.Time) {
	t.startedAt = now
	t.pausedFor = 0
	t.pausedAt = time.Time{}
}

func (t *timer) LogValue() slog.Value {
	if t == nil {
		return slog.Value{}
	}
	return slog.GroupValue(
		slog.Int64("id", t.id),
		slog.String("state", t.state.String()),
		slog.Bool("repeat", t.repeat),
		slog.Duration("duration", t.duration),
	)
}
