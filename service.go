package gotimer

import (
	"log/slog"
	"sync"
	"time"

	"braces.dev/errtrace"
	"github.com/qmuntal/stateless"

	"github.com/ghettovoice/gotimer/internal/errorutil"
	"github.com/ghettovoice/gotimer/log"
	"github.com/ghettovoice/gotimer/timing"
)

// DefaultPollInterval is the bounded idle sleep used by the scheduler loop
// when no running timer is pending.
const DefaultPollInterval = 10 * time.Millisecond

// Service lifecycle states.
const (
	svcCreated = "created"
	svcRunning = "running"
	svcStopped = "stopped"
)

// Service lifecycle triggers.
const (
	trigStart = "start"
	trigStop  = "stop"
)

// ServiceOptions are the options for a [Service].
type ServiceOptions struct {
	// Clock supplies the monotonic time source.
	// If nil, [timing.System] is used.
	Clock timing.Clock
	// Dispatcher receives fired timer tasks.
	// If nil, the [DefaultDispatcher] is used.
	Dispatcher Dispatcher
	// PollInterval bounds the idle sleep of the scheduler loop while no
	// running timer is pending.
	// If 0, [DefaultPollInterval] is used.
	PollInterval time.Duration
	// Logger is the logger.
	// If nil, the [log.Default] is used.
	Logger *slog.Logger
}

func (o *ServiceOptions) clock() timing.Clock {
	if o == nil || o.Clock == nil {
		return timing.System()
	}
	return o.Clock
}

func (o *ServiceOptions) dispatcher() Dispatcher {
	if o == nil || o.Dispatcher == nil {
		return DefaultDispatcher()
	}
	return o.Dispatcher
}

func (o *ServiceOptions) pollInterval() time.Duration {
	if o == nil || o.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return o.PollInterval
}

func (o *ServiceOptions) log() *slog.Logger {
	if o == nil || o.Logger == nil {
		return log.Default()
	}
	return o.Logger
}

// Service schedules deferred and periodic callbacks and hands fired tasks
// to a [Dispatcher]. One background goroutine runs the scheduler loop; all
// public operations are safe to call from any goroutine concurrently with
// the loop and with each other.
type Service struct {
	clock timing.Clock
	disp  Dispatcher
	poll  time.Duration
	log   *slog.Logger

	// mu guards the registry, the id counter and every timer's fields.
	mu      sync.Mutex
	reg     registry
	idCount int64
	fsm     *stateless.StateMachine

	// wake interrupts the loop's waits whenever a mutation could change
	// the next firing deadline.
	wake chan struct{}
	stop chan struct{}
	done chan struct{}

	rmAdvance func()
	closeOnce sync.Once
	closeErr  error
}

// NewService creates a new stopped [Service]. Call [Service.Start] to begin
// scheduling. Options are optional, default values are used if nil
// (see [ServiceOptions]).
func NewService(opts *ServiceOptions) *Service {
	fsm := stateless.NewStateMachine(svcCreated)
	fsm.Configure(svcCreated).
		Permit(trigStart, svcRunning).
		Permit(trigStop, svcStopped)
	fsm.Configure(svcRunning).
		Permit(trigStop, svcStopped)

	s := &Service{
		clock: opts.clock(),
		disp:  opts.dispatcher(),
		poll:  opts.pollInterval(),
		fsm:   fsm,
		wake:  make(chan struct{}, 1),
	}
	s.log = opts.log().With("service", s)
	return s
}

// Start spins up the scheduler loop goroutine.
// Starting an already started or closed service fails with [ErrNotRunning].
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fsm.Fire(trigStart); err != nil {
		return errtrace.Wrap(errorutil.NewWrapperError(ErrNotRunning, err))
	}

	if w, ok := s.clock.(timing.Waker); ok {
		s.rmAdvance = w.OnAdvance(s.signal)
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run()
	return nil
}

// Close tears the service down: it stops the scheduler loop, joins it and
// drops every pending timer without firing it. Safe to call multiple times
// and concurrently with any public operation.
func (s *Service) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.close()
	})
	return errtrace.Wrap(s.closeErr)
}

func (s *Service) close() error {
	s.mu.Lock()
	if err := s.fsm.Fire(trigStop); err != nil {
		s.mu.Unlock()
		return errtrace.Wrap(errorutil.NewWrapperError(ErrNotRunning, err))
	}
	if s.rmAdvance != nil {
		s.rmAdvance()
		s.rmAdvance = nil
	}
	stop, done := s.stop, s.done
	s.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	s.mu.Lock()
	dropped := s.reg.len()
	s.reg.clear()
	s.mu.Unlock()

	s.log.Debug("timer service closed", "dropped", dropped)
	return nil
}

// Set schedules fn(arg) to run after d, repeating each d if repeat is true.
// It returns the id of the new timer. Negative durations and nil callbacks
// fail with [ErrInvalidArgument]; a not started or closed service fails
// with [ErrNotRunning].
func (s *Service) Set(d time.Duration, fn func(arg any), arg any, repeat bool) (int64, error) {
	if d < 0 {
		return 0, errtrace.Wrap(NewInvalidArgumentError("negative duration %v", d))
	}
	if fn == nil {
		return 0, errtrace.Wrap(NewInvalidArgumentError("nil callback"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return 0, errtrace.Wrap(ErrNotRunning)
	}

	t := s.newTimer(d, fn, arg)
	t.repeat = repeat
	s.reg.insert(t, t.startedAt)
	s.signal()

	s.log.Debug("timer set", "timer", t)
	return t.id, nil
}

// SetTimeout schedules a one-shot timer. See [Service.Set].
func (s *Service) SetTimeout(d time.Duration, fn func(arg any), arg any) (int64, error) {
	return errtrace.Wrap2(s.Set(d, fn, arg, false))
}

// SetInterval schedules a repeating timer. See [Service.Set].
func (s *Service) SetInterval(d time.Duration, fn func(arg any), arg any) (int64, error) {
	return errtrace.Wrap2(s.Set(d, fn, arg, true))
}

// Free cancels the pending timer with the given id and releases it.
// A second Free of the same id fails with [ErrTimerNotFound], as does an id
// that never existed or already fired.
func (s *Service) Free(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return errtrace.Wrap(ErrNotRunning)
	}

	t := s.reg.find(id)
	if t == nil {
		return errtrace.Wrap(ErrTimerNotFound)
	}
	s.reg.remove(t)
	s.signal()

	s.log.Debug("timer freed", "timer", t)
	return nil
}

// Pause freezes the countdown of the timer with the given id.
// Pausing an already paused timer has no effect.
func (s *Service) Pause(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return errtrace.Wrap(ErrNotRunning)
	}

	t := s.reg.find(id)
	if t == nil {
		return errtrace.Wrap(ErrTimerNotFound)
	}
	if t.state == stateRunning {
		t.pausedAt = s.clock.Now()
		t.state = statePaused
	}
	s.signal()

	s.log.Debug("timer paused", "timer", t)
	return nil
}

// Continue resumes a paused timer, extending its deadline by the time spent
// paused. Continuing a running timer has no effect.
func (s *Service) Continue(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return errtrace.Wrap(ErrNotRunning)
	}

	t := s.reg.find(id)
	if t == nil {
		return errtrace.Wrap(ErrTimerNotFound)
	}
	if t.state == statePaused {
		t.pausedFor += s.clock.Since(t.pausedAt)
		t.pausedAt = time.Time{}
		t.state = stateRunning
	}
	s.signal()

	s.log.Debug("timer continued", "timer", t)
	return nil
}

// Reset restarts the countdown of the timer with the given id from now with
// duration d, irrespective of previously elapsed time. State and registry
// position are left unchanged.
func (s *Service) Reset(id int64, d time.Duration) error {
	if d < 0 {
		return errtrace.Wrap(NewInvalidArgumentError("negative duration %v", d))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return errtrace.Wrap(ErrNotRunning)
	}

	t := s.reg.find(id)
	if t == nil {
		return errtrace.Wrap(ErrTimerNotFound)
	}
	now := s.clock.Now()
	t.duration = d
	t.restart(now)
	if t.state == statePaused {
		// The fresh countdown begins a fresh pause span; Continue must
		// account only for pause time spent after the reset.
		t.pausedAt = now
	}
	s.signal()

	s.log.Debug("timer reset", "timer", t)
	return nil
}

// Pending returns the number of timers currently waiting to fire.
func (s *Service) Pending() int {
	if s == nil {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.len()
}

func (s *Service) LogValue() slog.Value {
	if s == nil {
		return slog.Value{}
	}
	return slog.StringValue(s.fsmState())
}

// newTimer allocates a timer with a freshly assigned id, started now.
// Caller must hold s.mu.
func (s *Service) newTimer(d time.Duration, fn func(arg any), arg any) *timer {
	s.idCount++
	return &timer{
		id:        s.idCount,
		state:     stateRunning,
		duration:  d,
		startedAt: s.clock.Now(),
		task:      Task{Func: fn, Arg: arg},
	}
}

// running reports whether the lifecycle machine is in the running state.
// Caller must hold s.mu.
func (s *Service) running() bool {
	return s.fsm.MustState() == svcRunning
}

func (s *Service) fsmState() string {
	st, _ := s.fsm.MustState().(string)
	return st
}

// signal nudges the scheduler loop to reconsider its wait target.
// The channel is 1-buffered, a pending nudge is never lost and never blocks.
func (s *Service) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
