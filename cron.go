package gotimer

import (
	"time"

	"braces.dev/errtrace"
	"github.com/adhocore/gronx"
)

// SetSchedule schedules fn(arg) to run at every occurrence of the cron
// expression. The timer repeats until freed; after each fire its countdown
// is re-armed with the delay until the expression's next occurrence.
// Pause, Continue, Reset and Free apply to it like to any other timer.
// An expression with no next occurrence fails with [ErrInvalidArgument].
func (s *Service) SetSchedule(expr string, fn func(arg any), arg any) (int64, error) {
	if fn == nil {
		return 0, errtrace.Wrap(NewInvalidArgumentError("nil callback"))
	}
	if !gronx.IsValid(expr) {
		return 0, errtrace.Wrap(NewInvalidArgumentError("bad cron expression %q", expr))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running() {
		return 0, errtrace.Wrap(ErrNotRunning)
	}

	d, err := cronDelay(expr, s.clock.Now())
	if err != nil {
		return 0, errtrace.Wrap(NewInvalidArgumentError(err))
	}

	t := s.newTimer(d, fn, arg)
	t.repeat = true
	t.cronExpr = expr
	s.reg.insert(t, t.startedAt)
	s.signal()

	s.log.Debug("cron timer set", "timer", t, "expr", expr)
	return t.id, nil
}

// cronDelay returns the delay from now until the next occurrence of the
// cron expression strictly after now.
func cronDelay(expr string, now time.Time) (time.Duration, error) {
	next, err := gronx.NextTickAfter(expr, now, false)
	if err != nil {
		return 0, errtrace.Wrap(err)
	}
	return next.Sub(now), nil
}
