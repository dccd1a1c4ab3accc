package gotimer

import "time"

// run is the scheduler loop. Exactly one instance runs per started service.
//
// Each iteration scans the registry front-to-back for the first running
// timer. With none pending it sleeps a bounded poll interval; otherwise it
// waits out the timer's remaining time. Both waits release the lock and are
// interruptible by the wake signal, so a mutation that changes the next
// deadline, such as a newly inserted sooner timer, is picked up with a fresh
// scan instead of waiting out a stale timeout.
func (s *Service) run() {
	defer close(s.done)

	s.log.Debug("scheduler loop started")
	defer s.log.Debug("scheduler loop stopped")

	for {
		select {
		case <-s.stop:
			return
		default:
		}

		s.mu.Lock()
		t := s.reg.firstRunning()
		if t == nil {
			s.mu.Unlock()
			if !s.idle() {
				return
			}
			continue
		}

		now := s.clock.Now()
		if elapsed := t.elapsed(now); elapsed < t.duration {
			wait := t.duration - elapsed
			s.mu.Unlock()
			if !s.waitFor(wait) {
				return
			}
			continue
		}

		task := s.fire(t, now)
		s.mu.Unlock()

		// Non-blocking handoff, the loop never executes a callback
		// inline and never waits for it to run.
		s.disp.Dispatch(task)
	}
}

// fire unlinks the expired timer and reinserts it when it repeats.
// Caller must hold s.mu.
func (s *Service) fire(t *timer, now time.Time) Task {
	s.reg.remove(t)
	switch {
	case t.cronExpr != "":
		if d, err := cronDelay(t.cronExpr, now); err == nil {
			t.duration = d
			t.restart(now)
			s.reg.insert(t, now)
		} else {
			s.log.Warn("cron timer dropped", "timer", t, "error", err)
		}
	case t.repeat:
		t.restart(now)
		s.reg.insert(t, now)
	}

	s.log.Debug("timer fired", "timer", t)
	return t.task
}

// idle performs the bounded sleep used while no running timer is pending.
// It returns false when the service is closing.
func (s *Service) idle() bool {
	select {
	case <-s.stop:
		return false
	case <-s.wake:
		return true
	case <-time.After(s.poll):
		return true
	}
}

// waitFor waits until the current earliest deadline or an earlier wake
// signal. It returns false when the service is closing.
func (s *Service) waitFor(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-s.stop:
		return false
	case <-s.wake:
		return true
	case <-timer.C:
		return true
	}
}
