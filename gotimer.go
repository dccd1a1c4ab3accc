// Package gotimer provides deferred and periodic callback execution for a
// single-process, event-driven host application.
//
// Callers schedule a unit of work to run after a delay, optionally
// repeating; when a timer fires its task is handed to a [Dispatcher], the
// host's task-execution facility. The package never runs callbacks itself.
//
// Most hosts use one [Service] instance:
//
//	svc := gotimer.NewService(nil)
//	_ = svc.Start()
//	defer svc.Close()
//
//	id, _ := svc.SetTimeout(50*time.Millisecond, func(arg any) {
//		fmt.Println("ding", arg)
//	}, "dong")
//	_ = svc.Pause(id)
//	_ = svc.Continue(id)
//
// The package-level [Init], [Shutdown] and operation wrappers drive a shared
// default service for hosts that want the original module-style surface.
package gotimer

import (
	"sync"
	"time"

	"braces.dev/errtrace"
)

// Version is the current gotimer package version.
var Version = "0.0.0"

var (
	defMu      sync.Mutex
	defService *Service
)

// DefaultService returns the service created by [Init], or nil.
func DefaultService() *Service {
	defMu.Lock()
	defer defMu.Unlock()
	return defService
}

// Init creates and starts the default service.
// Options are optional, default values are used if nil (see [ServiceOptions]).
func Init(opts *ServiceOptions) error {
	defMu.Lock()
	defer defMu.Unlock()

	if defService != nil {
		return errtrace.Wrap(NewInvalidArgumentError("already initialized"))
	}

	svc := NewService(opts)
	if err := svc.Start(); err != nil {
		return errtrace.Wrap(err)
	}
	defService = svc
	return nil
}

// Shutdown closes the default service and forgets it, so [Init] may be
// called again. Shutdown without a prior Init fails with [ErrNotRunning].
func Shutdown() error {
	defMu.Lock()
	svc := defService
	defService = nil
	defMu.Unlock()

	if svc == nil {
		return errtrace.Wrap(ErrNotRunning)
	}
	return errtrace.Wrap(svc.Close())
}

func def() (*Service, error) {
	defMu.Lock()
	defer defMu.Unlock()
	if defService == nil {
		return nil, errtrace.Wrap(ErrNotRunning)
	}
	return defService, nil
}

// Set schedules a timer on the default service. See [Service.Set].
func Set(d time.Duration, fn func(arg any), arg any, repeat bool) (int64, error) {
	svc, err := def()
	if err != nil {
		return 0, err
	}
	return errtrace.Wrap2(svc.Set(d, fn, arg, repeat))
}

// SetTimeout schedules a one-shot timer on the default service.
func SetTimeout(d time.Duration, fn func(arg any), arg any) (int64, error) {
	return errtrace.Wrap2(Set(d, fn, arg, false))
}

// SetInterval schedules a repeating timer on the default service.
func SetInterval(d time.Duration, fn func(arg any), arg any) (int64, error) {
	return errtrace.Wrap2(Set(d, fn, arg, true))
}

// Free cancels a timer on the default service. See [Service.Free].
func Free(id int64) error {
	svc, err := def()
	if err != nil {
		return err
	}
	return errtrace.Wrap(svc.Free(id))
}

// Pause freezes a timer on the default service. See [Service.Pause].
func Pause(id int64) error {
	svc, err := def()
	if err != nil {
		return err
	}
	return errtrace.Wrap(svc.Pause(id))
}

// Continue resumes a timer on the default service. See [Service.Continue].
func Continue(id int64) error {
	svc, err := def()
	if err != nil {
		return err
	}
	return errtrace.Wrap(svc.Continue(id))
}

// Reset restarts a timer on the default service. See [Service.Reset].
func Reset(id int64, d time.Duration) error {
	svc, err := def()
	if err != nil {
		return err
	}
	return errtrace.Wrap(svc.Reset(id, d))
}
