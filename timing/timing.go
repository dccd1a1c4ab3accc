// Package timing provides the clock capability used by the timer service.
//
// Production code uses [System], which reads the runtime monotonic clock.
// Tests use [Mock], which only moves when [Mock.Elapse] or [Mock.Set] is
// called and notifies registered advance listeners so that waiters can
// re-evaluate their deadlines deterministically.
package timing

import (
	"sync"
	"time"

	"github.com/ghettovoice/gotimer/internal/types"
)

// Clock supplies a monotonic "now" and "elapsed since" capability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
	// Since returns the time elapsed since t.
	Since(t time.Time) time.Duration
}

// Waker is implemented by clocks whose time can be adjusted manually.
// Listeners registered via OnAdvance are invoked after every adjustment.
type Waker interface {
	OnAdvance(fn func()) (remove func())
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Since(t time.Time) time.Duration { return time.Since(t) }

var sysClock Clock = systemClock{}

// System returns the runtime clock.
func System() Clock { return sysClock }

// Mock is a manually driven [Clock] for deterministic tests.
// The zero value starts at an arbitrary fixed instant.
type Mock struct {
	mu        sync.RWMutex
	now       time.Time
	onAdvance types.CallbackManager[func()]
}

// mockEpoch anchors zero-value mocks away from the zero time so that
// subtraction never underflows time.Time.
var mockEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// NewMock creates a [Mock] clock set to start.
// If start is the zero time, a fixed epoch is used.
func NewMock(start time.Time) *Mock {
	if start.IsZero() {
		start = mockEpoch
	}
	return &Mock{now: start}
}

func (m *Mock) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.now.IsZero() {
		return mockEpoch
	}
	return m.now
}

func (m *Mock) Since(t time.Time) time.Duration {
	return m.Now().Sub(t)
}

// Elapse advances the clock by d and notifies advance listeners.
func (m *Mock) Elapse(d time.Duration) {
	m.mu.Lock()
	if m.now.IsZero() {
		m.now = mockEpoch
	}
	m.now = m.now.Add(d)
	m.mu.Unlock()

	m.notify()
}

// Set moves the clock to t and notifies advance listeners.
// Moving the clock backwards is allowed.
func (m *Mock) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()

	m.notify()
}

// OnAdvance registers fn to run after every Elapse or Set.
// The returned func removes the listener.
func (m *Mock) OnAdvance(fn func()) (remove func()) {
	return m.onAdvance.Add(fn)
}

func (m *Mock) notify() {
	for fn := range m.onAdvance.All() {
		fn()
	}
}
