package gotimer

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/gotimer/timing"
)

func newTestTimer(id int64, d time.Duration, now time.Time) *timer {
	return &timer{
		id:        id,
		state:     stateRunning,
		duration:  d,
		startedAt: now,
	}
}

func TestRegistryInsertOrder(t *testing.T) {
	t.Parallel()

	clock := timing.NewMock(time.Time{})
	now := clock.Now()

	var reg registry
	reg.insert(newTestTimer(1, 50*time.Millisecond, now), now)
	reg.insert(newTestTimer(2, 10*time.Millisecond, now), now)
	reg.insert(newTestTimer(3, 30*time.Millisecond, now), now)

	want := []int64{2, 3, 1}
	if diff := cmp.Diff(reg.ids(), want); diff != "" {
		t.Errorf("reg.ids() mismatch (-got +want):\n%v", diff)
	}
}

func TestRegistryInsertTieBreak(t *testing.T) {
	t.Parallel()

	clock := timing.NewMock(time.Time{})
	now := clock.Now()

	// Equal remaining times: the newest insert goes first.
	var reg registry
	reg.insert(newTestTimer(1, 20*time.Millisecond, now), now)
	reg.insert(newTestTimer(2, 20*time.Millisecond, now), now)
	reg.insert(newTestTimer(3, 20*time.Millisecond, now), now)

	want := []int64{3, 2, 1}
	if diff := cmp.Diff(reg.ids(), want); diff != "" {
		t.Errorf("reg.ids() mismatch (-got +want):\n%v", diff)
	}
}

func TestRegistryFind(t *testing.T) {
	t.Parallel()

	clock := timing.NewMock(time.Time{})
	now := clock.Now()

	var reg registry
	tm := newTestTimer(7, 10*time.Millisecond, now)
	reg.insert(tm, now)

	if got := reg.find(7); got != tm {
		t.Errorf("reg.find(7) = %v, want %v", got, tm)
	}
	if got := reg.find(8); got != nil {
		t.Errorf("reg.find(8) = %v, want nil", got)
	}

	reg.remove(tm)
	if got := reg.find(7); got != nil {
		t.Errorf("reg.find(7) after remove = %v, want nil", got)
	}
	// Removing an unlinked timer is a no-op.
	reg.remove(tm)
	if got := reg.len(); got != 0 {
		t.Errorf("reg.len() = %v, want 0", got)
	}
}

func TestRegistryFirstRunningSkipsPaused(t *testing.T) {
	t.Parallel()

	clock := timing.NewMock(time.Time{})
	now := clock.Now()

	var reg registry
	first := newTestTimer(1, 10*time.Millisecond, now)
	second := newTestTimer(2, 20*time.Millisecond, now)
	reg.insert(first, now)
	reg.insert(second, now)

	first.state = statePaused
	first.pausedAt = now

	if got := reg.firstRunning(); got != second {
		t.Errorf("reg.firstRunning() = %v, want %v", got, second)
	}

	second.state = statePaused
	second.pausedAt = now
	if got := reg.firstRunning(); got != nil {
		t.Errorf("reg.firstRunning() = %v, want nil", got)
	}
}

func TestRegistryClear(t *testing.T) {
	t.Parallel()

	clock := timing.NewMock(time.Time{})
	now := clock.Now()

	var reg registry
	for id := int64(1); id <= 5; id++ {
		reg.insert(newTestTimer(id, time.Duration(id)*time.Millisecond, now), now)
	}

	reg.clear()
	if got := reg.len(); got != 0 {
		t.Errorf("reg.len() = %v, want 0", got)
	}
	if got := reg.find(3); got != nil {
		t.Errorf("reg.find(3) after clear = %v, want nil", got)
	}
}

func TestRegistryStaleOrderAfterReset(t *testing.T) {
	t.Parallel()

	clock := timing.NewMock(time.Time{})
	now := clock.Now()

	var reg registry
	first := newTestTimer(1, 10*time.Millisecond, now)
	second := newTestTimer(2, 20*time.Millisecond, now)
	reg.insert(first, now)
	reg.insert(second, now)

	// In-place mutation does not relocate: the registry order is a
	// best-effort hint and the loop's full rescan carries correctness.
	first.duration = 100 * time.Millisecond
	first.restart(now)

	want := []int64{1, 2}
	if diff := cmp.Diff(reg.ids(), want); diff != "" {
		t.Errorf("reg.ids() mismatch (-got +want):\n%v", diff)
	}
}
