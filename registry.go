package gotimer

import (
	"container/list"
	"time"
)

// registry is the ordered collection of pending timers, kept in ascending
// order of remaining time as computed at insertion. In-place mutation of a
// timer's timing fields does not relocate it, so the order is a best-effort
// hint; the scheduler loop rescans from the front on every iteration.
//
// Not safe for concurrent use: the owning service's mutex guards all access.
type registry struct {
	ls    list.List
	nodes map[int64]*list.Element
}

func (r *registry) len() int { return r.ls.Len() }

// insert places t before the first timer whose own remaining time, recomputed
// now, is greater than or equal to t's; otherwise appends at the tail.
// Among equal remaining times the newest timer ends up first.
func (r *registry) insert(t *timer, now time.Time) {
	if r.nodes == nil {
		r.nodes = make(map[int64]*list.Element)
	}

	rem := t.remaining(now)
	for el := r.ls.Front(); el != nil; el = el.Next() {
		if rem <= el.Value.(*timer).remaining(now) { //nolint:forcetypeassert
			r.nodes[t.id] = r.ls.InsertBefore(t, el)
			return
		}
	}
	r.nodes[t.id] = r.ls.PushBack(t)
}

// remove unlinks t. It is a no-op if t is not linked.
func (r *registry) remove(t *timer) {
	if el, ok := r.nodes[t.id]; ok {
		r.ls.Remove(el)
		delete(r.nodes, t.id)
	}
}

// find returns the pending timer with the given id, or nil. An id that never
// existed, already fired, or was already freed is equally absent.
func (r *registry) find(id int64) *timer {
	if el, ok := r.nodes[id]; ok {
		return el.Value.(*timer) //nolint:forcetypeassert
	}
	return nil
}

// firstRunning returns the first timer in registry order whose own state is
// running, skipping paused timers wherever they sit.
func (r *registry) firstRunning() *timer {
	for el := r.ls.Front(); el != nil; el = el.Next() {
		if t := el.Value.(*timer); t.state == stateRunning { //nolint:forcetypeassert
			return t
		}
	}
	return nil
}

// clear drops every pending timer without firing it.
func (r *registry) clear() {
	r.ls.Init()
	clear(r.nodes)
}

// ids returns the pending timer ids in registry order.
func (r *registry) ids() []int64 {
	out := make([]int64, 0, r.ls.Len())
	for el := r.ls.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*timer).id) //nolint:forcetypeassert
	}
	return out
}
