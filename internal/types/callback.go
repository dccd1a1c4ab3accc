// Package types holds small generic containers shared across the module.
package types

import (
	"container/list"
	"iter"
	"sync"
)

// CallbackManager stores callbacks in registration order and hands out
// per-callback removers. The zero value is ready to use.
// It is safe for concurrent use.
type CallbackManager[T any] struct {
	mu     sync.RWMutex
	order  list.List
	els    map[int]*list.Element
	nextID int
}

// Add registers cb and returns a func that removes it.
// The remover is idempotent.
func (m *CallbackManager[T]) Add(cb T) (remove func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	if m.els == nil {
		m.els = make(map[int]*list.Element)
	}
	m.els[id] = m.order.PushBack(cb)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if el, ok := m.els[id]; ok {
				m.order.Remove(el)
				delete(m.els, id)
			}
			m.mu.Unlock()
		})
	}
}

// All iterates over a snapshot of the registered callbacks in registration
// order, so a callback may remove itself while being iterated.
func (m *CallbackManager[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if m == nil {
			return
		}

		m.mu.RLock()
		callbacks := make([]T, 0, m.order.Len())
		for el := m.order.Front(); el != nil; el = el.Next() {
			callbacks = append(callbacks, el.Value.(T)) //nolint:forcetypeassert
		}
		m.mu.RUnlock()

		for _, cb := range callbacks {
			if !yield(cb) {
				return
			}
		}
	}
}
