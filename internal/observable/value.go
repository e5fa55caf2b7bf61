// Package observable holds a single current value and notifies listeners
// synchronously whenever it changes.
package observable

import "sync"

// Value is safe for concurrent use. Listeners run on the goroutine that
// called Set or Update, in subscription order. Changes are delivered one at
// a time, so every listener sees values in the order they were stored and
// its last delivery is always the current value. Listeners may call Get or
// Subscribe but must not call Set or Update.
type Value[T any] struct {
	// notifyMu serializes change-then-notify; mu guards the fields below.
	notifyMu  sync.Mutex
	mu        sync.Mutex
	current   T
	listeners map[uint64]func(T)
	order     []uint64
	nextID    uint64
}

func New[T any](initial T) *Value[T] {
	return &Value[T]{
		current:   initial,
		listeners: make(map[uint64]func(T)),
	}
}

// Get returns the latest value.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// Set replaces the value and notifies every listener.
func (v *Value[T]) Set(next T) {
	v.Update(func(T) T { return next })
}

// Update derives the next value from the current one, then notifies every
// listener with the result before another change can start.
func (v *Value[T]) Update(fn func(T) T) {
	v.notifyMu.Lock()
	defer v.notifyMu.Unlock()

	v.mu.Lock()
	v.current = fn(v.current)
	next := v.current
	listeners := v.snapshot()
	v.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is idempotent.
func (v *Value[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.order = append(v.order, id)
	v.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			delete(v.listeners, id)
			for i, o := range v.order {
				if o == id {
					v.order = append(v.order[:i], v.order[i+1:]...)
					break
				}
			}
		})
	}
}

// snapshot must be called with mu held.
func (v *Value[T]) snapshot() []func(T) {
	out := make([]func(T), 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.listeners[id])
	}
	return out
}
