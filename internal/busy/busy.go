// Package busy tracks in-flight network operations behind a single
// "is anything loading" flag.
package busy

import "sync"

// Tracker counts outstanding operations. The zero value is ready to use.
type Tracker struct {
	mu        sync.Mutex
	count     int
	listeners map[int]func(loading bool)
	nextID    int
}

// New returns an idle Tracker.
func New() *Tracker {
	return &Tracker{}
}

// Begin registers one operation and returns the function that ends it.
// Calling the returned function more than once has no further effect, so
// it is safe to defer it and also call it on an early path.
func (t *Tracker) Begin() (done func()) {
	t.add(1)
	var once sync.Once
	return func() {
		once.Do(func() { t.add(-1) })
	}
}

// Loading reports whether any operation is outstanding.
func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count > 0
}

// Count returns the number of outstanding operations.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// Subscribe registers fn to be called whenever the loading flag flips.
// Counter changes that keep the flag unchanged are not reported.
func (t *Tracker) Subscribe(fn func(loading bool)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.listeners == nil {
		t.listeners = make(map[int]func(bool))
	}
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.listeners, id)
	}
}

func (t *Tracker) add(delta int) {
	t.mu.Lock()
	before := t.count > 0
	t.count += delta
	if t.count < 0 {
		t.count = 0
	}
	after := t.count > 0
	var notify []func(bool)
	if before != after {
		notify = make([]func(bool), 0, len(t.listeners))
		for _, fn := range t.listeners {
			notify = append(notify, fn)
		}
	}
	t.mu.Unlock()

	for _, fn := range notify {
		fn(after)
	}
}
