// Package rate provides call coalescing primitives: a trailing-edge
// debouncer and a leading-edge throttler. Both are safe for concurrent use.
package rate

import (
	"sync"
	"time"
)

// Debouncer delays invoking fn until delay has elapsed with no further
// calls. Each call cancels any pending invocation and reschedules it with
// the latest value; superseded calls are discarded, never queued.
type Debouncer[T any] struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
	fn    func(T)
}

// NewDebouncer creates a debouncer around fn with the given quiet period.
func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		delay: delay,
		fn:    fn,
	}
}

// Call schedules fn(v) after the quiet period, replacing any pending
// invocation and its value.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.fn(v)
	})
}

// Stop cancels any pending invocation. Subsequent Call still works.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Throttler invokes fn on the leading edge: the first call runs immediately,
// then calls are dropped until the interval has elapsed. There is no
// trailing invocation.
type Throttler[T any] struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
	fn       func(T)
}

// NewThrottler creates a throttler around fn with the given minimum interval
// between invocations.
func NewThrottler[T any](interval time.Duration, fn func(T)) *Throttler[T] {
	return &Throttler[T]{
		interval: interval,
		fn:       fn,
	}
}

// Call invokes fn(v) if the interval has elapsed since the last invocation
// and reports whether the call went through.
func (t *Throttler[T]) Call(v T) bool {
	t.mu.Lock()
	now := time.Now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return false
	}
	t.last = now
	t.mu.Unlock()

	t.fn(v)
	return true
}

// Reset clears the throttle window so the next Call goes through.
func (t *Throttler[T]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = time.Time{}
}
