// Package ratelimit wraps callbacks so bursts of calls collapse into fewer
// invocations.
package ratelimit

import (
	"sync"
	"time"
)

// Debouncer runs fn with the latest argument once no call happened for delay.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	lock       sync.Mutex
	timer      *time.Timer
	generation uint64
}

func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

// Call (re)starts the delay. Only the last argument of a burst is used.
func (d *Debouncer[T]) Call(arg T) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.generation++
	generation := d.generation
	d.timer = time.AfterFunc(d.delay, func() {
		d.lock.Lock()
		current := d.generation == generation
		if current {
			d.timer = nil
		}
		d.lock.Unlock()

		if current {
			d.fn(arg)
		}
	})
}

// Cancel drops the pending call, if any. It reports whether one was pending.
func (d *Debouncer[T]) Cancel() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.generation++
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

// Throttler runs fn at most once per window. Calls inside the window are
// dropped, not delayed.
type Throttler[T any] struct {
	window time.Duration
	fn     func(T)
	now    func() time.Time

	lock    sync.Mutex
	started bool
	last    time.Time
}

func NewThrottler[T any](window time.Duration, fn func(T)) *Throttler[T] {
	return &Throttler[T]{window: window, fn: fn, now: time.Now}
}

// Call runs fn synchronously unless the window is still open. It reports
// whether fn ran.
func (t *Throttler[T]) Call(arg T) bool {
	t.lock.Lock()
	now := t.now()
	if t.started && now.Sub(t.last) < t.window {
		t.lock.Unlock()
		return false
	}
	t.started = true
	t.last = now
	t.lock.Unlock()

	t.fn(arg)
	return true
}
