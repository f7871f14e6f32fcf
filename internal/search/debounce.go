package search

import (
	"sync"
	"time"
)

// Timer is a pending call that can be cancelled.
type Timer interface {
	Stop() bool
}

// Clock schedules delayed calls.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// RealClock schedules on the runtime timer.
func RealClock() Clock { return realClock{} }

// Debouncer coalesces calls: only the last value triggered within the delay
// runs. It holds at most one pending timer.
type Debouncer struct {
	clock Clock
	delay time.Duration
	fn    func(string)

	mu      sync.Mutex
	pending Timer
	seq     uint64
}

// NewDebouncer returns a Debouncer that calls fn delay after the last
// Trigger.
func NewDebouncer(clock Clock, delay time.Duration, fn func(string)) *Debouncer {
	if clock == nil {
		clock = RealClock()
	}
	return &Debouncer{clock: clock, delay: delay, fn: fn}
}

// Trigger cancels any pending call and schedules fn(v).
func (d *Debouncer) Trigger(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	seq := d.seq
	d.pending = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if seq != d.seq {
			// Superseded after the timer already fired.
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.seq++
		d.mu.Unlock()
		d.fn(v)
	})
}

// Flush cancels any pending call and runs fn(v) now, on the caller's
// goroutine.
func (d *Debouncer) Flush(v string) {
	d.Stop()
	d.fn(v)
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) cancelLocked() {
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
	d.seq++
}
