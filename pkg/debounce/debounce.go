// Package debounce delays an action until a burst of triggers has paused for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered function once no further trigger arrives within
// the delay. Every Trigger supersedes the previous one; a superseded function never runs, even
// when its timer already fired and is waiting on the lock.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64
	pending bool
	stopped bool
}

// New constructs a Debouncer. Non-positive delays fire on the next scheduler tick.
func New(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay}
}

// Delay returns the configured interval.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger (re)arms the timer for fn. It returns false once the debouncer is stopped.
func (d *Debouncer) Trigger(fn func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen || d.stopped {
			d.mu.Unlock()
			return
		}
		d.pending = false
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	return true
}

// Cancel drops the pending call, if any, and reports whether one was dropped.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

// Pending reports whether a call is armed and has not fired yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Stop cancels any pending call and rejects further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.stopped = true
}

func (d *Debouncer) cancelLocked() bool {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	dropped := d.pending
	d.pending = false
	return dropped
}
