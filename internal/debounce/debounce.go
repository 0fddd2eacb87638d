// Package debounce coalesces bursts of calls so only the last one runs.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrSuperseded is returned for a call replaced by a newer one before it ran.
	ErrSuperseded = errors.New("debounce: superseded by a newer call")
	// ErrStopped is returned for calls pending when Stop ran, and for calls after it.
	ErrStopped = errors.New("debounce: stopped")
)

// Debouncer runs fn only after delay has passed without another call.
// Once stopped it never runs anything again.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending *call
	stopped bool
}

type call struct {
	timer *time.Timer
	done  chan error
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule arranges for fn to run after the delay and returns a channel that receives
// exactly one result: nil once fn has run, ErrSuperseded, or ErrStopped.
func (d *Debouncer) Schedule(fn func()) <-chan error {
	c := &call{done: make(chan error, 1)}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		c.done <- ErrStopped
		return c.done
	}
	if d.pending != nil {
		d.pending.timer.Stop()
		d.pending.done <- ErrSuperseded
	}
	d.pending = c
	c.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending != c {
			d.mu.Unlock()
			return
		}
		d.pending = nil
		d.mu.Unlock()

		fn()
		c.done <- nil
	})
	return c.done
}

// Do schedules fn and waits for its outcome. Cancelling ctx withdraws the call
// if it has not started yet.
func (d *Debouncer) Do(ctx context.Context, fn func()) error {
	done := d.Schedule(fn)
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		d.mu.Lock()
		if d.pending != nil && d.pending.done == done {
			d.pending.timer.Stop()
			d.pending = nil
			d.mu.Unlock()
			return ctx.Err()
		}
		d.mu.Unlock()
		// Already running or resolved.
		return <-done
	}
}

// Stop cancels the pending call, if any, and rejects later ones.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.pending != nil {
		d.pending.timer.Stop()
		d.pending.done <- ErrStopped
		d.pending = nil
	}
}

// Pending reports whether a call is waiting to run.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
