package logic

import "time"

// DefaultDebounce is the contact bounce filter window.
const DefaultDebounce = 50 * time.Millisecond

// Debouncer filters a noisy boolean level into a stable one.
// A raw level propagates only once it has persisted for longer than the window.
type Debouncer struct {
	window    time.Duration
	lastRaw   bool
	changedAt time.Time
	stable    bool
}

// NewDebouncer creates a Debouncer with the given window. The stable level
// starts released (false).
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{window: window}
}

// Poll feeds one raw sample and returns the stable level.
func (d *Debouncer) Poll(raw bool, now time.Time) bool {
	if raw != d.lastRaw {
		// Any edge restarts the window
		d.changedAt = now
	}
	d.lastRaw = raw

	if now.Sub(d.changedAt) > d.window {
		d.stable = raw
	}
	return d.stable
}

// Stable returns the current stable level without sampling.
func (d *Debouncer) Stable() bool {
	return d.stable
}
