package directory

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid events such as per-keystroke filter changes.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
}

// NewDebouncer creates a debouncer with the specified duration.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce executes fn after the debounce duration has elapsed without
// any new calls. Rapid successive calls reset the timer, so only the
// last scheduled fn runs.
func (d *Debouncer) Debounce(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, fn)
}

// Cancel cancels any pending debounced call.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Immediate executes fn now and cancels any pending call.
func (d *Debouncer) Immediate(fn func()) {
	d.Cancel()
	fn()
}
