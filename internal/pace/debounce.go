package pace

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDebounceInterval is the quiet period before an edit is written.
const DefaultDebounceInterval = 600 * time.Millisecond

// Debouncer runs fn once the interval has passed without another Trigger.
// Each Trigger cancels and re-arms the pending run, so a burst of calls
// collapses into a single fn call after the last one.
type Debouncer struct {
	clock    clockwork.Clock
	interval time.Duration
	fn       func()

	mu    sync.Mutex
	timer clockwork.Timer
	gen   uint64
}

func NewDebouncer(clock clockwork.Clock, interval time.Duration, fn func()) *Debouncer {
	return &Debouncer{clock: clock, interval: interval, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.interval, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// A timer stopped too late still calls us; only the latest arm may run.
	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.fn()
}

// Stop abandons a pending run and reports whether there was one.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Flush runs a pending fn immediately on the calling goroutine.
func (d *Debouncer) Flush() bool {
	if !d.Stop() {
		return false
	}
	d.fn()
	return true
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
