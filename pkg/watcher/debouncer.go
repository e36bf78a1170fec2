// Package watcher reports changes to tree documents on disk, using fsnotify
// with a polling fallback and debouncing bursts of writes into one event.
package watcher

import (
	"sync"
	"time"
)

// DefaultDebounceDuration is the default debounce window.
const DefaultDebounceDuration = 200 * time.Millisecond

// debouncer runs fire once a burst of Trigger calls has been quiet for
// delay. It reuses one timer for the life of the watcher.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fire    func()
	timer   *time.Timer
	pending bool
}

func newDebouncer(delay time.Duration, fire func()) *debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDuration
	}
	return &debouncer{delay: delay, fire: fire}
}

// Trigger marks a change and pushes the deadline back.
func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.run)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *debouncer) run() {
	d.mu.Lock()
	pending := d.pending
	d.pending = false
	d.mu.Unlock()

	if pending {
		d.fire()
	}
}

// Cancel drops a pending change.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
