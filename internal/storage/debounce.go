package storage

import (
	"sync"
	"time"

	"github.com/Dan7h3x/LazyDo/internal/task"
)

// debouncer coalesces bursts of save requests into one deferred write.
// Each Schedule resets the timer, so only the last snapshot of a burst
// reaches disk.
type debouncer struct {
	delay time.Duration
	save  func([]*task.Task) error

	mu      sync.Mutex
	timer   *time.Timer
	pending []*task.Task
	waiting bool
}

func newDebouncer(delay time.Duration, save func([]*task.Task) error) *debouncer {
	return &debouncer{delay: delay, save: save}
}

// Schedule queues a snapshot for writing after the debounce delay,
// replacing any snapshot already queued.
func (d *debouncer) Schedule(tasks []*task.Task) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = tasks
	d.waiting = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.fire)
}

// fire runs on the timer goroutine. The save func records its own
// failures, so the error is not re-reported here.
func (d *debouncer) fire() {
	d.mu.Lock()
	if !d.waiting {
		d.mu.Unlock()
		return
	}
	tasks := d.pending
	d.pending = nil
	d.waiting = false
	d.mu.Unlock()

	_ = d.save(tasks)
}

// Flush writes any queued snapshot immediately and reports the save error.
func (d *debouncer) Flush() error {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if !d.waiting {
		d.mu.Unlock()
		return nil
	}
	tasks := d.pending
	d.pending = nil
	d.waiting = false
	d.mu.Unlock()

	return d.save(tasks)
}

// Pending reports whether a save is queued but not yet written.
func (d *debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.waiting
}

// Stop cancels any queued save without writing it.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.waiting = false
}
