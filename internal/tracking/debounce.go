package tracking

import (
	"sync"
	"time"
)

// Debouncer delays fn until calls stop arriving for the configured delay.
// Each Call replaces the pending value and restarts the timer.
type Debouncer[T any] struct {
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	pending T
	armed   bool
}

func NewDebouncer[T any](delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{delay: delay, fn: fn}
}

func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = v
	d.armed = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Cancel drops the pending call, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.armed = false
	var zero T
	d.pending = zero
}

// Flush runs the pending call immediately.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	gen := d.gen
	d.mu.Unlock()
	d.fire(gen)
}

// fire runs the pending call if no Call or Cancel happened since gen was taken.
// A timer whose Stop lost the race to its own expiry lands here with an old gen.
func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	if !d.armed || gen != d.gen {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// Throttle runs fn at most once per interval. The last call made inside the
// window is kept and runs when the window closes, so a burst always ends
// with one run.
type Throttle struct {
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	last     time.Time
	timer    *time.Timer
	gen      uint64
	trailing func()
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now}
}

// Do runs fn now unless another call ran within the interval, in which case
// fn replaces any pending trailing call. It reports whether fn ran immediately.
func (t *Throttle) Do(fn func()) bool {
	t.mu.Lock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.trailing = fn
		if t.timer == nil {
			t.gen++
			gen := t.gen
			t.timer = time.AfterFunc(t.interval-now.Sub(t.last), func() { t.runTrailing(gen) })
		}
		t.mu.Unlock()
		return false
	}
	t.dropTrailing()
	t.last = now
	t.mu.Unlock()

	fn()
	return true
}

// Stop drops the pending trailing call, if any.
func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dropTrailing()
}

func (t *Throttle) dropTrailing() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.gen++
	t.trailing = nil
}

func (t *Throttle) runTrailing(gen uint64) {
	t.mu.Lock()
	fn := t.trailing
	if fn == nil || gen != t.gen {
		t.mu.Unlock()
		return
	}
	t.trailing = nil
	t.timer = nil
	t.last = t.now()
	t.mu.Unlock()

	fn()
}
