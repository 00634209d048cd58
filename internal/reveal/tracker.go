package reveal

import (
	"context"
	"sync"
)

// Latch is a boolean that flips from false to true once and stays there.
// The zero value is ready to use.
type Latch struct {
	mu  sync.Mutex
	set bool
	ch  chan struct{}
}

// chanLocked returns the signal channel; l.mu must be held.
func (l *Latch) chanLocked() chan struct{} {
	if l.ch == nil {
		l.ch = make(chan struct{})
	}
	return l.ch
}

// Set fires the latch. It returns true only for the call that fired it.
func (l *Latch) Set() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.set {
		return false
	}
	l.set = true
	close(l.chanLocked())
	return true
}

// Value reports whether the latch has fired.
func (l *Latch) Value() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set
}

// Done returns a channel closed when the latch fires.
func (l *Latch) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chanLocked()
}

// Tracker latches when its target first intersects the viewport at or above
// the configured threshold.
type Tracker struct {
	target   string
	opts     Options
	observer Observer

	latch Latch

	mu       sync.Mutex
	onReveal func(target string)
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewTracker creates a tracker for target. A nil observer or empty target
// yields a tracker that never fires.
func NewTracker(target string, opts Options, observer Observer) *Tracker {
	return &Tracker{
		target:   target,
		opts:     opts,
		observer: observer,
	}
}

// Target returns the tracked region id.
func (t *Tracker) Target() string {
	return t.target
}

// Options returns the observation parameters.
func (t *Tracker) Options() Options {
	return t.opts
}

// OnReveal registers fn to run once, when the latch fires.
func (t *Tracker) OnReveal(fn func(target string)) {
	t.mu.Lock()
	t.onReveal = fn
	t.mu.Unlock()
}

// Visible reports the latch value.
func (t *Tracker) Visible() bool {
	return t.latch.Value()
}

// Revealed returns a channel closed once the target has been seen.
func (t *Tracker) Revealed() <-chan struct{} {
	return t.latch.Done()
}

// Reveal fires the latch directly. Used for regions that become visible
// on a timer rather than by observation.
func (t *Tracker) Reveal() {
	if !t.latch.Set() {
		return
	}
	t.mu.Lock()
	fn := t.onReveal
	t.mu.Unlock()
	if fn != nil {
		fn(t.target)
	}
}

// Attach starts observing. Calling Attach on an attached or already visible
// tracker does nothing.
func (t *Tracker) Attach(ctx context.Context) {
	if t.target == "" || t.observer == nil || t.Visible() {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	entries, err := t.observer.Observe(ctx, []string{t.target}, t.opts)
	if err != nil {
		cancel()
		return
	}

	t.cancel = cancel
	t.done = make(chan struct{})
	go t.run(ctx, cancel, entries, t.done)
}

func (t *Tracker) run(ctx context.Context, cancel context.CancelFunc, entries <-chan []Entry, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-entries:
			if !ok {
				return
			}
			for _, e := range batch {
				if e.Target == t.target && t.opts.Qualifies(e) {
					t.Reveal()
					// Nothing left to observe once latched.
					cancel()
					return
				}
			}
		}
	}
}

// Detach stops observation and waits for it to be released.
func (t *Tracker) Detach() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
