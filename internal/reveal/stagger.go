package reveal

import (
	"context"
	"sync"
	"time"
)

// Stagger reveals the items of a list one by one as each scrolls into view.
// Items are not observed until the parent tracker has latched.
type Stagger struct {
	parent   *Tracker
	targets  []string
	index    map[string]int
	opts     Options
	step     time.Duration
	observer Observer

	mu       sync.Mutex
	visible  map[int]bool
	onReveal func(index int)
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewStagger tracks targets in order. step is the per-index animation delay.
func NewStagger(parent *Tracker, targets []string, opts Options, step time.Duration, observer Observer) *Stagger {
	index := make(map[string]int, len(targets))
	for i, target := range targets {
		index[target] = i
	}
	return &Stagger{
		parent:   parent,
		targets:  targets,
		index:    index,
		opts:     opts,
		step:     step,
		observer: observer,
		visible:  make(map[int]bool, len(targets)),
	}
}

// Len returns the number of tracked items.
func (s *Stagger) Len() int {
	return len(s.targets)
}

// Target returns the region id of item i.
func (s *Stagger) Target(i int) string {
	return s.targets[i]
}

// OnReveal registers fn to run once per item, when that item latches.
func (s *Stagger) OnReveal(fn func(index int)) {
	s.mu.Lock()
	s.onReveal = fn
	s.mu.Unlock()
}

// Visible reports the latch of item i. Out of range indices are never visible.
func (s *Stagger) Visible(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible[i]
}

// Snapshot returns the latch of every item in order.
func (s *Stagger) Snapshot() []bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]bool, len(s.targets))
	for i := range out {
		out[i] = s.visible[i]
	}
	return out
}

// Any reports whether at least one item has latched.
func (s *Stagger) Any() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.visible) > 0
}

// Delay is the render-time animation delay for item i.
func (s *Stagger) Delay(i int) time.Duration {
	return time.Duration(i) * s.step
}

// Attach waits for the parent latch and then observes every item.
func (s *Stagger) Attach(ctx context.Context) {
	if len(s.targets) == 0 || s.observer == nil || s.parent == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, cancel, s.done)
}

func (s *Stagger) run(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer close(done)
	defer cancel()

	select {
	case <-ctx.Done():
		return
	case <-s.parent.Revealed():
	}

	pending := s.pending()
	if len(pending) == 0 {
		return
	}
	entries, err := s.observer.Observe(ctx, pending, s.opts)
	if err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-entries:
			if !ok {
				return
			}
			if s.apply(batch) {
				return
			}
		}
	}
}

// pending lists the targets not yet latched, in order.
func (s *Stagger) pending() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.targets))
	for i, target := range s.targets {
		if !s.visible[i] {
			out = append(out, target)
		}
	}
	return out
}

// apply latches every qualifying item in batch together and reports whether
// all items are now visible.
func (s *Stagger) apply(batch []Entry) bool {
	var fired []int

	s.mu.Lock()
	for _, e := range batch {
		i, ok := s.index[e.Target]
		if !ok || s.visible[i] || !s.opts.Qualifies(e) {
			continue
		}
		s.visible[i] = true
		fired = append(fired, i)
	}
	fn := s.onReveal
	all := len(s.visible) == len(s.targets)
	s.mu.Unlock()

	if fn != nil {
		for _, i := range fired {
			fn(i)
		}
	}
	return all
}

// Detach stops observation and waits for it to be released.
func (s *Stagger) Detach() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
