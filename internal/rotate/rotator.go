// Package rotate cycles a label through a fixed list on a timer.
package rotate

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

var (
	ErrNoLabels        = errors.New("rotate: label list is empty")
	ErrInvalidInterval = errors.New("rotate: interval must be positive")
)

// IndexAfter is the index shown after ticks ticks of an n label rotation.
func IndexAfter(ticks, n int) int {
	if n <= 0 || ticks < 0 {
		return 0
	}
	return ticks % n
}

// IndexAt is the index shown elapsed time after start.
func IndexAt(elapsed, interval time.Duration, n int) int {
	if interval <= 0 || elapsed < 0 {
		return 0
	}
	return IndexAfter(int(elapsed/interval), n)
}

// Rotator advances through labels every interval, wrapping after the last one.
type Rotator struct {
	labels   []string
	interval time.Duration
	clock    clockwork.Clock

	mu       sync.Mutex
	index    int
	onChange func(index int, label string)
	cancel   context.CancelFunc
	done     chan struct{}
}

func New(labels []string, interval time.Duration, clock clockwork.Clock) (*Rotator, error) {
	if len(labels) == 0 {
		return nil, ErrNoLabels
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Rotator{
		labels:   slices.Clone(labels),
		interval: interval,
		clock:    clock,
	}, nil
}

// Labels returns the rotation.
func (r *Rotator) Labels() []string {
	return slices.Clone(r.labels)
}

// OnChange registers fn to run after every tick.
func (r *Rotator) OnChange(fn func(index int, label string)) {
	r.mu.Lock()
	r.onChange = fn
	r.mu.Unlock()
}

// Current returns the index and label on display.
func (r *Rotator) Current() (int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index, r.labels[r.index]
}

// Tick advances one step and returns the new index.
func (r *Rotator) Tick() int {
	r.mu.Lock()
	r.index = (r.index + 1) % len(r.labels)
	index, label, fn := r.index, r.labels[r.index], r.onChange
	r.mu.Unlock()

	if fn != nil {
		fn(index, label)
	}
	return index
}

// Start resets the rotation to the first label and ticks until Stop or ctx is done.
func (r *Rotator) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return
	}

	r.index = 0
	ctx, cancel := context.WithCancel(ctx)
	ticker := r.clock.NewTicker(r.interval)
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.run(ctx, ticker, r.done)
}

func (r *Rotator) run(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.Tick()
		}
	}
}

// Stop halts the rotation and releases its ticker.
func (r *Rotator) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
