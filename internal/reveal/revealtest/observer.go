// Package revealtest provides an in-memory reveal.Observer that feeds
// synthetic intersection entries.
package revealtest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/reveal"
)

// Observer records Observe calls and lets tests push entries to them.
type Observer struct {
	// Err, when set, is returned by every Observe call.
	Err error

	mu       sync.Mutex
	subs     []*Subscription
	observed chan *Subscription
}

// Subscription is one Observe call.
type Subscription struct {
	Targets []string
	Options reveal.Options

	ctx    context.Context
	mu     sync.Mutex
	closed bool
	ch     chan []reveal.Entry
}

func New() *Observer {
	return &Observer{observed: make(chan *Subscription, 64)}
}

func (o *Observer) Observe(ctx context.Context, targets []string, opts reveal.Options) (<-chan []reveal.Entry, error) {
	if o.Err != nil {
		return nil, o.Err
	}
	if len(targets) == 0 {
		return nil, reveal.ErrNoTarget
	}

	sub := &Subscription{
		Targets: slices.Clone(targets),
		Options: opts,
		ctx:     ctx,
		ch:      make(chan []reveal.Entry),
	}
	go func() {
		<-ctx.Done()
		sub.mu.Lock()
		sub.closed = true
		close(sub.ch)
		sub.mu.Unlock()
	}()

	o.mu.Lock()
	o.subs = append(o.subs, sub)
	o.mu.Unlock()
	o.observed <- sub
	return sub.ch, nil
}

// Next waits up to d for the next Observe call. It returns nil on timeout.
func (o *Observer) Next(d time.Duration) *Subscription {
	select {
	case sub := <-o.observed:
		return sub
	case <-time.After(d):
		return nil
	}
}

// Subscriptions returns every Observe call so far.
func (o *Observer) Subscriptions() []*Subscription {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.subs)
}

// Send delivers one batch and blocks until the reader received it. It reports
// false when the subscription has already been released.
func (s *Subscription) Send(batch ...reveal.Entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.ch <- batch:
		return true
	case <-s.ctx.Done():
		return false
	}
}

// Released reports whether the subscription's context is done.
func (s *Subscription) Released() bool {
	return s.ctx.Err() != nil
}

// Visible is a qualifying entry for target.
func Visible(target string) reveal.Entry {
	return reveal.Entry{Target: target, Ratio: 1, Intersecting: true}
}

// Hidden is a non-intersecting entry for target.
func Hidden(target string) reveal.Entry {
	return reveal.Entry{Target: target}
}
