// Package reveal tracks when page regions scroll into view.
//
// A Tracker latches once for a single region, a Stagger latches each item of a
// list independently after its parent Tracker has latched. Both consume
// intersection entries from an Observer, which the browser transport implements
// and tests replace with a channel-backed double.
package reveal

import (
	"context"
	"errors"
)

// ErrNoTarget is returned by an Observer asked to watch nothing.
var ErrNoTarget = errors.New("reveal: no target to observe")

// Entry is one intersection report for a region.
type Entry struct {
	Target       string  `json:"target"`
	Ratio        float64 `json:"ratio"`
	Intersecting bool    `json:"intersecting"`
}

// Options mirror the viewport observation parameters the browser understands.
type Options struct {
	Threshold  float64 `json:"threshold"`
	RootMargin string  `json:"root_margin,omitempty"`
}

// Qualifies reports whether e is an intersection at or above the threshold.
func (o Options) Qualifies(e Entry) bool {
	return e.Intersecting && e.Ratio >= o.Threshold
}

// Observer delivers batches of intersection entries for targets until ctx is done.
// Implementations must not block on a reader that has gone away: once ctx is
// done they stop sending, release the observation and close the channel.
type Observer interface {
	Observe(ctx context.Context, targets []string, opts Options) (<-chan []Entry, error)
}
