// Package skeleton decides when a loading placeholder is shown.
//
// A Grace turns its placeholder on as soon as there is no data and keeps it on
// for at most the grace duration, so a request that fails or comes back empty
// almost instantly does not flash the empty state.
package skeleton

import (
	"context"
	"sync"
	"time"
)

// Timer is the part of *time.Timer a Grace needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d, like time.AfterFunc.
type AfterFunc func(d time.Duration, f func()) Timer

type Option func(*Grace)

// WithAfterFunc replaces the timer source.
func WithAfterFunc(fn AfterFunc) Option {
	return func(g *Grace) { g.after = fn }
}

// WithOnChange registers fn to be called whenever Show flips.
func WithOnChange(fn func(show bool)) Option {
	return func(g *Grace) { g.onChange = fn }
}

type Grace struct {
	d        time.Duration
	after    AfterFunc
	onChange func(bool)

	mu      sync.Mutex
	trigger bool
	show    bool
	timer   Timer
	seq     uint64
	closed  bool
	// hidden is closed while show is false
	hidden  chan struct{}
}

func New(d time.Duration, opts ...Option) *Grace {
	g := &Grace{
		d: d,
		after: func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		},
	}
	g.hidden = make(chan struct{})
	close(g.hidden)
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Set updates the "no data yet" trigger. Only changes have an effect.
func (g *Grace) Set(trigger bool) {
	g.mu.Lock()
	if g.closed || trigger == g.trigger {
		g.mu.Unlock()
		return
	}
	g.trigger = trigger
	g.stopLocked()

	prev := g.show
	if trigger && g.d > 0 {
		g.setShowLocked(true)
		seq := g.seq
		g.timer = g.after(g.d, func() { g.expire(seq) })
	} else {
		g.setShowLocked(false)
	}
	changed, show, fn := prev != g.show, g.show, g.onChange
	g.mu.Unlock()

	if changed && fn != nil {
		fn(show)
	}
}

// Show reports whether the placeholder should be visible.
func (g *Grace) Show() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.show
}

// Wait blocks until the placeholder is hidden or ctx is done.
func (g *Grace) Wait(ctx context.Context) error {
	g.mu.Lock()
	hidden := g.hidden
	g.mu.Unlock()

	select {
	case <-hidden:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels the pending timer. Show is false afterwards.
func (g *Grace) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.stopLocked()
	g.setShowLocked(false)
}

func (g *Grace) setShowLocked(show bool) {
	if show == g.show {
		return
	}
	g.show = show
	if show {
		g.hidden = make(chan struct{})
	} else {
		close(g.hidden)
	}
}

func (g *Grace) stopLocked() {
	g.seq++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *Grace) expire(seq uint64) {
	g.mu.Lock()
	// a timer that lost the race with Stop must not flip a newer state
	if g.closed || seq != g.seq || !g.show {
		g.mu.Unlock()
		return
	}
	g.setShowLocked(false)
	g.timer = nil
	fn := g.onChange
	g.mu.Unlock()

	if fn != nil {
		fn(false)
	}
}
