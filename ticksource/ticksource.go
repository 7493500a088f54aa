// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ticksource delivers the heartbeat of the clock.
//
// A Source owns a channel with room for a single pending tick. Each period
// the source tries to put a tick in the slot without blocking. If the
// consumer has not taken the previous tick yet the new one is dropped, so a
// slow consumer never sees a backlog of stale ticks.
package ticksource

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPeriod is one tenth of a second.
const DefaultPeriod = 100 * time.Millisecond

// Source produces one tick per period.
type Source struct {
	clock  clockwork.Clock
	period time.Duration
	ch     chan struct{}
	sent   atomic.Uint64
	missed atomic.Uint64

	// OnMissed, if set, is called from Run for every dropped tick.
	OnMissed func()
}

// New returns a Source ticking every period on clock. A nil clock uses the
// real time; a non-positive period uses DefaultPeriod.
func New(clock clockwork.Clock, period time.Duration) *Source {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Source{clock: clock, period: period, ch: make(chan struct{}, 1)}
}

// C returns the channel ticks are delivered on.
func (s *Source) C() <-chan struct{} {
	return s.ch
}

// Period returns the tick period.
func (s *Source) Period() time.Duration {
	return s.period
}

// Run produces ticks until ctx is cancelled, then returns ctx.Err().
func (s *Source) Run(ctx context.Context) error {
	t := s.clock.NewTicker(s.period)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.Chan():
			s.Fire()
		}
	}
}

// Fire delivers one tick without blocking. It reports false when the
// previous tick has not been consumed, in which case this one is dropped.
func (s *Source) Fire() bool {
	select {
	case s.ch <- struct{}{}:
		s.sent.Add(1)
		return true
	default:
		s.missed.Add(1)
		if s.OnMissed != nil {
			s.OnMissed()
		}
		return false
	}
}

// Sent returns the number of ticks delivered to the slot.
func (s *Source) Sent() uint64 {
	return s.sent.Load()
}

// Missed returns the number of ticks dropped because the slot was full.
func (s *Source) Missed() uint64 {
	return s.missed.Load()
}
