// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package binclock

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/GermanBionicSystems/binclock/displaylink"
	"github.com/GermanBionicSystems/binclock/timekeeper"
)

// Opts holds the configuration of a Clock.
type Opts struct {
	// EntryField is the field selected when Set mode is entered.
	EntryField timekeeper.Field
	// SkipUnchanged only sends rows whose value changed since the last tick.
	SkipUnchanged bool
}

// DefaultOpts enters Set mode on the intensity so that one pass of MODE
// holds visits every field before returning to Normal mode.
var DefaultOpts = Opts{
	EntryField: timekeeper.Intensity,
}

var errNil = errors.New("binclock: link, keeper and input are required")

// Clock ties the time keeper, the buttons and the display together.
type Clock struct {
	link   displaylink.Link
	keeper *timekeeper.Keeper
	input  Input
	ctrl   *Controller
	render *Renderer

	// mu is held while a tick runs so State never sees half a tick.
	mu sync.Mutex
}

// New returns a Clock. Start must be called before the first tick.
func New(link displaylink.Link, keeper *timekeeper.Keeper, input Input, opts *Opts) (*Clock, error) {
	if link == nil || keeper == nil || input == nil {
		return nil, errNil
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	render := NewRenderer(link, opts.SkipUnchanged)
	c := &Clock{
		link:   link,
		keeper: keeper,
		input:  input,
		ctrl:   NewController(link, render, opts.EntryField),
		render: render,
	}
	modeGauge.Set(float64(Normal))
	return c, nil
}

// Start brings the display up: power on, scan all eight rows, set the
// intensity and clear every row.
func (c *Clock) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, cmd := range [][2]byte{
		{displaylink.RegShutdown, displaylink.ShutdownOn},
		{displaylink.RegScanLimit, displaylink.ScanAllDigits},
		{displaylink.RegIntensity, byte(c.keeper.Intensity())},
	} {
		if err := c.link.WriteRegister(cmd[0], cmd[1]); err != nil {
			return fmt.Errorf("binclock: start: %w", err)
		}
	}
	if err := c.render.Clear(); err != nil {
		return fmt.Errorf("binclock: start: %w", err)
	}
	return nil
}

// Step runs one tick to completion.
func (c *Clock) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	ticksCounter.Inc()

	c.input.Sample()
	if c.ctrl.Mode() != Set {
		c.keeper.Advance()
	}
	prev := c.ctrl.Mode()
	c.ctrl.Evaluate(c.input, c.keeper)
	if prev == Blanked && c.ctrl.Mode() != Blanked {
		c.render.Invalidate()
	}
	if err := c.render.Render(c.stateLocked()); err != nil {
		linkError(err)
	}
	c.ctrl.Tick()
}

// Run processes one tick per receive on ticks until ctx is cancelled.
func (c *Clock) Run(ctx context.Context, ticks <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-ticks:
			if !ok {
				return errors.New("binclock: tick source closed")
			}
			c.Step()
		}
	}
}

// Shutdown blanks the display.
func (c *Clock) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.link.WriteRegister(displaylink.RegShutdown, displaylink.ShutdownOff); err != nil {
		return fmt.Errorf("binclock: shutdown: %w", err)
	}
	return nil
}

// State returns a snapshot of the clock.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Clock) stateLocked() State {
	return State{
		Mode:      c.ctrl.Mode(),
		Field:     c.ctrl.Field(),
		Blink:     c.ctrl.Blink(),
		Time:      c.keeper.Time(),
		Date:      c.keeper.Date(),
		Intensity: c.keeper.Intensity(),
	}
}

func (c *Clock) String() string {
	return c.State().String()
}
