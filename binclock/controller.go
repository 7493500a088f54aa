// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package binclock

import (
	"fmt"
	"log"

	"github.com/GermanBionicSystems/binclock/buttons"
	"github.com/GermanBionicSystems/binclock/displaylink"
	"github.com/GermanBionicSystems/binclock/timekeeper"
)

// Mode is the interaction mode of the clock.
type Mode int

const (
	// Normal runs and displays the clock.
	Normal Mode = iota
	// Set freezes the clock and edits one field at a time.
	Set
	// Blanked runs the clock with the display shut down.
	Blanked
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Set:
		return "set"
	case Blanked:
		return "blanked"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// blinkPeriod is the length of a blink cycle in ticks; the edited row is
// highlighted for the first blinkOn ticks of each cycle.
const (
	blinkPeriod = 10
	blinkOn     = 4
)

// Input is the per tick view of the buttons. It is implemented by
// *buttons.Sampler.
type Input interface {
	Sample()
	CrossedShortHold(b buttons.Button) bool
	CrossedLongHold(b buttons.Button) bool
	Ack(b buttons.Button)
}

// Controller is the mode state machine.
type Controller struct {
	link  displaylink.Link
	rows  *Renderer
	entry timekeeper.Field
	mode  Mode
	field timekeeper.Field
	blink int
}

// NewController returns a Controller in Normal mode. Rows it clears itself
// go through rows so its cache stays accurate; if nil, rows are written to
// link directly. entry is the field selected when Set mode is entered.
func NewController(link displaylink.Link, rows *Renderer, entry timekeeper.Field) *Controller {
	if !entry.Valid() {
		entry = timekeeper.FirstField
	}
	if rows == nil {
		rows = NewRenderer(link, false)
	}
	return &Controller{link: link, rows: rows, entry: entry, field: entry}
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Field returns the field edited in Set mode.
func (c *Controller) Field() timekeeper.Field {
	return c.field
}

// Blink returns the blink phase, 0 to 9.
func (c *Controller) Blink() int {
	return c.blink
}

// Highlight reports whether the edited row is lit in the current blink
// phase.
func (c *Controller) Highlight() bool {
	return c.blink < blinkOn
}

// Evaluate applies the transitions triggered by the hold events of this
// tick. Events that cause a transition are acknowledged.
//
// Both buttons are checked on every tick, MODE first. When both cross in
// Normal mode the clock ends up Blanked, and an INCREMENT press crossing on
// the tick Set mode is left still edits the intensity.
func (c *Controller) Evaluate(in Input, k *timekeeper.Keeper) {
	switch c.mode {
	case Normal:
		if in.CrossedLongHold(buttons.Mode) {
			in.Ack(buttons.Mode)
			c.field = c.entry
			c.blink = 0
			c.enter(Set)
		}
		if in.CrossedLongHold(buttons.Increment) {
			in.Ack(buttons.Increment)
			c.enter(Blanked)
			c.write(displaylink.RegShutdown, displaylink.ShutdownOff)
		}
	case Set:
		if in.CrossedLongHold(buttons.Mode) {
			in.Ack(buttons.Mode)
			next, wrapped := c.field.Next()
			c.field = next
			if wrapped {
				c.enter(Normal)
				// Row 1 is only drawn while setting.
				c.writeRow(timekeeper.Intensity.Row(), 0)
			}
		}
		if in.CrossedShortHold(buttons.Increment) {
			in.Ack(buttons.Increment)
			k.Increment(c.field)
			fieldEdits.WithLabelValues(c.field.String()).Inc()
			if c.field == timekeeper.Intensity {
				c.write(displaylink.RegIntensity, byte(k.Intensity()))
			}
		}
	case Blanked:
		if in.CrossedLongHold(buttons.Increment) {
			in.Ack(buttons.Increment)
			c.enter(Normal)
			c.write(displaylink.RegShutdown, displaylink.ShutdownOn)
		}
	}
}

// Tick advances the blink phase.
func (c *Controller) Tick() {
	c.blink++
	if c.blink >= blinkPeriod {
		c.blink = 0
	}
}

func (c *Controller) enter(m Mode) {
	c.mode = m
	modeTransitions.WithLabelValues(m.String()).Inc()
	modeGauge.Set(float64(m))
}

func (c *Controller) write(addr, value byte) {
	if err := c.link.WriteRegister(addr, value); err != nil {
		linkError(err)
	}
}

func (c *Controller) writeRow(row int, value byte) {
	if err := c.rows.WriteRow(row, value); err != nil {
		linkError(err)
	}
}

// linkError reports a failed display write. Writes are not retried; the
// next tick redraws every row anyway.
func linkError(err error) {
	linkErrors.Inc()
	log.Printf("binclock: %v", err)
}
