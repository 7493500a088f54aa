// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package buttons samples the two push-buttons of the clock once per tick and
// turns continuous presses into hold events.
//
// Each button has a counter of consecutive ticks it was seen pressed. A hold
// event fires once, on the tick the counter reaches a threshold. Acknowledging
// the event resets the counter so a fresh hold is needed to fire it again.
//
// The buttons are wired active low with the pull-ups enabled: a pressed button
// reads gpio.Low.
package buttons

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Button identifies one of the two push-buttons.
type Button int

const (
	// Mode enters and leaves set mode and selects the edited field.
	Mode Button = iota
	// Increment edits the selected field and blanks the display.
	Increment

	numButtons = 2
)

func (b Button) String() string {
	switch b {
	case Mode:
		return "mode"
	case Increment:
		return "increment"
	}
	return fmt.Sprintf("Button(%d)", int(b))
}

// ParseButton returns the button with the given name.
func ParseButton(s string) (Button, error) {
	switch s {
	case "mode":
		return Mode, nil
	case "incr", "increment":
		return Increment, nil
	}
	return 0, fmt.Errorf("buttons: unknown button %q", s)
}

// Opts holds the configuration of a Sampler.
type Opts struct {
	// ModePin and IncrementPin are the inputs the buttons are wired to.
	ModePin      gpio.PinIn
	IncrementPin gpio.PinIn
	// ShortHold is the number of pressed ticks for a short hold, used to
	// repeat edits.
	ShortHold int
	// LongHold is the number of pressed ticks for a long hold, used to
	// switch modes.
	LongHold int
}

// DefaultOpts is the recommended configuration, without the pins. At 10
// ticks per second a short hold is 0.3s and a long hold 0.5s.
var DefaultOpts = Opts{
	ShortHold: 3,
	LongHold:  5,
}

// maxCount is where the counters saturate.
const maxCount = 127

var (
	errNoPin         = errors.New("buttons: a pin is required for each button")
	errBadThresholds = errors.New("buttons: thresholds must be between 1 and 126")
)

// Sampler accumulates the press time of each button.
//
// It is not safe for concurrent use; it is owned by the clock loop.
type Sampler struct {
	pins  [numButtons]gpio.PinIn
	count [numButtons]int
	prev  [numButtons]int
	short int
	long  int
}

// New configures both pins as inputs with pull-ups and returns a Sampler.
func New(opts *Opts) (*Sampler, error) {
	if opts.ModePin == nil || opts.IncrementPin == nil {
		return nil, errNoPin
	}
	if opts.ShortHold <= 0 || opts.LongHold <= 0 || opts.ShortHold >= maxCount || opts.LongHold >= maxCount {
		return nil, errBadThresholds
	}
	s := &Sampler{
		pins:  [numButtons]gpio.PinIn{Mode: opts.ModePin, Increment: opts.IncrementPin},
		short: opts.ShortHold,
		long:  opts.LongHold,
	}
	for b, p := range s.pins {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("buttons: configuring %s pin %s: %w", Button(b), p, err)
		}
	}
	return s, nil
}

// Sample reads both buttons once. A pressed button has its counter
// incremented, a released one has it reset to 0.
func (s *Sampler) Sample() {
	for b, p := range s.pins {
		s.prev[b] = s.count[b]
		if p.Read() == gpio.Low {
			// Saturate so an endless press never wraps around a threshold.
			if s.count[b] < maxCount {
				s.count[b]++
			}
		} else {
			s.count[b] = 0
		}
	}
}

// CrossedShortHold reports whether the last Sample took b's counter past
// the short hold threshold.
func (s *Sampler) CrossedShortHold(b Button) bool {
	return s.crossed(b, s.short)
}

// CrossedLongHold reports whether the last Sample took b's counter past the
// long hold threshold.
func (s *Sampler) CrossedLongHold(b Button) bool {
	return s.crossed(b, s.long)
}

// Ack resets b's counter. The button must be held again for the full
// threshold before another event fires.
func (s *Sampler) Ack(b Button) {
	if b < 0 || b >= numButtons {
		return
	}
	s.count[b] = 0
	s.prev[b] = 0
}

// Held returns the number of consecutive ticks b has been pressed.
func (s *Sampler) Held(b Button) int {
	if b < 0 || b >= numButtons {
		return 0
	}
	return s.count[b]
}

func (s *Sampler) crossed(b Button, threshold int) bool {
	if b < 0 || b >= numButtons {
		return false
	}
	return s.prev[b] < threshold && s.count[b] >= threshold
}

func (s *Sampler) String() string {
	return fmt.Sprintf("Sampler{mode: %d, increment: %d}", s.count[Mode], s.count[Increment])
}
