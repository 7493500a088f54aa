// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package binclock

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/binclock/displaylink"
	"github.com/GermanBionicSystems/binclock/timekeeper"
)

// highlightBit marks the edited row. Every field fits in the lower 7 bits.
const (
	highlightBit byte = 0x80
	valueMask    byte = 0x7f
)

// renderOrder is the order rows are sent in: 8, 7, 6, 4, 3, 2, 1.
var renderOrder = [...]timekeeper.Field{
	timekeeper.Second,
	timekeeper.Minute,
	timekeeper.Hour,
	timekeeper.Day,
	timekeeper.Month,
	timekeeper.Year,
	timekeeper.Intensity,
}

// State is a snapshot of everything drawn on the display.
type State struct {
	Mode      Mode
	Field     timekeeper.Field
	Blink     int
	Time      timekeeper.ClockTime
	Date      timekeeper.CalendarDate
	Intensity int
}

func (s State) value(f timekeeper.Field) int {
	switch f {
	case timekeeper.Second:
		return s.Time.Seconds
	case timekeeper.Minute:
		return s.Time.Minutes
	case timekeeper.Hour:
		return s.Time.Hours
	case timekeeper.Day:
		return s.Date.Day
	case timekeeper.Month:
		return s.Date.Month
	case timekeeper.Year:
		return s.Date.Year
	case timekeeper.Intensity:
		return s.Intensity
	}
	return 0
}

func (s State) String() string {
	if s.Mode == Set {
		return fmt.Sprintf("%s(%s) %s %s", s.Mode, s.Field, s.Date, s.Time)
	}
	return fmt.Sprintf("%s %s %s", s.Mode, s.Date, s.Time)
}

// Row is the value of one display row.
type Row struct {
	Row   int
	Value byte
}

// Rows returns the rows to draw for s, in the order they are sent. Blanked
// mode draws nothing.
func Rows(s State) []Row {
	if s.Mode == Blanked {
		return nil
	}
	rows := make([]Row, 0, len(renderOrder))
	for _, f := range renderOrder {
		v := byte(s.value(f)) & valueMask
		switch {
		case s.Mode != Set:
			if f == timekeeper.Intensity {
				v = 0
			}
		case f == s.Field:
			if s.Blink < blinkOn {
				v |= highlightBit
			}
		case f == timekeeper.Intensity:
			v = 0
		}
		rows = append(rows, Row{Row: f.Row(), Value: v})
	}
	return rows
}

// Renderer sends rows to the display.
type Renderer struct {
	link displaylink.Link
	skip bool
	// last holds the value last sent to each row, or -1 when unknown.
	last [displaylink.NumRows + 1]int
}

// NewRenderer returns a Renderer writing to link. If skipUnchanged is set
// rows are only sent when their value changed.
func NewRenderer(link displaylink.Link, skipUnchanged bool) *Renderer {
	r := &Renderer{link: link, skip: skipUnchanged}
	r.Invalidate()
	return r
}

// Render draws s. All rows are attempted; the errors are joined.
func (r *Renderer) Render(s State) error {
	var errs []error
	for _, row := range Rows(s) {
		if err := r.WriteRow(row.Row, row.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WriteRow sends one row, unless it is known to hold value already and
// unchanged rows are skipped.
func (r *Renderer) WriteRow(row int, value byte) error {
	if row < 1 || row > displaylink.NumRows {
		return fmt.Errorf("%w: %d", displaylink.ErrRow, row)
	}
	if r.skip && r.last[row] == int(value) {
		return nil
	}
	if err := displaylink.WriteRow(r.link, row, value); err != nil {
		r.last[row] = -1
		return err
	}
	r.last[row] = int(value)
	return nil
}

// Clear sets all eight rows to 0.
func (r *Renderer) Clear() error {
	var errs []error
	for row := 1; row <= displaylink.NumRows; row++ {
		if err := displaylink.WriteRow(r.link, row, 0); err != nil {
			r.last[row] = -1
			errs = append(errs, err)
			continue
		}
		r.last[row] = 0
	}
	return errors.Join(errs...)
}

// Invalidate forgets what the rows hold so the next Render sends them all.
func (r *Renderer) Invalidate() {
	for i := range r.last {
		r.last[i] = -1
	}
}
