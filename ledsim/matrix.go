// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ledsim emulates the clock hardware on a terminal: a MAX7219 driving
// an 8x8 LED matrix, drawn with ANSI color codes, and two push-buttons.
//
// Useful while the real display is still on the breadboard.
package ledsim

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/GermanBionicSystems/binclock/displaylink"
)

// Opts represents the options available for the emulated matrix.
type Opts struct {
	// W receives the drawing. If nil, a colorable stdout is used.
	W io.Writer
	// Plain draws with ASCII characters and no escape codes, for output that
	// is not a terminal.
	Plain   bool
	Palette *ansi256.Palette

	_ struct{}
}

// Snapshot is the state of the emulated driver.
type Snapshot struct {
	// Rows holds digit registers 1 to 8; bit 7 is the leftmost LED.
	Rows      [displaylink.NumRows]byte
	Intensity byte
	ScanLimit byte
	On        bool
	Test      bool
}

// Lit reports whether the LED at row (0 based, top) and column (0 based,
// left) is on.
func (s Snapshot) Lit(row, col int) bool {
	if s.Test {
		return true
	}
	if !s.On || row > int(s.ScanLimit) {
		return false
	}
	return s.Rows[row]&(0x80>>uint(col)) != 0
}

// Matrix is an emulated MAX7219 with an 8x8 matrix that draws itself to the
// console.
type Matrix struct {
	mu      sync.Mutex
	w       io.Writer
	plain   bool
	palette *ansi256.Palette
	state   Snapshot
	drawn   int
	buf     bytes.Buffer
}

// New returns a Matrix in the MAX7219 power-on state: shut down, scanning a
// single digit, lowest intensity.
func New(opts *Opts) *Matrix {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Matrix{w: w, plain: opts.Plain, palette: p}
}

func (m *Matrix) String() string {
	return "LedSim"
}

// WriteRegister implements displaylink.Link. The matrix is redrawn when the
// write changed what is displayed.
func (m *Matrix) WriteRegister(addr, value byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.state
	switch {
	case addr >= displaylink.RegDigit0 && addr <= displaylink.RegDigit7:
		m.state.Rows[addr-displaylink.RegDigit0] = value
	case addr == displaylink.RegIntensity:
		m.state.Intensity = value & 0x0f
	case addr == displaylink.RegScanLimit:
		m.state.ScanLimit = value & 0x07
	case addr == displaylink.RegShutdown:
		m.state.On = value&0x01 != 0
	case addr == displaylink.RegDisplayTest:
		m.state.Test = value&0x01 != 0
	case addr == displaylink.RegNoop, addr == displaylink.RegDecodeMode:
		// The clock uses the matrix undecoded.
		return nil
	default:
		return fmt.Errorf("ledsim: unknown register 0x%02x", addr)
	}
	if m.state == prev && m.drawn > 0 {
		return nil
	}
	return m.refresh()
}

// Snapshot returns the current register state.
func (m *Matrix) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Halt implements conn.Resource.
//
// It resets the terminal colors so the console is not corrupted.
func (m *Matrix) Halt() error {
	if m.plain {
		return nil
	}
	_, err := m.w.Write([]byte("\033[0m\n"))
	return err
}

// ledColor returns the color of a lit LED at the given intensity. The
// MAX7219 has 16 duty cycle steps.
func ledColor(intensity byte) color.NRGBA {
	return color.NRGBA{R: byte(79 + 11*int(intensity)), G: 8, B: 8, A: 255}
}

var offColor = color.NRGBA{R: 24, G: 24, B: 24, A: 255}

func (m *Matrix) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	m.buf.Reset()
	if !m.plain && m.drawn > 0 {
		// Move back up over the previous drawing.
		fmt.Fprintf(&m.buf, "\033[%dA", m.drawn)
	}
	on := ledColor(m.state.Intensity)
	for row := range displaylink.NumRows {
		fmt.Fprintf(&m.buf, "%d ", row+1)
		for col := range 8 {
			lit := m.state.Lit(row, col)
			switch {
			case m.plain && lit:
				_ = m.buf.WriteByte('#')
			case m.plain:
				_ = m.buf.WriteByte('.')
			case lit:
				_, _ = m.buf.WriteString(m.palette.Block(on))
			default:
				_, _ = m.buf.WriteString(m.palette.Block(offColor))
			}
		}
		if !m.plain {
			_, _ = m.buf.WriteString("\033[0m")
		}
		_ = m.buf.WriteByte('\n')
	}
	if m.plain {
		_, _ = m.buf.WriteString(strings.Repeat("-", 10) + "\n")
	}
	m.drawn = displaylink.NumRows
	_, err := m.buf.WriteTo(m.w)
	return err
}

var _ displaylink.Link = &Matrix{}
var _ fmt.Stringer = &Matrix{}
