// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package displaylink writes registers of a Maxim MAX7219/MAX7221 LED display
// driver.
//
// Every write is a 16 bit frame: the register address byte followed by the
// data byte, both most significant bit first, sent while the chip select line
// is low. The link is write-only; the driver never answers.
//
// Two transports are provided: BitBang toggles three GPIO lines with the
// timing margins of the datasheet, and SPI uses a hardware SPI port.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/MAX7219-MAX7221.pdf
package displaylink

import (
	"errors"
	"fmt"
	"sync"
)

// Register addresses.
const (
	RegNoop        byte = 0x00
	RegDigit0      byte = 0x01
	RegDigit7      byte = 0x08
	RegDecodeMode  byte = 0x09
	RegIntensity   byte = 0x0a
	RegScanLimit   byte = 0x0b
	RegShutdown    byte = 0x0c
	RegDisplayTest byte = 0x0f
)

// Register values.
const (
	// ShutdownOff blanks the display. Register contents are retained.
	ShutdownOff byte = 0x00
	// ShutdownOn resumes normal operation.
	ShutdownOn byte = 0x01
	// ScanAllDigits enables all eight digit registers.
	ScanAllDigits byte = 0x07

	// NumRows is the number of digit registers, which are the rows of an 8x8
	// matrix.
	NumRows = 8
)

// ErrRow is returned when writing a row outside 1 to NumRows.
var ErrRow = errors.New("displaylink: row out of range")

// Link writes one register of the display driver.
type Link interface {
	WriteRegister(addr, value byte) error
}

// WriteRow writes the digit register of row, 1 to NumRows.
func WriteRow(l Link, row int, value byte) error {
	if row < 1 || row > NumRows {
		return fmt.Errorf("%w: %d", ErrRow, row)
	}
	return l.WriteRegister(RegDigit0+byte(row-1), value)
}

// Write is one register write seen by a Recorder.
type Write struct {
	Addr  byte
	Value byte
}

func (w Write) String() string {
	return fmt.Sprintf("{0x%02x, 0x%02x}", w.Addr, w.Value)
}

// Recorder is a Link that keeps every write in memory. Useful for tests and
// for running without a display.
type Recorder struct {
	mu     sync.Mutex
	writes []Write
}

// WriteRegister implements Link.
func (r *Recorder) WriteRegister(addr, value byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = append(r.writes, Write{Addr: addr, Value: value})
	return nil
}

// Writes returns a copy of the recorded writes.
func (r *Recorder) Writes() []Write {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Write(nil), r.writes...)
}

// Reset discards the recorded writes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.writes = nil
}

var _ Link = &Recorder{}
