// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package displaylink

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/host/v3/cpu"
)

// Minimum durations of the bit-banged frame. These are the margins the
// firmware has always used; they are well above the MAX7219 minimums.
const (
	// SetupDelay is the time DIN is held before the rising clock edge.
	SetupDelay = 2 * time.Microsecond
	// ClockHighDelay is the time CLK is held high.
	ClockHighDelay = 4 * time.Microsecond
	// ClockLowDelay is the time CLK is held low after each bit.
	ClockLowDelay = 4 * time.Microsecond
	// FrameDelay is the margin between CS edges and the data bits, and
	// between consecutive frames.
	FrameDelay = 10 * time.Microsecond
)

// BitBangOpts holds the pins of a bit-banged link.
type BitBangOpts struct {
	DIN gpio.PinOut
	CLK gpio.PinOut
	CS  gpio.PinOut
	// Delay waits for at least the given duration. If nil cpu.Nanospin is
	// used, as time.Sleep may oversleep by far more than the frame lasts.
	Delay func(time.Duration)
}

// BitBang sends frames by toggling three GPIO lines.
type BitBang struct {
	mu    sync.Mutex
	din   gpio.PinOut
	clk   gpio.PinOut
	cs    gpio.PinOut
	delay func(time.Duration)
}

var errNoPins = errors.New("displaylink: DIN, CLK and CS pins are required")

// NewBitBang returns a BitBang link with its lines in the idle state: DIN and
// CLK low, CS high.
func NewBitBang(opts *BitBangOpts) (*BitBang, error) {
	if opts.DIN == nil || opts.CLK == nil || opts.CS == nil {
		return nil, errNoPins
	}
	b := &BitBang{din: opts.DIN, clk: opts.CLK, cs: opts.CS, delay: opts.Delay}
	if b.delay == nil {
		b.delay = cpu.Nanospin
	}
	for _, op := range []struct {
		p gpio.PinOut
		l gpio.Level
	}{{b.din, gpio.Low}, {b.clk, gpio.Low}, {b.cs, gpio.High}} {
		if err := op.p.Out(op.l); err != nil {
			return nil, fmt.Errorf("displaylink: idle %s: %w", op.p, err)
		}
	}
	return b, nil
}

// WriteRegister implements Link.
func (b *BitBang) WriteRegister(addr, value byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("displaylink: select: %w", err)
	}
	b.delay(FrameDelay)
	if err := b.sendByte(addr); err != nil {
		return err
	}
	if err := b.sendByte(value); err != nil {
		return err
	}
	b.delay(FrameDelay)
	if err := b.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("displaylink: deselect: %w", err)
	}
	b.delay(FrameDelay)
	return nil
}

// sendByte clocks out data, most significant bit first. The driver latches
// DIN on the rising edge of CLK.
func (b *BitBang) sendByte(data byte) error {
	for range 8 {
		if err := b.din.Out(gpio.Level(data&0x80 != 0)); err != nil {
			return fmt.Errorf("displaylink: data: %w", err)
		}
		b.delay(SetupDelay)
		if err := b.clk.Out(gpio.High); err != nil {
			return fmt.Errorf("displaylink: clock: %w", err)
		}
		b.delay(ClockHighDelay)
		if err := b.clk.Out(gpio.Low); err != nil {
			return fmt.Errorf("displaylink: clock: %w", err)
		}
		b.delay(ClockLowDelay)
		data <<= 1
	}
	return nil
}

// Halt returns the lines to the idle state.
func (b *BitBang) Halt() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return errors.Join(b.din.Out(gpio.Low), b.clk.Out(gpio.Low), b.cs.Out(gpio.High))
}

func (b *BitBang) String() string {
	return fmt.Sprintf("BitBang{DIN: %s, CLK: %s, CS: %s}", b.din, b.clk, b.cs)
}

var _ Link = &BitBang{}
