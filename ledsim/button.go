// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ledsim

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

// Button is an emulated active low push-button. It reads gpio.Low while a
// press is in progress.
type Button struct {
	name  string
	clock clockwork.Clock

	mu    sync.Mutex
	until time.Time
	pull  gpio.Pull
}

// NewButton returns a released button. A nil clock uses the real time.
func NewButton(name string, clock clockwork.Clock) *Button {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Button{name: name, clock: clock, pull: gpio.PullNoChange}
}

// Press holds the button down for d.
func (b *Button) Press(d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.until = b.clock.Now().Add(d)
}

// Release lets go of the button.
func (b *Button) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.until = time.Time{}
}

// String implements conn.Resource.
func (b *Button) String() string {
	return b.name
}

// Halt implements conn.Resource.
func (b *Button) Halt() error {
	b.Release()
	return nil
}

// Name implements pin.Pin.
func (b *Button) Name() string {
	return b.name
}

// Number implements pin.Pin.
func (b *Button) Number() int {
	return -1
}

// Function implements pin.Pin.
func (b *Button) Function() string {
	return "In/" + b.Read().String()
}

// In implements gpio.PinIn. Edge detection is not supported.
func (b *Button) In(pull gpio.Pull, edge gpio.Edge) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pull = pull
	return nil
}

// Read implements gpio.PinIn.
func (b *Button) Read() gpio.Level {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.clock.Now().Before(b.until) {
		return gpio.Low
	}
	return gpio.High
}

// WaitForEdge implements gpio.PinIn. It always times out.
func (b *Button) WaitForEdge(timeout time.Duration) bool {
	if timeout >= 0 {
		b.clock.Sleep(timeout)
	}
	return false
}

// Pull implements gpio.PinIn.
func (b *Button) Pull() gpio.Pull {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pull
}

// DefaultPull implements gpio.PinIn.
func (b *Button) DefaultPull() gpio.Pull {
	return gpio.PullUp
}

var _ gpio.PinIn = &Button{}
