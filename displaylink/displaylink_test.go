// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package displaylink

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"periph.io/x/conn/v3/conntest"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/spi/spitest"
)

// event is either a pin level change or a delay.
type event struct {
	pin   string
	level gpio.Level
	delay time.Duration
}

type trace struct {
	events []event
}

func (tr *trace) delay(d time.Duration) {
	tr.events = append(tr.events, event{delay: d})
}

// tracePin records every Out call in a shared trace.
type tracePin struct {
	*gpiotest.Pin
	tr  *trace
	err error
}

func (p *tracePin) Out(l gpio.Level) error {
	if p.err != nil {
		return p.err
	}
	p.tr.events = append(p.tr.events, event{pin: p.N, level: l})
	return p.Pin.Out(l)
}

func newBitBang(t *testing.T) (*BitBang, *trace, map[string]*tracePin) {
	tr := &trace{}
	pins := map[string]*tracePin{}
	for _, name := range []string{"DIN", "CLK", "CS"} {
		pins[name] = &tracePin{Pin: &gpiotest.Pin{N: name}, tr: tr}
	}
	b, err := NewBitBang(&BitBangOpts{DIN: pins["DIN"], CLK: pins["CLK"], CS: pins["CS"], Delay: tr.delay})
	if err != nil {
		t.Fatal(err)
	}
	return b, tr, pins
}

// decodeFrames replays a trace and returns the 16 bit words clocked in while
// CS was low, checking the timing margins on the way.
func decodeFrames(t *testing.T, events []event) []uint16 {
	var frames []uint16
	levels := map[string]gpio.Level{"CS": gpio.High}
	var word uint16
	bits := 0
	var pending time.Duration
	lastEdge := ""
	for _, e := range events {
		if e.pin == "" {
			pending += e.delay
			continue
		}
		switch {
		case e.pin == "CLK" && e.level == gpio.High:
			if levels["CS"] != gpio.Low {
				t.Errorf("clock edge with CS high")
			}
			if lastEdge == "DIN" && pending < SetupDelay {
				t.Errorf("data setup %s, expected at least %s", pending, SetupDelay)
			}
			word = word<<1 | uint16(b2i(levels["DIN"]))
			bits++
		case e.pin == "CLK" && e.level == gpio.Low:
			if pending < ClockHighDelay {
				t.Errorf("clock high for %s, expected at least %s", pending, ClockHighDelay)
			}
		case e.pin == "CS" && e.level == gpio.Low:
			if pending < FrameDelay && len(frames) > 0 {
				t.Errorf("frame gap %s, expected at least %s", pending, FrameDelay)
			}
			word, bits = 0, 0
		case e.pin == "CS" && e.level == gpio.High:
			if pending < FrameDelay {
				t.Errorf("CS hold %s, expected at least %s", pending, FrameDelay)
			}
			if bits != 16 {
				t.Errorf("frame with %d bits", bits)
			}
			frames = append(frames, word)
		case e.pin == "DIN" && lastEdge == "CLK" && levels["CS"] == gpio.Low:
			if pending < ClockLowDelay {
				t.Errorf("clock low for %s, expected at least %s", pending, ClockLowDelay)
			}
		}
		levels[e.pin] = e.level
		lastEdge = e.pin
		pending = 0
	}
	return frames
}

func b2i(l gpio.Level) int {
	if l {
		return 1
	}
	return 0
}

func TestBitBangIdle(t *testing.T) {
	_, tr, pins := newBitBang(t)
	if pins["CS"].Read() != gpio.High || pins["CLK"].Read() != gpio.Low || pins["DIN"].Read() != gpio.Low {
		t.Errorf("unexpected idle state: %v", tr.events)
	}
}

func TestBitBangFrame(t *testing.T) {
	b, tr, pins := newBitBang(t)
	tr.events = nil
	writes := []Write{{RegShutdown, ShutdownOn}, {RegScanLimit, ScanAllDigits}, {0x08, 0xa5}, {0x01, 0x80}}
	for _, w := range writes {
		if err := b.WriteRegister(w.Addr, w.Value); err != nil {
			t.Fatal(err)
		}
	}
	frames := decodeFrames(t, tr.events)
	if len(frames) != len(writes) {
		t.Fatalf("decoded %d frames, expected %d", len(frames), len(writes))
	}
	for i, w := range writes {
		expected := uint16(w.Addr)<<8 | uint16(w.Value)
		if frames[i] != expected {
			t.Errorf("frame %d = 0x%04x, expected 0x%04x", i, frames[i], expected)
		}
	}
	if pins["CS"].Read() != gpio.High {
		t.Error("CS must be released after a frame")
	}
	// The last event of a frame is the trailing margin.
	last := tr.events[len(tr.events)-1]
	if last.pin != "" || last.delay < FrameDelay {
		t.Errorf("frame must end with a %s margin, got %+v", FrameDelay, last)
	}
}

func TestBitBangDefaultDelay(t *testing.T) {
	b, err := NewBitBang(&BitBangOpts{
		DIN: &gpiotest.Pin{N: "DIN"},
		CLK: &gpiotest.Pin{N: "CLK"},
		CS:  &gpiotest.Pin{N: "CS"},
	})
	if err != nil {
		t.Fatal(err)
	}
	want := 3*FrameDelay + 16*(SetupDelay+ClockHighDelay+ClockLowDelay)
	start := time.Now()
	if err := b.WriteRegister(RegIntensity, 2); err != nil {
		t.Fatal(err)
	}
	if d := time.Since(start); d < want {
		t.Errorf("frame took %s, expected at least %s", d, want)
	}
}

func TestBitBangErrors(t *testing.T) {
	if _, err := NewBitBang(&BitBangOpts{}); !errors.Is(err, errNoPins) {
		t.Errorf("expected errNoPins, got %v", err)
	}
	b, _, pins := newBitBang(t)
	boom := errors.New("boom")
	pins["CLK"].err = boom
	if err := b.WriteRegister(1, 1); !errors.Is(err, boom) {
		t.Errorf("expected wrapped pin error, got %v", err)
	}
}

func TestBitBangHalt(t *testing.T) {
	b, _, pins := newBitBang(t)
	_ = pins["CS"].Out(gpio.Low)
	if err := b.Halt(); err != nil {
		t.Fatal(err)
	}
	if pins["CS"].Read() != gpio.High {
		t.Error("Halt must release CS")
	}
}

func TestSPI(t *testing.T) {
	record := &spitest.Record{}
	defer record.Close()
	s, err := NewSPI(record)
	if err != nil {
		t.Fatal(err)
	}
	_ = s.WriteRegister(RegShutdown, ShutdownOn)
	_ = WriteRow(s, 8, 59)
	_ = WriteRow(s, 1, 0x84)
	expected := []conntest.IO{
		{W: []byte{0x0c, 0x01}},
		{W: []byte{0x08, 59}},
		{W: []byte{0x01, 0x84}},
	}
	if err := verifyOperations(record.Ops, expected); err != nil {
		t.Error(err)
	}
}

func TestSPIError(t *testing.T) {
	pb := &spitest.Playback{Playback: conntest.Playback{DontPanic: true}}
	defer pb.Close()
	s, err := NewSPI(pb)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.WriteRegister(RegIntensity, 3); err == nil {
		t.Error("expected an error from an exhausted playback")
	}
}

func verifyOperations(found, expected []conntest.IO) error {
	if len(found) != len(expected) {
		return fmt.Errorf("invalid length. found length: %d expected length: %d", len(found), len(expected))
	}
	for outer := range len(expected) {
		if len(found[outer].W) != len(expected[outer].W) {
			return fmt.Errorf("operation %d has %d bytes, expected %d", outer, len(found[outer].W), len(expected[outer].W))
		}
		for inner := range len(found[outer].W) {
			if expected[outer].W[inner] != found[outer].W[inner] {
				return fmt.Errorf("data not as expected. found[%d][%d]=0x%x expected 0x%x",
					outer,
					inner,
					found[outer].W[inner],
					expected[outer].W[inner])
			}
		}
	}
	return nil
}

func TestWriteRow(t *testing.T) {
	r := &Recorder{}
	for _, row := range []int{0, 9} {
		if err := WriteRow(r, row, 1); !errors.Is(err, ErrRow) {
			t.Errorf("WriteRow(%d) expected ErrRow, got %v", row, err)
		}
	}
	for row := 1; row <= NumRows; row++ {
		if err := WriteRow(r, row, byte(row)); err != nil {
			t.Fatal(err)
		}
	}
	writes := r.Writes()
	if len(writes) != NumRows {
		t.Fatalf("got %d writes", len(writes))
	}
	for i, w := range writes {
		if w.Addr != byte(i+1) || w.Value != byte(i+1) {
			t.Errorf("write %d = %s", i, w)
		}
	}
	r.Reset()
	if len(r.Writes()) != 0 {
		t.Error("Reset must discard writes")
	}
}
