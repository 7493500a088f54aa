// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package buttons

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func newSampler(t *testing.T) (*Sampler, *gpiotest.Pin, *gpiotest.Pin) {
	mode := &gpiotest.Pin{N: "MODE", Num: 17}
	incr := &gpiotest.Pin{N: "INCR", Num: 27}
	opts := DefaultOpts
	opts.ModePin = mode
	opts.IncrementPin = incr
	s, err := New(&opts)
	if err != nil {
		t.Fatal(err)
	}
	return s, mode, incr
}

func press(t *testing.T, p *gpiotest.Pin, pressed bool) {
	if err := p.Out(gpio.Level(!pressed)); err != nil {
		t.Fatal(err)
	}
}

func TestNewPullUp(t *testing.T) {
	_, mode, incr := newSampler(t)
	for _, p := range []*gpiotest.Pin{mode, incr} {
		if p.Pull() != gpio.PullUp {
			t.Errorf("%s pull = %s, expected PullUp", p, p.Pull())
		}
		if p.Read() != gpio.High {
			t.Errorf("%s must idle high", p)
		}
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(&Opts{ShortHold: 3, LongHold: 5}); !errors.Is(err, errNoPin) {
		t.Errorf("expected errNoPin, got %v", err)
	}
	opts := Opts{ModePin: &gpiotest.Pin{}, IncrementPin: &gpiotest.Pin{}}
	if _, err := New(&opts); !errors.Is(err, errBadThresholds) {
		t.Errorf("expected errBadThresholds, got %v", err)
	}
}

func TestLongHoldFiresOnce(t *testing.T) {
	s, mode, _ := newSampler(t)
	press(t, mode, true)
	var crossings []int
	for tick := 1; tick <= 6; tick++ {
		s.Sample()
		if s.CrossedLongHold(Mode) {
			crossings = append(crossings, tick)
		}
	}
	if len(crossings) != 1 || crossings[0] != 5 {
		t.Errorf("long hold crossings at ticks %v, expected [5]", crossings)
	}
	if s.Held(Mode) != 6 {
		t.Errorf("Held() = %d, expected 6", s.Held(Mode))
	}
}

func TestShortHoldFiresOnce(t *testing.T) {
	s, _, incr := newSampler(t)
	press(t, incr, true)
	var crossings []int
	for tick := 1; tick <= 10; tick++ {
		s.Sample()
		if s.CrossedShortHold(Increment) {
			crossings = append(crossings, tick)
		}
		if s.CrossedLongHold(Mode) || s.CrossedShortHold(Mode) {
			t.Fatalf("tick %d: mode button reported a hold", tick)
		}
	}
	if len(crossings) != 1 || crossings[0] != 3 {
		t.Errorf("short hold crossings at ticks %v, expected [3]", crossings)
	}
}

func TestAckRepeats(t *testing.T) {
	s, _, incr := newSampler(t)
	press(t, incr, true)
	var crossings []int
	for tick := 1; tick <= 9; tick++ {
		s.Sample()
		if s.CrossedShortHold(Increment) {
			crossings = append(crossings, tick)
			s.Ack(Increment)
			if s.CrossedShortHold(Increment) {
				t.Fatal("an acknowledged crossing must not be reported again")
			}
		}
	}
	expected := []int{3, 6, 9}
	if len(crossings) != len(expected) {
		t.Fatalf("crossings at %v, expected %v", crossings, expected)
	}
	for i := range expected {
		if crossings[i] != expected[i] {
			t.Errorf("crossings at %v, expected %v", crossings, expected)
		}
	}
}

func TestReleaseResets(t *testing.T) {
	s, mode, _ := newSampler(t)
	for range 4 {
		press(t, mode, true)
		s.Sample()
		s.Sample()
		s.Sample()
		s.Sample()
		press(t, mode, false)
		s.Sample()
		if s.Held(Mode) != 0 {
			t.Fatalf("Held() = %d after release", s.Held(Mode))
		}
		if s.CrossedLongHold(Mode) {
			t.Fatal("holds shorter than the threshold must not cross")
		}
	}
}

func TestSaturates(t *testing.T) {
	s, mode, _ := newSampler(t)
	press(t, mode, true)
	crossings := 0
	for range 1000 {
		s.Sample()
		if s.CrossedLongHold(Mode) {
			crossings++
		}
	}
	if crossings != 1 {
		t.Errorf("got %d crossings for a single endless hold", crossings)
	}
	if s.Held(Mode) != maxCount {
		t.Errorf("Held() = %d, expected %d", s.Held(Mode), maxCount)
	}
}

func TestInvalidButton(t *testing.T) {
	s, _, _ := newSampler(t)
	s.Ack(Button(7))
	if s.Held(Button(-1)) != 0 || s.CrossedLongHold(Button(2)) {
		t.Error("invalid buttons must report nothing")
	}
}

func TestParseButton(t *testing.T) {
	for _, name := range []string{"mode", "incr", "increment"} {
		if _, err := ParseButton(name); err != nil {
			t.Error(err)
		}
	}
	if _, err := ParseButton("reset"); err == nil {
		t.Error("expected an error")
	}
	if Mode.String() != "mode" || Increment.String() != "increment" {
		t.Error("unexpected button names")
	}
}
