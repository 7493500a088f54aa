// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/GermanBionicSystems/binclock/timekeeper"
)

// stop runs awaitStop with a loop that returns loopErr once ctx is done,
// or immediately if early is set.
func stop(t *testing.T, sig os.Signal, early error) error {
	t.Helper()
	sigCh := make(chan os.Signal, 1)
	loopDoneCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if early != nil {
		loopDoneCh <- early
	} else {
		go func() {
			<-ctx.Done()
			loopDoneCh <- ctx.Err()
		}()
	}
	if sig != nil {
		sigCh <- sig
	}
	done := make(chan error, 1)
	go func() {
		done <- awaitStop(sigCh, nil, loopDoneCh, cancel)
	}()
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("awaitStop did not return")
		return nil
	}
}

func TestAwaitStopSignal(t *testing.T) {
	if err := stop(t, syscall.SIGTERM, nil); err != nil {
		t.Errorf("expected a clean stop, got %v", err)
	}
}

func TestAwaitStopLoopExit(t *testing.T) {
	boom := errors.New("ticks closed")
	if err := stop(t, nil, boom); !errors.Is(err, boom) {
		t.Errorf("expected the loop error, got %v", err)
	}
}

func TestSeed(t *testing.T) {
	k := timekeeper.New()
	seed(k, time.Date(2024, time.February, 29, 23, 59, 58, 300e6, time.UTC))
	if got := k.Date(); got != (timekeeper.CalendarDate{Day: 29, Month: 2, Year: 24}) {
		t.Errorf("date %s", got)
	}
	if got := k.Time(); got != (timekeeper.ClockTime{Tenths: 3, Seconds: 58, Minutes: 59, Hours: 23}) {
		t.Errorf("time %s", got)
	}
}
