// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package binclock

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticksCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binclock_ticks_total",
		Help: "count of ticks processed by the clock loop",
	})

	missedTicksCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binclock_missed_ticks_total",
		Help: "count of ticks dropped because the previous tick was still being processed",
	})

	modeTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "binclock_mode_transitions_total",
		Help: "count of mode changes, by the mode entered",
	}, []string{"mode"})

	modeGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "binclock_mode",
		Help: "current mode: 0 normal, 1 set, 2 blanked",
	})

	fieldEdits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "binclock_field_edits_total",
		Help: "count of increments applied in set mode, by field",
	}, []string{"field"})

	linkErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "binclock_link_errors_total",
		Help: "count of display register writes that failed",
	})
)

// MissedTick counts a tick that was dropped before reaching the clock loop.
// It is meant to be used as ticksource.Source.OnMissed.
func MissedTick() {
	missedTicksCounter.Inc()
}
