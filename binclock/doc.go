// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package binclock runs a binary clock and calendar on an 8x8 LED matrix
// driven by a MAX7219, with two push-buttons to set it.
//
// Each tick the clock samples the buttons, advances the time unless it is
// being set, applies mode changes and redraws the rows:
//
//	row 8  seconds
//	row 7  minutes
//	row 6  hours
//	row 5  unused
//	row 4  day of month
//	row 3  month
//	row 2  two digit year
//	row 1  intensity, only while it is being set
//
// # Modes
//
// In Normal mode the time runs and is displayed. Holding MODE for half a
// second enters Set mode, holding INCREMENT for half a second blanks the
// display (Blanked mode) and holding it again turns the display back on.
//
// In Set mode the time is frozen. The edited row blinks by toggling its top
// LED. Holding INCREMENT for 0.3s adds one to the edited field, repeating
// while held. Holding MODE moves to the next field; moving past the seconds
// returns to Normal mode.
package binclock
