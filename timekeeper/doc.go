// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package timekeeper keeps the running time of day, the calendar date and the
// display intensity of the binary clock.
//
// The clock advances one tenth of a second per call to Advance, carrying into
// seconds, minutes, hours, days, months and years. Fields can also be edited
// one at a time with Increment, which wraps the edited field without carrying
// into the next one.
//
// Years are stored as two digits and every year divisible by four is a leap
// year. There is no centurial exception.
package timekeeper
