// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package timekeeper

import "fmt"

const (
	// MaxIntensity is the brightest level used by the clock. The MAX7219
	// accepts up to 15.
	MaxIntensity = 4
	// MaxYear is the last two digit year reachable by editing.
	MaxYear = 99
)

// ClockTime is the time of day with a tenth of a second resolution.
type ClockTime struct {
	Tenths  int
	Seconds int
	Minutes int
	Hours   int
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%d", t.Hours, t.Minutes, t.Seconds, t.Tenths)
}

// CalendarDate is a day of a two digit year.
type CalendarDate struct {
	Day   int
	Month int
	Year  int
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%02d-%02d-%02d", d.Year, d.Month, d.Day)
}

// DaysInMonth returns the length of month in year. Every year divisible by
// four is a leap year.
func DaysInMonth(month, year int) int {
	switch month {
	case 2:
		if year%4 == 0 {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Keeper holds the clock, calendar and intensity.
//
// It is not safe for concurrent use; the clock loop owns it.
type Keeper struct {
	time      ClockTime
	date      CalendarDate
	intensity int
}

// New returns a Keeper set to 00:00:00.0 on day 1, month 1, year 0 with
// intensity 0.
func New() *Keeper {
	return &Keeper{date: CalendarDate{Day: 1, Month: 1}}
}

// Time returns the current time of day.
func (k *Keeper) Time() ClockTime {
	return k.time
}

// Date returns the current date.
func (k *Keeper) Date() CalendarDate {
	return k.date
}

// Intensity returns the display intensity, 0 to MaxIntensity.
func (k *Keeper) Intensity() int {
	return k.intensity
}

// SetTime replaces the time of day. Out of range values are clamped.
func (k *Keeper) SetTime(t ClockTime) {
	k.time = ClockTime{
		Tenths:  clamp(t.Tenths, 0, 9),
		Seconds: clamp(t.Seconds, 0, 59),
		Minutes: clamp(t.Minutes, 0, 59),
		Hours:   clamp(t.Hours, 0, 23),
	}
}

// SetDate replaces the date. Out of range values are clamped, the day to the
// length of the month.
func (k *Keeper) SetDate(d CalendarDate) {
	year := clamp(d.Year, 0, MaxYear)
	month := clamp(d.Month, 1, 12)
	k.date = CalendarDate{
		Day:   clamp(d.Day, 1, DaysInMonth(month, year)),
		Month: month,
		Year:  year,
	}
}

// SetIntensity replaces the intensity. Out of range values are clamped.
func (k *Keeper) SetIntensity(i int) {
	k.intensity = clamp(i, 0, MaxIntensity)
}

// Advance moves the clock forward by one tenth of a second, carrying into the
// larger fields as needed.
//
// The year is not wrapped here: after 99 comes 100. Only Increment wraps the
// year back to 0.
func (k *Keeper) Advance() {
	t := &k.time
	d := &k.date
	t.Tenths++
	if t.Tenths > 9 {
		t.Tenths = 0
		t.Seconds++
	}
	if t.Seconds > 59 {
		t.Seconds = 0
		t.Minutes++
	}
	if t.Minutes > 59 {
		t.Minutes = 0
		t.Hours++
	}
	if t.Hours > 23 {
		t.Hours = 0
		d.Day++
	}
	if d.Day > DaysInMonth(d.Month, d.Year) {
		d.Day = 1
		d.Month++
	}
	if d.Month > 12 {
		d.Month = 1
		d.Year++
	}
}

// Increment adds one to a single field. The field wraps to its lowest value
// without changing any other field.
func (k *Keeper) Increment(f Field) {
	switch f {
	case Second:
		k.time.Seconds = wrap(k.time.Seconds+1, 0, 59)
	case Minute:
		k.time.Minutes = wrap(k.time.Minutes+1, 0, 59)
	case Hour:
		k.time.Hours = wrap(k.time.Hours+1, 0, 23)
	case Day:
		k.date.Day = wrap(k.date.Day+1, 1, DaysInMonth(k.date.Month, k.date.Year))
	case Month:
		k.date.Month = wrap(k.date.Month+1, 1, 12)
	case Year:
		k.date.Year = wrap(k.date.Year+1, 0, MaxYear)
	case Intensity:
		k.intensity = wrap(k.intensity+1, 0, MaxIntensity)
	}
}

// Value returns the current value of a field.
func (k *Keeper) Value(f Field) int {
	switch f {
	case Second:
		return k.time.Seconds
	case Minute:
		return k.time.Minutes
	case Hour:
		return k.time.Hours
	case Day:
		return k.date.Day
	case Month:
		return k.date.Month
	case Year:
		return k.date.Year
	case Intensity:
		return k.intensity
	}
	return 0
}

func (k *Keeper) String() string {
	return fmt.Sprintf("%s %s", k.date, k.time)
}

// wrap returns v, or lo if v is outside [lo, hi].
func wrap(v, lo, hi int) int {
	if v < lo || v > hi {
		return lo
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
