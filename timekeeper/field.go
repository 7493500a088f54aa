// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package timekeeper

import "fmt"

// Field selects one editable value of the clock.
type Field byte

// The order of the fields is the order they are visited while setting the
// clock.
const (
	Intensity Field = iota + 1
	Year
	Month
	Day
	Hour
	Minute
	Second

	FirstField = Intensity
	LastField  = Second
)

// fieldInfo is the ordering table shared by the editor and the renderer.
var fieldInfo = [...]struct {
	name string
	row  int
}{
	Intensity: {"intensity", 1},
	Year:      {"year", 2},
	Month:     {"month", 3},
	Day:       {"day", 4},
	Hour:      {"hour", 6},
	Minute:    {"minute", 7},
	Second:    {"second", 8},
}

// Valid reports whether f is one of the defined fields.
func (f Field) Valid() bool {
	return f >= FirstField && f <= LastField
}

// Next returns the field following f. wrapped is true when f was the last
// field, in which case the first field is returned.
func (f Field) Next() (next Field, wrapped bool) {
	if f >= LastField || f < FirstField {
		return FirstField, true
	}
	return f + 1, false
}

// Row returns the display row that shows the field, 1 to 8.
func (f Field) Row() int {
	if !f.Valid() {
		return 0
	}
	return fieldInfo[f].row
}

func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", byte(f))
	}
	return fieldInfo[f].name
}

// ParseField returns the field with the given name, as returned by String.
func ParseField(s string) (Field, error) {
	for f := FirstField; f <= LastField; f++ {
		if fieldInfo[f].name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("timekeeper: unknown field %q", s)
}
