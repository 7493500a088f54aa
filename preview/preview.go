// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package preview draws the emulated LED matrix as an image and serves it
// over HTTP, for watching the clock without the hardware attached.
package preview

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/binclock/displaylink"
	"github.com/GermanBionicSystems/binclock/ledsim"
)

// Opts holds the layout of the preview image.
type Opts struct {
	// Pitch is the distance between LED centers, in pixels.
	Pitch int
	// LabelWidth is the space left of the matrix for the row labels.
	LabelWidth int
	// FontSize of the row labels, in points.
	FontSize float64
}

// DefaultOpts gives a 400x320 image.
var DefaultOpts = Opts{
	Pitch:      40,
	LabelWidth: 80,
	FontSize:   14,
}

// rowLabels names the digit registers used by the clock.
var rowLabels = [displaylink.NumRows]string{"int", "year", "month", "day", "", "hour", "min", "sec"}

// Preview renders snapshots of an emulated matrix.
type Preview struct {
	opts   Opts
	face   font.Face
	source func() ledsim.Snapshot
}

// New returns a Preview of the snapshots returned by source.
func New(source func() ledsim.Snapshot, opts *Opts) (*Preview, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Pitch <= 0 {
		return nil, fmt.Errorf("preview: invalid pitch %d", opts.Pitch)
	}
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	face := truetype.NewFace(f, &truetype.Options{Size: opts.FontSize})
	return &Preview{opts: *opts, face: face, source: source}, nil
}

// Bounds returns the size of rendered images.
func (p *Preview) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.opts.LabelWidth+8*p.opts.Pitch, displaylink.NumRows*p.opts.Pitch)
}

// Render draws s. Lit LEDs get brighter with the intensity register.
func (p *Preview) Render(s ledsim.Snapshot) image.Image {
	b := p.Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(0.05, 0.05, 0.05)
	dc.Clear()
	dc.SetFontFace(p.face)

	pitch := float64(p.opts.Pitch)
	radius := pitch * 0.38
	on := 0.3 + 0.7*float64(s.Intensity)/15
	for row := range displaylink.NumRows {
		y := pitch*float64(row) + pitch/2
		dc.SetRGB(0.7, 0.7, 0.7)
		dc.DrawStringAnchored(fmt.Sprintf("%d %s", row+1, rowLabels[row]), 8, y, 0, 0.5)
		for col := range 8 {
			x := float64(p.opts.LabelWidth) + pitch*float64(col) + pitch/2
			dc.DrawCircle(x, y, radius)
			if s.Lit(row, col) {
				dc.SetRGB(on, 0.05, 0.05)
			} else {
				dc.SetRGB(0.15, 0.15, 0.15)
			}
			dc.Fill()
		}
	}
	return dc.Image()
}

// ServeHTTP serves the current snapshot as a PNG.
func (p *Preview) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	img := p.Render(p.source())
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := png.Encode(w, img); err != nil {
		log.Printf("preview: encoding image: %v", err)
	}
}

var _ http.Handler = &Preview{}
