// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// binclock runs the binary clock on a MAX7219 LED matrix with two
// push-buttons, or on a console emulation of them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/binclock/binclock"
	"github.com/GermanBionicSystems/binclock/buttons"
	"github.com/GermanBionicSystems/binclock/displaylink"
	"github.com/GermanBionicSystems/binclock/ledsim"
	"github.com/GermanBionicSystems/binclock/preview"
	"github.com/GermanBionicSystems/binclock/ticksource"
	"github.com/GermanBionicSystems/binclock/timekeeper"
)

var (
	linkKind      = flag.String("link", "bitbang", "display link: bitbang, spi or sim")
	spiName       = flag.String("spi", "", "SPI port of the display, for -link=spi")
	dinName       = flag.String("din", "GPIO2", "display DIN pin, for -link=bitbang")
	clkName       = flag.String("clk", "GPIO4", "display CLK pin, for -link=bitbang")
	csName        = flag.String("cs", "GPIO3", "display CS pin, for -link=bitbang")
	modeName      = flag.String("mode", "GPIO17", "MODE button pin")
	incrName      = flag.String("incr", "GPIO27", "INCREMENT button pin")
	bind          = flag.String("bind", ":8080", "address of the debug/metrics server, empty to disable")
	tick          = flag.Duration("tick", ticksource.DefaultPeriod, "tick period")
	skipUnchanged = flag.Bool("skip-unchanged", false, "only send rows that changed")
	entryField    = flag.String("entry-field", timekeeper.Intensity.String(), "field selected when entering set mode")
	start         = flag.String("start", "", "initial date and time, as 2006-01-02T15:04:05")
)

// app holds what main wires together.
type app struct {
	link    displaylink.Link
	input   *buttons.Sampler
	matrix  *ledsim.Matrix
	buttons map[buttons.Button]*ledsim.Button
}

func main() {
	flag.Parse()
	if err := mainImpl(); err != nil {
		log.Fatalf("binclock: %v", err)
	}
}

func mainImpl() error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init periph.io: %w", err)
	}
	field, err := timekeeper.ParseField(*entryField)
	if err != nil {
		return err
	}
	keeper := timekeeper.New()
	if *start != "" {
		t, err := time.Parse("2006-01-02T15:04:05", *start)
		if err != nil {
			return fmt.Errorf("parse -start: %w", err)
		}
		seed(keeper, t)
	}

	a, closer, err := setup()
	if err != nil {
		return err
	}
	defer closer()

	cl, err := binclock.New(a.link, keeper, a.input, &binclock.Opts{EntryField: field, SkipUnchanged: *skipUnchanged})
	if err != nil {
		return err
	}
	if err := cl.Start(); err != nil {
		return err
	}
	log.Printf("clock started on %s link at %s", *linkKind, cl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := ticksource.New(nil, *tick)
	src.OnMissed = binclock.MissedTick
	go func() {
		_ = src.Run(ctx)
	}()

	httpDoneCh := make(chan error, 1)
	var httpServer *http.Server
	if *bind != "" {
		mux, err := debugMux(a)
		if err != nil {
			return err
		}
		httpServer = &http.Server{Addr: *bind, Handler: mux}
		go func() {
			log.Printf("http server listening on %s", httpServer.Addr)
			httpDoneCh <- httpServer.ListenAndServe()
		}()
	}

	loopDoneCh := make(chan error, 1)
	go func() {
		loopDoneCh <- cl.Run(ctx, src.C())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	result := awaitStop(sigCh, httpDoneCh, loopDoneCh, cancel)
	if err := cl.Shutdown(); err != nil {
		log.Printf("%v", err)
	}
	if httpServer != nil {
		tctx, c := context.WithTimeout(context.Background(), time.Second)
		_ = httpServer.Shutdown(tctx)
		c()
	}
	log.Printf("stopped at %s, %d ticks missed", cl, src.Missed())
	return result
}

// awaitStop blocks until a signal arrives or the http server or the clock
// loop exits, then cancels the loop and waits for it to return.
func awaitStop(sigCh <-chan os.Signal, httpDoneCh, loopDoneCh <-chan error, cancel context.CancelFunc) error {
	var result error
	loopDone := false
	select {
	case err := <-httpDoneCh:
		result = fmt.Errorf("http server died: %w", err)
	case err := <-loopDoneCh:
		loopDone = true
		result = fmt.Errorf("clock loop died: %w", err)
	case <-sigCh:
		log.Printf("interrupt")
	}
	cancel()
	if !loopDone {
		if err := <-loopDoneCh; err != nil && !errors.Is(err, context.Canceled) && result == nil {
			result = err
		}
	}
	return result
}

// setup opens the display link and the buttons selected by the flags.
func setup() (*app, func(), error) {
	a := &app{}
	closer := func() {}
	var modePin, incrPin gpio.PinIn
	switch *linkKind {
	case "sim":
		a.matrix = ledsim.New(&ledsim.Opts{Plain: !isatty.IsTerminal(os.Stdout.Fd())})
		a.link = a.matrix
		a.buttons = map[buttons.Button]*ledsim.Button{
			buttons.Mode:      ledsim.NewButton("MODE", nil),
			buttons.Increment: ledsim.NewButton("INCR", nil),
		}
		modePin, incrPin = a.buttons[buttons.Mode], a.buttons[buttons.Increment]
		closer = func() { _ = a.matrix.Halt() }
	case "spi":
		p, err := spireg.Open(*spiName)
		if err != nil {
			return nil, nil, fmt.Errorf("open spi port %q: %w", *spiName, err)
		}
		l, err := displaylink.NewSPI(p)
		if err != nil {
			_ = p.Close()
			return nil, nil, err
		}
		a.link = l
		closer = func() { _ = p.Close() }
	case "bitbang":
		pins := map[string]gpio.PinIO{}
		for _, name := range []string{*dinName, *clkName, *csName} {
			p := gpioreg.ByName(name)
			if p == nil {
				return nil, nil, fmt.Errorf("no pin named %q", name)
			}
			pins[name] = p
		}
		l, err := displaylink.NewBitBang(&displaylink.BitBangOpts{DIN: pins[*dinName], CLK: pins[*clkName], CS: pins[*csName]})
		if err != nil {
			return nil, nil, err
		}
		a.link = l
		closer = func() { _ = l.Halt() }
	default:
		return nil, nil, fmt.Errorf("unknown link %q", *linkKind)
	}
	if modePin == nil {
		modePin, incrPin = gpioreg.ByName(*modeName), gpioreg.ByName(*incrName)
		if modePin == nil || incrPin == nil {
			closer()
			return nil, nil, fmt.Errorf("no button pins named %q and %q", *modeName, *incrName)
		}
	}
	opts := buttons.DefaultOpts
	opts.ModePin, opts.IncrementPin = modePin, incrPin
	in, err := buttons.New(&opts)
	if err != nil {
		closer()
		return nil, nil, err
	}
	a.input = in
	return a, closer, nil
}

// debugMux serves the metrics and, when emulating, the display and the
// buttons.
func debugMux(a *app) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if a.matrix == nil {
		return mux, nil
	}
	pv, err := preview.New(a.matrix.Snapshot, nil)
	if err != nil {
		return nil, err
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/display.png", http.StatusFound)
	})
	mux.Handle("/display.png", pv)
	mux.HandleFunc("/press", func(w http.ResponseWriter, req *http.Request) {
		b, err := buttons.ParseButton(req.FormValue("button"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		hold := 600 * time.Millisecond
		if v := req.FormValue("hold"); v != "" {
			if hold, err = time.ParseDuration(v); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		a.buttons[b].Press(hold)
		fmt.Fprintf(w, "%s held for %s\n", b, hold)
	})
	return mux, nil
}

// seed sets the clock from t, with the year reduced to two digits.
func seed(k *timekeeper.Keeper, t time.Time) {
	k.SetDate(timekeeper.CalendarDate{Day: t.Day(), Month: int(t.Month()), Year: t.Year() % 100})
	k.SetTime(timekeeper.ClockTime{Tenths: t.Nanosecond() / 1e8, Seconds: t.Second(), Minutes: t.Minute(), Hours: t.Hour()})
}
