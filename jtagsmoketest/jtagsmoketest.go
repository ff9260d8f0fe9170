// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jtagsmoketest verifies that a JTAG header is correctly wired and
// measures how fast it can be clocked.
//
// The loopback test requires a jumper wire between TDI and TDO.
package jtagsmoketest

import (
	"errors"
	"fmt"
	"io"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/jtag/jtag"
)

// DefaultPattern is shifted by Loopback when no image is provided.
var DefaultPattern = []byte{0x00, 0xff, 0x55, 0xaa, 0x0f, 0xf0, 0x96, 0x69}

// MismatchError is returned by Loopback when TDO doesn't follow TDI.
type MismatchError struct {
	Offset int64
	Bit    int
	Want   gpio.Level
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("jtagsmoketest: byte %d bit %d: TDO is %s, TDI was %s; is TDI wired to TDO?", e.Offset, e.Bit, !e.Want, e.Want)
}

// Loopback shifts every bit of src, LSB first, through TDI and verifies TDO
// follows. TMS is held low and each bit is followed by a wait of waitUS.
//
// It returns the number of bytes verified. Reaching the end of src is not an
// error.
func Loopback(d *jtag.Driver, src jtag.ByteSource, t jtag.Timing, waitUS int64, w io.Writer) (int64, error) {
	if err := d.Set(jtag.TMS, gpio.Low); err != nil {
		return 0, err
	}
	start := time.Now()
	var n int64
	for ; ; n++ {
		b, err := src.NextByte()
		if err == jtag.ErrEndOfStream {
			break
		}
		if err != nil {
			return n, err
		}
		for i := 0; i < 8; i++ {
			want := gpio.Level(b&(1<<uint(i)) != 0)
			if err := d.Set(jtag.TDI, want); err != nil {
				return n, err
			}
			if err := d.PulseTCK(); err != nil {
				return n, err
			}
			if err := t.Wait(d, waitUS); err != nil {
				return n, err
			}
			got, err := d.SampleTDO()
			if err != nil {
				return n, err
			}
			if got != want {
				return n, &MismatchError{Offset: n, Bit: i, Want: want}
			}
		}
	}
	fmt.Fprintf(w, "  Loopback: %d bytes in %s\n", n, time.Since(start))
	return n, nil
}

// Perf pulses TCK in a tight loop and reports the achieved rate, then
// measures how long each timing mode takes to wait waitUS.
//
// It returns the achieved TCK rate, suitable for jtag.CyclesPerMicrosecondFor.
func Perf(d *jtag.Driver, loops int, waitUS int64, w io.Writer) (physic.Frequency, error) {
	if loops <= 0 {
		return 0, errors.New("jtagsmoketest: loops must be positive")
	}
	fmt.Fprintf(w, "  TCK performance:\n")
	fmt.Fprintf(w, "    %d pulses: ", loops)
	start := time.Now()
	for i := 0; i < loops; i++ {
		if err := d.PulseTCK(); err != nil {
			return 0, err
		}
	}
	s := time.Since(start)
	var f physic.Frequency
	if s > 0 {
		f = physic.Frequency(int64(loops) * int64(time.Second) / int64(s) * int64(physic.Hertz))
	}
	fmt.Fprintf(w, "%s; %s/op; %s\n", s, s/time.Duration(loops), f)
	cpm := jtag.CyclesPerMicrosecondFor(f)
	for _, m := range []jtag.Mode{jtag.BusyPulse, jtag.PulseAndSleep, jtag.SleepOnly, jtag.Hybrid} {
		t := jtag.Timing{Mode: m, CyclesPerMicrosecond: cpm}
		start := time.Now()
		if err := t.Wait(d, waitUS); err != nil {
			return f, err
		}
		fmt.Fprintf(w, "    %-16s wait %dus: %s\n", m.String()+":", waitUS, time.Since(start))
	}
	return f, nil
}
