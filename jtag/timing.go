// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import (
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// Mode selects how Timing.Wait spends time.
type Mode int

const (
	// BusyPulse pulses TCK during the whole wait. Required by FPGA
	// configuration and indirect flash programming.
	BusyPulse Mode = iota
	// PulseAndSleep sets TCK low once then sleeps. For devices sensitive to
	// the clock level during the wait, e.g. XC18V00 and XCFxxS PROMs.
	PulseAndSleep
	// SleepOnly sleeps with the clock left as is. For CPLDs tolerating an
	// idle clock.
	SleepOnly
	// Hybrid sleeps like PulseAndSleep for waits of at least HybridThreshold
	// and pulses like BusyPulse for shorter ones.
	Hybrid
)

var modeNames = []string{"busy-pulse", "pulse-and-sleep", "sleep-only", "hybrid"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the name returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(s, n) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("jtag: unknown timing mode %q, want one of %s", s, strings.Join(modeNames, ", "))
}

// DefaultHybridThreshold is used by Hybrid when HybridThreshold is zero.
const DefaultHybridThreshold = 50 * time.Microsecond

// Timing is the wait strategy of a programming session, chosen from the
// timing requirements of the target device family.
type Timing struct {
	Mode Mode
	// CyclesPerMicrosecond is the number of TCK pulses issued per requested
	// microsecond by BusyPulse. Values below 1 are treated as 1.
	CyclesPerMicrosecond int
	// Granularity rounds sleeps up to a multiple of it, e.g. time.Millisecond
	// on hosts with a coarse timer. Zero disables rounding.
	Granularity time.Duration
	// HybridThreshold is the shortest wait Hybrid sleeps for.
	HybridThreshold time.Duration
}

// CyclesPerMicrosecondFor returns the BusyPulse calibration for a measured
// TCK pulse rate.
func CyclesPerMicrosecondFor(f physic.Frequency) int {
	if c := int(f / physic.MegaHertz); c > 1 {
		return c
	}
	return 1
}

// Wait returns once at least microseconds have elapsed, manipulating TCK
// through d as the mode requires.
//
// Errors from d are returned as-is. The wait cannot be canceled.
func (t Timing) Wait(d *Driver, microseconds int64) error {
	if microseconds < 0 {
		return fmt.Errorf("%w: %dus", ErrNegativeWait, microseconds)
	}
	start := time.Now()
	dur := time.Duration(microseconds) * time.Microsecond
	switch t.Mode {
	case BusyPulse:
		return t.pulse(d, start, dur, microseconds)
	case PulseAndSleep:
		if err := d.Set(TCK, gpio.Low); err != nil {
			return err
		}
		t.sleep(start, dur)
		return nil
	case SleepOnly:
		t.sleep(start, dur)
		return nil
	case Hybrid:
		th := t.HybridThreshold
		if th <= 0 {
			th = DefaultHybridThreshold
		}
		if dur < th {
			return t.pulse(d, start, dur, microseconds)
		}
		if err := d.Set(TCK, gpio.Low); err != nil {
			return err
		}
		t.sleep(start, dur)
		return nil
	default:
		return fmt.Errorf("jtag: unknown timing mode %s", t.Mode)
	}
}

// pulse issues the calibrated number of TCK pulses, then keeps pulsing until
// dur elapsed.
func (t Timing) pulse(d *Driver, start time.Time, dur time.Duration, microseconds int64) error {
	cycles := microseconds * int64(max(t.CyclesPerMicrosecond, 1))
	for i := int64(0); i < cycles; i++ {
		if err := d.PulseTCK(); err != nil {
			return err
		}
	}
	for time.Since(start) < dur {
		if err := d.PulseTCK(); err != nil {
			return err
		}
	}
	return nil
}

func (t Timing) sleep(start time.Time, dur time.Duration) {
	if t.Granularity > 0 {
		dur = (dur + t.Granularity - 1) / t.Granularity * t.Granularity
	}
	// Loop until the full duration is observed on the monotonic clock.
	for left := dur - time.Since(start); left > 0; left = dur - time.Since(start) {
		time.Sleep(left)
	}
}
