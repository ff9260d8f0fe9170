// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Signal is one of the JTAG signals.
type Signal int

const (
	TMS Signal = iota
	TDI
	TCK
	TDO
)

func (s Signal) String() string {
	switch s {
	case TMS:
		return "TMS"
	case TDI:
		return "TDI"
	case TCK:
		return "TCK"
	case TDO:
		return "TDO"
	default:
		return fmt.Sprintf("Signal(%d)", int(s))
	}
}

// Lines is the quartet of lines wired to a JTAG header.
type Lines struct {
	TMS *Line
	TDI *Line
	TCK *Line
	TDO *Line
}

// Close closes every non-nil line and returns the joined errors.
func (l *Lines) Close() error {
	var errs []error
	for _, line := range []*Line{l.TMS, l.TDI, l.TCK, l.TDO} {
		if line != nil {
			errs = append(errs, line.Close())
		}
	}
	return errors.Join(errs...)
}

// Driver drives the JTAG signals of one header.
//
// TMS and TDI are only cached by Set; they are written to the hardware when
// TCK is set, right before TCK itself, so they are stable ahead of the clock
// edge that samples them.
//
// A Driver is not safe for concurrent use. Exactly one Driver must exist per
// physical header.
type Driver struct {
	lines Lines
	tms   gpio.Level
	tdi   gpio.Level
	tck   gpio.Level
}

// NewDriver takes ownership of the four lines.
//
// TMS, TDI and TCK must be outputs and TDO an input.
func NewDriver(l Lines) (*Driver, error) {
	for _, c := range []struct {
		s    Signal
		line *Line
		dir  Direction
	}{{TMS, l.TMS, Out}, {TDI, l.TDI, Out}, {TCK, l.TCK, Out}, {TDO, l.TDO, In}} {
		if c.line == nil {
			return nil, fmt.Errorf("jtag: %s line is missing", c.s)
		}
		if d := c.line.Direction(); d != c.dir {
			return nil, fmt.Errorf("jtag: %s line %s is configured %s, want %s", c.s, c.line, d, c.dir)
		}
	}
	return &Driver{lines: l}, nil
}

// Set sets a signal to v.
//
// Setting TMS or TDI only updates the cached value. Setting TCK writes TMS,
// TDI then TCK, stopping at the first failure. Cached values are not rolled
// back on failure; any error is fatal to the session.
func (d *Driver) Set(s Signal, v gpio.Level) error {
	switch s {
	case TMS:
		d.tms = v
		return nil
	case TDI:
		d.tdi = v
		return nil
	case TCK:
		d.tck = v
		if err := d.lines.TMS.Write(d.tms); err != nil {
			return err
		}
		if err := d.lines.TDI.Write(d.tdi); err != nil {
			return err
		}
		return d.lines.TCK.Write(d.tck)
	default:
		return fmt.Errorf("jtag: cannot set %s", s)
	}
}

// Signal returns the cached value of TMS, TDI or TCK.
//
// For TDO it returns Low; use SampleTDO.
func (d *Driver) Signal(s Signal) gpio.Level {
	switch s {
	case TMS:
		return d.tms
	case TDI:
		return d.tdi
	case TCK:
		return d.tck
	default:
		return gpio.Low
	}
}

// PulseTCK sets TCK low then high.
func (d *Driver) PulseTCK() error {
	if err := d.Set(TCK, gpio.Low); err != nil {
		return err
	}
	return d.Set(TCK, gpio.High)
}

// SampleTDO returns the live TDO value.
func (d *Driver) SampleTDO() (gpio.Level, error) {
	return d.lines.TDO.Sample()
}

// Lines returns the lines owned by the driver.
func (d *Driver) Lines() Lines {
	return d.lines
}

// Close releases the four lines.
func (d *Driver) Close() error {
	return d.lines.Close()
}
