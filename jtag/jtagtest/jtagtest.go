// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jtagtest is meant to be used to test code using package jtag
// without hardware.
package jtagtest

import (
	"periph.io/x/jtag/jtag"
)

// Write is one value written to a Pin.
type Write struct {
	Pin   string
	Value byte
}

// Journal records writes across several pins, in order.
type Journal struct {
	Writes []Write
}

// Pin is an in-memory jtag.Pin.
//
// Value is the simulated value file: WriteValue stores into it and ReadValue
// returns it. Preset it to stage what an input line samples. Two lines
// wrapping the same Pin share the storage, like a jumper wire.
type Pin struct {
	N     string
	Value byte

	// WriteErr and ReadErr are returned, when set, by the next operations.
	WriteErr error
	ReadErr  error
	// Journal, when set, records successful writes.
	Journal *Journal

	// Writes and Reads count calls, including failed ones.
	Writes int
	Reads  int
	Closed int
}

// String implements jtag.Pin.
func (p *Pin) String() string {
	return p.N
}

// WriteValue implements jtag.Pin.
func (p *Pin) WriteValue(c byte) error {
	p.Writes++
	if p.WriteErr != nil {
		return p.WriteErr
	}
	p.Value = c
	if p.Journal != nil {
		p.Journal.Writes = append(p.Journal.Writes, Write{Pin: p.N, Value: c})
	}
	return nil
}

// ReadValue implements jtag.Pin.
func (p *Pin) ReadValue() (byte, error) {
	p.Reads++
	if p.ReadErr != nil {
		return 0, p.ReadErr
	}
	return p.Value, nil
}

// Close implements jtag.Pin.
func (p *Pin) Close() error {
	p.Closed++
	return nil
}

// Quartet holds the in-memory pins behind a jtag.Lines.
type Quartet struct {
	TMS, TDI, TCK, TDO *Pin
}

// NewQuartet returns four in-memory pins numbered 110, 112, 114 and 115 and
// the matching lines. TDO is preset to '0'. j may be nil.
func NewQuartet(j *Journal, l jtag.Logger) (*Quartet, jtag.Lines) {
	q := &Quartet{
		TMS: &Pin{N: "TMS", Value: '0', Journal: j},
		TDI: &Pin{N: "TDI", Value: '0', Journal: j},
		TCK: &Pin{N: "TCK", Value: '0', Journal: j},
		TDO: &Pin{N: "TDO", Value: '0'},
	}
	return q, jtag.Lines{
		TMS: jtag.NewLine(q.TMS, 110, jtag.Out, false, l),
		TDI: jtag.NewLine(q.TDI, 112, jtag.Out, false, l),
		TCK: jtag.NewLine(q.TCK, 114, jtag.Out, false, l),
		TDO: jtag.NewLine(q.TDO, 115, jtag.In, false, l),
	}
}

// NewDriver returns a driver over a new in-memory quartet.
func NewDriver(j *Journal, l jtag.Logger) (*Quartet, *jtag.Driver) {
	q, lines := NewQuartet(j, l)
	d, err := jtag.NewDriver(lines)
	if err != nil {
		// The quartet is always valid.
		panic(err)
	}
	return q, d
}

var _ jtag.Pin = &Pin{}
