// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pinio drives a JTAG header through pins implementing
// periph.io/x/conn/v3/gpio.PinIO.
//
// This covers every pin registered in gpioreg by the host drivers: GPIO
// character device lines, CPU memory mapped pins, FTDI pins and so on. Call
// driverreg.Init() (or host.Init()) before looking pins up by name.
package pinio

import (
	"errors"
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/jtag/jtag"
)

// Names is the pin naming of a JTAG header, as known by gpioreg.
type Names struct {
	TMS, TDI, TCK, TDO string
}

// Open looks the four pins up and returns the driver owning them.
func Open(n Names, l jtag.Logger) (*jtag.Driver, error) {
	var lines jtag.Lines
	var err error
	if lines.TMS, err = ByName(n.TMS, jtag.Out, l); err != nil {
		return nil, err
	}
	if lines.TDI, err = ByName(n.TDI, jtag.Out, l); err != nil {
		_ = lines.Close()
		return nil, err
	}
	if lines.TCK, err = ByName(n.TCK, jtag.Out, l); err != nil {
		_ = lines.Close()
		return nil, err
	}
	if lines.TDO, err = ByName(n.TDO, jtag.In, l); err != nil {
		_ = lines.Close()
		return nil, err
	}
	d, err := jtag.NewDriver(lines)
	if err != nil {
		_ = lines.Close()
		return nil, err
	}
	return d, nil
}

// ByName configures the pin registered under name in gpioreg.
func ByName(name string, dir jtag.Direction, l jtag.Logger) (*jtag.Line, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, &jtag.ConfigError{Step: jtag.StepLookup, Pin: -1, Err: fmt.Errorf("no pin named %q", name)}
	}
	return Configure(p, dir, l)
}

// Configure sets the direction of p and returns the line driving it.
//
// An output starts low. Inputs are left floating without edge detection.
func Configure(p gpio.PinIO, dir jtag.Direction, l jtag.Logger) (*jtag.Line, error) {
	if l == nil {
		l = log.Default()
	}
	var err error
	switch dir {
	case jtag.In:
		err = p.In(gpio.PullNoChange, gpio.NoEdge)
	case jtag.Out:
		err = p.Out(gpio.Low)
	default:
		err = fmt.Errorf("invalid direction %s", dir)
	}
	if err != nil {
		return nil, &jtag.ConfigError{Step: jtag.StepDirection, Pin: p.Number(), Err: err}
	}
	return jtag.NewLine(&pin{p: p}, p.Number(), dir, false, l), nil
}

// pin implements jtag.Pin over a gpio.PinIO.
type pin struct {
	p      gpio.PinIO
	closed bool
}

func (p *pin) String() string {
	return p.p.Name()
}

func (p *pin) WriteValue(c byte) error {
	if p.closed {
		return errClosed
	}
	switch c {
	case '0':
		return p.p.Out(gpio.Low)
	case '1':
		return p.p.Out(gpio.High)
	default:
		return fmt.Errorf("pinio: invalid value %q", c)
	}
}

func (p *pin) ReadValue() (byte, error) {
	if p.closed {
		return 0, errClosed
	}
	if p.p.Read() {
		return '1', nil
	}
	return '0', nil
}

// Close halts the pin; periph pins are owned by their driver and never
// closed.
func (p *pin) Close() error {
	p.closed = true
	return p.p.Halt()
}

var errClosed = errors.New("pinio: pin closed")

var _ jtag.Pin = &pin{}
