// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"fmt"
	"log"
	"strconv"

	"periph.io/x/d2xx"
	"periph.io/x/jtag/jtag"
)

// Pins maps the JTAG signals to D-bus bits, 0 (D0/TXD) to 7 (D7/RI).
type Pins struct {
	TMS, TDI, TCK, TDO uint
}

// FT232RPins is the common FT232R bit-bang cable wiring.
var FT232RPins = Pins{TCK: 0, TDI: 1, TDO: 3, TMS: 4}

func (p Pins) validate() error {
	seen := byte(0)
	for _, b := range []uint{p.TMS, p.TDI, p.TCK, p.TDO} {
		if b > 7 {
			return fmt.Errorf("ftdi: bit %d out of range", b)
		}
		if seen&(1<<b) != 0 {
			return fmt.Errorf("ftdi: bit %d used twice", b)
		}
		seen |= 1 << b
	}
	return nil
}

// Count returns the number of FTDI devices detected.
func Count() (int, error) {
	return drv.numDevices()
}

// Open opens the FTDI device at index i and returns a driver for the JTAG
// header wired to its D-bus.
//
// The device is reset to its default mode once the four lines are closed.
func Open(i int, pins Pins, l jtag.Logger) (*jtag.Driver, error) {
	if err := pins.validate(); err != nil {
		return nil, err
	}
	if l == nil {
		l = log.Default()
	}
	h, err := openHandle(drv.d2xxOpen, i)
	if err != nil {
		return nil, err
	}
	p := &port{h: h, name: "ftdi(" + strconv.Itoa(i) + ")", log: l}
	d, err := p.driver(pins)
	if err != nil {
		_ = h.Close()
		return nil, err
	}
	return d, nil
}

// port is a D-bus in asynchronous bit-bang mode shared by four lines.
type port struct {
	h    *handle
	name string
	log  jtag.Logger

	out  byte // last value driven on the bus
	refs int
}

func (p *port) driver(pins Pins) (*jtag.Driver, error) {
	mask := byte(1<<pins.TMS | 1<<pins.TDI | 1<<pins.TCK)
	if err := p.h.SetBitMode(mask, bitModeAsyncBitbang); err != nil {
		// A previous session may have left the device in an unexpected state.
		if err := p.h.Reset(); err != nil {
			return nil, err
		}
		if err := p.h.SetBitMode(mask, bitModeAsyncBitbang); err != nil {
			return nil, err
		}
	}
	// Start with all the outputs low, matching the driver cached values.
	if err := p.h.WriteByte(0); err != nil {
		return nil, err
	}
	logf("ftdi: %s (%s) in bit-bang mode, mask %#02x", p.name, p.h, mask)
	p.refs = 4
	l := jtag.Lines{
		TMS: jtag.NewLine(&bitPin{p: p, bit: pins.TMS, name: "TMS"}, int(pins.TMS), jtag.Out, false, p.log),
		TDI: jtag.NewLine(&bitPin{p: p, bit: pins.TDI, name: "TDI"}, int(pins.TDI), jtag.Out, false, p.log),
		TCK: jtag.NewLine(&bitPin{p: p, bit: pins.TCK, name: "TCK"}, int(pins.TCK), jtag.Out, false, p.log),
		TDO: jtag.NewLine(&bitPin{p: p, bit: pins.TDO, name: "TDO"}, int(pins.TDO), jtag.In, false, p.log),
	}
	return jtag.NewDriver(l)
}

func (p *port) write(bit uint, v bool) error {
	out := p.out &^ (1 << bit)
	if v {
		out |= 1 << bit
	}
	if err := p.h.WriteByte(out); err != nil {
		return err
	}
	p.out = out
	return nil
}

func (p *port) read(bit uint) (bool, error) {
	b, err := p.h.GetBitMode()
	if err != nil {
		return false, err
	}
	return b&(1<<bit) != 0, nil
}

// release closes the device once the last line is closed.
func (p *port) release() error {
	if p.refs--; p.refs != 0 {
		return nil
	}
	err := p.h.SetBitMode(0, bitModeReset)
	if err1 := p.h.Close(); err == nil {
		err = err1
	}
	return err
}

// bitPin is one D-bus bit.
//
// bitPin implements jtag.Pin.
type bitPin struct {
	p      *port
	bit    uint
	name   string
	closed bool
}

func (b *bitPin) String() string {
	return b.p.name + "." + b.name
}

func (b *bitPin) WriteValue(c byte) error {
	if b.closed {
		return fmt.Errorf("ftdi: %s closed", b)
	}
	switch c {
	case '0', '1':
		return b.p.write(b.bit, c == '1')
	default:
		return fmt.Errorf("ftdi: invalid value %q", c)
	}
}

func (b *bitPin) ReadValue() (byte, error) {
	if b.closed {
		return 0, fmt.Errorf("ftdi: %s closed", b)
	}
	v, err := b.p.read(b.bit)
	if err != nil {
		return 0, err
	}
	if v {
		return '1', nil
	}
	return '0', nil
}

func (b *bitPin) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.p.release()
}

// driver holds the d2xx entry points, mocked in tests.
type driver struct {
	d2xxOpen   func(i int) (d2xxHandle, d2xx.Err)
	numDevices func() (int, error)
}

func (d *driver) reset() {
	d.d2xxOpen = func(i int) (d2xxHandle, d2xx.Err) {
		h, e := d2xx.Open(i)
		if h == nil {
			return nil, e
		}
		return h, e
	}
	d.numDevices = numDevices
	d.resetLog()
}

func init() {
	drv.reset()
}

var drv driver

var _ jtag.Pin = &bitPin{}
