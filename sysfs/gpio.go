// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"periph.io/x/jtag/jtag"
)

// DefaultRoot is the GPIO control surface of the Linux kernel.
const DefaultRoot = "/sys/class/gpio"

// Config configures GPIO lines through the sysfs control surface.
//
// Uses gpio sysfs as described at
// https://www.kernel.org/doc/Documentation/gpio/sysfs.txt
//
// The zero value is ready to use.
type Config struct {
	// Root defaults to DefaultRoot.
	Root string
	// Unexport unexports pins when their line is closed.
	Unexport bool
	// Logger defaults to log.Default().
	Logger jtag.Logger
}

// Pins is the pin numbering of a JTAG header.
type Pins struct {
	TMS, TDI, TCK, TDO int
	// ActiveLow inverts the polarity of all four pins.
	ActiveLow bool
}

// Open configures the four pins of a JTAG header and returns the driver
// owning them.
//
// On failure, the pins already configured are released.
func (c *Config) Open(p Pins) (*jtag.Driver, error) {
	var l jtag.Lines
	var err error
	if l.TMS, err = c.Configure(p.TMS, jtag.Out, p.ActiveLow); err != nil {
		return nil, err
	}
	if l.TDI, err = c.Configure(p.TDI, jtag.Out, p.ActiveLow); err != nil {
		_ = l.Close()
		return nil, err
	}
	if l.TCK, err = c.Configure(p.TCK, jtag.Out, p.ActiveLow); err != nil {
		_ = l.Close()
		return nil, err
	}
	if l.TDO, err = c.Configure(p.TDO, jtag.In, p.ActiveLow); err != nil {
		_ = l.Close()
		return nil, err
	}
	d, err := jtag.NewDriver(l)
	if err != nil {
		_ = l.Close()
		return nil, err
	}
	return d, nil
}

// Configure exports the pin, sets its direction and polarity then opens its
// value file: read-only for an input, write-only for an output.
//
// Any failing step returns a *jtag.ConfigError and no line. It is meant to be
// called once per pin per session.
func (c *Config) Configure(number int, dir jtag.Direction, activeLow bool) (*jtag.Line, error) {
	if number < 0 {
		return nil, &jtag.ConfigError{Step: jtag.StepExport, Pin: number, Err: errors.New("invalid pin number")}
	}
	var flag int
	var d []byte
	switch dir {
	case jtag.In:
		flag, d = os.O_RDONLY, bIn
	case jtag.Out:
		flag, d = os.O_WRONLY, bOut
	default:
		return nil, &jtag.ConfigError{Step: jtag.StepDirection, Pin: number, Err: fmt.Errorf("invalid direction %s", dir)}
	}
	p := &Pin{
		number:   number,
		name:     "GPIO" + strconv.Itoa(number),
		root:     filepath.Join(c.root(), "gpio"+strconv.Itoa(number)),
		ctrl:     c.root(),
		unexport: c.Unexport,
		log:      c.logger(),
	}
	if err := p.export(); err != nil {
		return nil, &jtag.ConfigError{Step: jtag.StepExport, Pin: number, Err: err}
	}
	// There's a race condition where the files may be created but udev is
	// still running the rule to make them accessible to the current user.
	if err := retryPermission(func() error { return writeFile(p.path("direction"), d) }); err != nil {
		p.release()
		return nil, &jtag.ConfigError{Step: jtag.StepDirection, Pin: number, Err: err}
	}
	pol := bZero
	if activeLow {
		pol = bOne
	}
	if err := retryPermission(func() error { return writeFile(p.path("active_low"), pol) }); err != nil {
		p.release()
		return nil, &jtag.ConfigError{Step: jtag.StepPolarity, Pin: number, Err: err}
	}
	err := retryPermission(func() error {
		var err error
		p.fValue, err = fileIOOpen(p.path("value"), flag)
		return err
	})
	if err != nil {
		p.release()
		return nil, &jtag.ConfigError{Step: jtag.StepOpen, Pin: number, Err: err}
	}
	return jtag.NewLine(p, number, dir, activeLow, p.log), nil
}

func (c *Config) root() string {
	if c.Root == "" {
		return DefaultRoot
	}
	return c.Root
}

func (c *Config) logger() jtag.Logger {
	if c.Logger == nil {
		return log.Default()
	}
	return c.Logger
}

// Pin is the value file of an exported sysfs GPIO pin.
//
// It implements jtag.Pin.
type Pin struct {
	number   int
	name     string
	root     string // Something like /sys/class/gpio/gpio%d
	ctrl     string // Directory holding export and unexport
	unexport bool
	log      jtag.Logger

	fValue fileIO  // handle to /sys/class/gpio/gpio*/value
	buf    [1]byte // scratch buffer for ReadValue() and WriteValue()
}

// String implements jtag.Pin.
func (p *Pin) String() string {
	return p.name
}

// Number returns the pin number.
func (p *Pin) Number() int {
	return p.number
}

// WriteValue implements jtag.Pin.
func (p *Pin) WriteValue(c byte) error {
	if p.fValue == nil {
		return p.wrap(os.ErrClosed)
	}
	p.buf[0] = c
	if err := seekWrite(p.fValue, p.buf[:]); err != nil {
		return p.wrap(err)
	}
	return nil
}

// ReadValue implements jtag.Pin.
//
// The value file only exposes the current hardware state, so it is rewound
// before each read.
func (p *Pin) ReadValue() (byte, error) {
	if p.fValue == nil {
		return 0, p.wrap(os.ErrClosed)
	}
	n, err := seekRead(p.fValue, p.buf[:])
	if err != nil {
		return 0, p.wrap(err)
	}
	if n != 1 {
		return 0, p.wrap(errors.New("empty value"))
	}
	return p.buf[0], nil
}

// Close implements jtag.Pin.
//
// It unexports the pin when configured to.
func (p *Pin) Close() error {
	var err error
	if p.fValue != nil {
		err = p.fValue.Close()
		p.fValue = nil
	}
	if p.unexport {
		if err1 := writeFile(filepath.Join(p.ctrl, "unexport"), []byte(strconv.Itoa(p.number))); err1 != nil && err == nil {
			err = err1
		}
	}
	if err != nil {
		return p.wrap(err)
	}
	return nil
}

func (p *Pin) export() error {
	err := writeFile(filepath.Join(p.ctrl, "export"), []byte(strconv.Itoa(p.number)))
	if err == nil {
		return nil
	}
	if isErrBusy(err) {
		// Exported by a previous session that didn't unexport it.
		p.log.Printf("sysfs-gpio (%s): already exported", p)
		return nil
	}
	if os.IsPermission(err) {
		return fmt.Errorf("need more access, try as root or setup udev rules: %w", err)
	}
	return err
}

// release undoes a partial configuration.
func (p *Pin) release() {
	if err := p.Close(); err != nil {
		p.log.Printf("%v", err)
	}
}

func (p *Pin) path(attr string) string {
	return filepath.Join(p.root, attr)
}

func (p *Pin) wrap(err error) error {
	return fmt.Errorf("sysfs-gpio (%s): %w", p, err)
}

//

var (
	bIn   = []byte("in")
	bOut  = []byte("out")
	bZero = []byte("0")
	bOne  = []byte("1")
)

// udevDelay bounds how long permission errors are retried right after an
// export.
var udevDelay = 5 * time.Second

func retryPermission(f func() error) error {
	var err error
	for start := time.Now(); ; {
		if err = f(); err == nil || !os.IsPermission(err) || time.Since(start) >= udevDelay {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if os.IsPermission(err) {
		return fmt.Errorf("need more access, try as root or setup udev rules: %w", err)
	}
	return err
}

var _ jtag.Pin = &Pin{}
