// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import (
	"fmt"
	"log"

	"periph.io/x/conn/v3/gpio"
)

// Direction is the configured direction of a Line.
type Direction int

const (
	In  Direction = 1
	Out Direction = 2
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Logger is the logging capability supplied by the host application.
//
// *log.Logger implements it.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Pin is the raw value handle of a configured GPIO pin, as implemented by a
// backend.
//
// Values are exchanged as the ASCII characters '0' and '1', the format of the
// sysfs value file.
type Pin interface {
	fmt.Stringer
	// WriteValue writes one character, immediately visible to the hardware.
	WriteValue(c byte) error
	// ReadValue rewinds the handle and reads exactly one character.
	ReadValue() (byte, error)
	// Close releases the handle.
	Close() error
}

// Line is one configured GPIO pin used by a Driver.
//
// A Line is permanently degraded after its first I/O failure: the handle is
// closed and every later operation returns ErrLineDegraded without touching
// the hardware.
//
// A Line is not safe for concurrent use.
type Line struct {
	pin       Pin
	number    int
	dir       Direction
	activeLow bool
	log       Logger

	last     gpio.Level // last value written; outputs only
	degraded bool
	closed   bool
}

// NewLine wraps an open, configured handle.
//
// It is meant to be called by backends once the pin is exported, directioned
// and its polarity set. log may be nil, in which case log.Default() is used.
func NewLine(p Pin, number int, dir Direction, activeLow bool, l Logger) *Line {
	if l == nil {
		l = log.Default()
	}
	return &Line{pin: p, number: number, dir: dir, activeLow: activeLow, log: l}
}

// String returns the name of the underlying handle.
func (l *Line) String() string {
	return l.pin.String()
}

// Number returns the platform assigned pin number.
func (l *Line) Number() int {
	return l.number
}

// Direction returns the configured direction.
func (l *Line) Direction() Direction {
	return l.dir
}

// ActiveLow reports whether the pin polarity is inverted.
func (l *Line) ActiveLow() bool {
	return l.activeLow
}

// Last returns the last value successfully written to an output line.
func (l *Line) Last() gpio.Level {
	return l.last
}

// Degraded reports whether the line failed and was removed from service.
func (l *Line) Degraded() bool {
	return l.degraded
}

// Write drives an output line.
func (l *Line) Write(v gpio.Level) error {
	if l.dir != Out {
		return fmt.Errorf("jtag: %s: write: %w", l, ErrDirection)
	}
	if l.degraded || l.closed {
		return &LineError{Line: l.String(), Kind: ErrLineDegraded}
	}
	c := byte('0')
	if v {
		c = '1'
	}
	if err := l.pin.WriteValue(c); err != nil {
		l.log.Printf("jtag: %s: writing %c failed: %v", l, c, err)
		l.degrade()
		return &LineError{Line: l.String(), Kind: ErrWriteFailed, Err: err}
	}
	l.last = v
	return nil
}

// Sample reads the live value of an input line.
func (l *Line) Sample() (gpio.Level, error) {
	if l.dir != In {
		return gpio.Low, fmt.Errorf("jtag: %s: sample: %w", l, ErrDirection)
	}
	if l.degraded || l.closed {
		return gpio.Low, &LineError{Line: l.String(), Kind: ErrLineDegraded}
	}
	c, err := l.pin.ReadValue()
	if err == nil {
		switch c {
		case '0':
			return gpio.Low, nil
		case '1':
			return gpio.High, nil
		}
	}
	raw := int(c)
	if err != nil {
		raw = -1
		l.log.Printf("jtag: %s: reading failed: %v", l, err)
	} else {
		l.log.Printf("jtag: %s: sample is neither 0 nor 1: %q", l, c)
	}
	l.degrade()
	return gpio.Low, &LineError{Line: l.String(), Kind: ErrUnexpectedSample, Raw: raw, Err: err}
}

// Close releases the handle. It is a no-op on a degraded line, whose handle
// was already released.
func (l *Line) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return l.pin.Close()
}

func (l *Line) degrade() {
	l.degraded = true
	if l.closed {
		return
	}
	l.closed = true
	if err := l.pin.Close(); err != nil {
		l.log.Printf("jtag: %s: closing degraded line: %v", l, err)
	}
}
