// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import (
	"errors"
	"fmt"
)

var (
	// ErrWriteFailed is matched by a LineError returned when a value write
	// failed. The line is degraded afterward.
	ErrWriteFailed = errors.New("jtag: gpio write failed")
	// ErrUnexpectedSample is matched by a LineError returned when an input
	// line produced something else than '0' or '1', or could not be read.
	ErrUnexpectedSample = errors.New("jtag: unexpected gpio sample")
	// ErrLineDegraded is matched by a LineError returned by every operation
	// on a line that previously failed.
	ErrLineDegraded = errors.New("jtag: gpio line degraded")
	// ErrDirection is returned when writing an input line or sampling an
	// output line.
	ErrDirection = errors.New("jtag: operation not supported by line direction")
	// ErrEndOfStream is returned by a ByteSource once it is exhausted.
	ErrEndOfStream = errors.New("jtag: end of stream")
	// ErrNegativeWait is returned by Timing.Wait for a negative duration.
	ErrNegativeWait = errors.New("jtag: negative wait")
)

// ConfigStep identifies the step of a line configuration that failed.
type ConfigStep string

const (
	StepLookup    ConfigStep = "lookup"
	StepExport    ConfigStep = "export"
	StepDirection ConfigStep = "direction"
	StepPolarity  ConfigStep = "active_low"
	StepOpen      ConfigStep = "open"
)

// ConfigError is returned when a GPIO line cannot be configured. It is fatal
// to the session setup.
type ConfigError struct {
	Step ConfigStep
	Pin  int
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("jtag: configure gpio%d: %s: %v", e.Pin, e.Step, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LineError is returned by a failed Line operation.
//
// Kind is one of ErrWriteFailed, ErrUnexpectedSample or ErrLineDegraded and
// is matched by errors.Is, as is the underlying Err when present.
type LineError struct {
	Line string
	Kind error
	// Raw is the offending byte for ErrUnexpectedSample, -1 when nothing
	// could be read.
	Raw int
	Err error
}

func (e *LineError) Error() string {
	var s string
	switch e.Kind {
	case ErrUnexpectedSample:
		if e.Raw < 0 {
			s = "unexpected sample: nothing read"
		} else {
			s = fmt.Sprintf("unexpected sample %q", byte(e.Raw))
		}
	case ErrWriteFailed:
		s = "write failed"
	case ErrLineDegraded:
		s = "line degraded"
	default:
		s = fmt.Sprint(e.Kind)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return "jtag: " + e.Line + ": " + s
}

func (e *LineError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
