// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdi

import (
	"errors"
	"fmt"

	"periph.io/x/d2xx"
)

// bitMode is used by SetBitMode to change the chip behavior.
type bitMode uint8

const (
	// Resets all Pins to their default value
	bitModeReset bitMode = 0x00
	// Sets the DBus to asynchronous bit-bang.
	bitModeAsyncBitbang bitMode = 0x01
)

// d2xxHandle is the subset of d2xx.Handle used in bit-bang mode.
type d2xxHandle interface {
	Close() d2xx.Err
	ResetDevice() d2xx.Err
	GetDeviceInfo() (uint32, uint16, uint16, d2xx.Err)
	SetBitMode(mask, mode byte) d2xx.Err
	GetBitMode() (byte, d2xx.Err)
	Write(b []byte) (int, d2xx.Err)
}

// numDevices returns the number of detected devices.
func numDevices() (int, error) {
	num, e := d2xx.CreateDeviceInfoList()
	if e != 0 {
		return 0, toErr("GetNumDevices initialization failed", e)
	}
	return num, nil
}

func openHandle(opener func(i int) (d2xxHandle, d2xx.Err), i int) (*handle, error) {
	h, e := opener(i)
	if e != 0 {
		return nil, toErr("Open", e)
	}
	d := &handle{h: h}
	_, vid, did, e := h.GetDeviceInfo()
	if e != 0 {
		_ = d.Close()
		return nil, toErr("GetDeviceInfo", e)
	}
	d.venID = vid
	d.devID = did
	return d, nil
}

// handle is a thin wrapper around the low level d2xx device handle to make it
// more go-idiomatic.
type handle struct {
	// The content of the struct is immutable after initialization.
	h     d2xxHandle
	venID uint16
	devID uint16
}

func (h *handle) String() string {
	return fmt.Sprintf("%04x:%04x", h.venID, h.devID)
}

func (h *handle) Close() error {
	return toErr("Close", h.h.Close())
}

// Reset resets the device.
func (h *handle) Reset() error {
	if e := h.h.ResetDevice(); e != 0 {
		return toErr("Reset", e)
	}
	return h.SetBitMode(0, bitModeReset)
}

// GetBitMode returns the instantaneous value of the D-bus pins.
func (h *handle) GetBitMode() (byte, error) {
	l, e := h.h.GetBitMode()
	if e != 0 {
		return 0, toErr("GetBitMode", e)
	}
	return l, nil
}

// SetBitMode change the mode of operation of the device.
//
// mask sets which pins are inputs and outputs.
func (h *handle) SetBitMode(mask byte, mode bitMode) error {
	return toErr("SetBitMode", h.h.SetBitMode(mask, byte(mode)))
}

// WriteByte drives the D-bus outputs.
func (h *handle) WriteByte(b byte) error {
	n, e := h.h.Write([]byte{b})
	if e != 0 {
		return toErr("Write", e)
	}
	if n != 1 {
		return errors.New("ftdi: Write: short write")
	}
	return nil
}

//

func toErr(s string, e d2xx.Err) error {
	if e == 0 {
		return nil
	}
	return errors.New("ftdi: " + s + ": " + e.String())
}
