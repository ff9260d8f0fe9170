// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jtag drives a four wire JTAG header (TMS, TDI, TCK, TDO) through
// GPIO lines for a vector interpreter such as an XSVF player.
//
// The package holds the policy shared by every GPIO backend: a Line wraps the
// raw value handle of a configured pin and degrades permanently on the first
// I/O failure. A Driver owns the four lines and defers TMS/TDI writes to the
// TCK edge that samples them. Timing selects at runtime how waits are
// performed and ByteSource feeds the programming image.
//
// Backends live in sibling packages: sysfs for /sys/class/gpio, pinio for any
// periph.io/x/conn/v3/gpio.PinIO and ftdi for FTDI bit-bang adapters.
package jtag
