// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfs configures JTAG GPIO lines through the Linux sysfs GPIO
// control surface, /sys/class/gpio.
//
// Each pin is exported, directioned and its polarity set, then its value file
// is kept open for the whole session: write-only and unbuffered for outputs,
// read-only for inputs.
//
// The main drawback of GPIO sysfs is that it is much slower than using memory
// mapped hardware registers; the TCK rate is bounded by the write(2) latency.
package sysfs
