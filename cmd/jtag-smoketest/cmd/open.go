// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"periph.io/x/host/v3"
	"periph.io/x/jtag/ftdi"
	"periph.io/x/jtag/jtag"
	"periph.io/x/jtag/pinio"
	"periph.io/x/jtag/sysfs"
)

// openDriver configures the JTAG header according to the global flags.
func openDriver(cmd *cobra.Command) (*jtag.Driver, error) {
	l := logger()
	switch backend {
	case "sysfs":
		p, err := numbers()
		if err != nil {
			return nil, err
		}
		c := sysfs.Config{Root: sysfsRoot, Unexport: unexport, Logger: l}
		verbosef(cmd.ErrOrStderr(), "sysfs %s: TMS=%d TDI=%d TCK=%d TDO=%d\n", sysfsRoot, p[0], p[1], p[2], p[3])
		return c.Open(sysfs.Pins{TMS: p[0], TDI: p[1], TCK: p[2], TDO: p[3], ActiveLow: activeLow})

	case "periph":
		state, err := host.Init()
		if err != nil {
			return nil, err
		}
		for _, d := range state.Loaded {
			verbosef(cmd.ErrOrStderr(), "loaded driver %s\n", d)
		}
		return pinio.Open(pinio.Names{TMS: pinTMS, TDI: pinTDI, TCK: pinTCK, TDO: pinTDO}, l)

	case "ftdi":
		pins := ftdi.FT232RPins
		if anyPinChanged(cmd) {
			p, err := numbers()
			if err != nil {
				return nil, err
			}
			pins = ftdi.Pins{TMS: uint(p[0]), TDI: uint(p[1]), TCK: uint(p[2]), TDO: uint(p[3])}
		}
		n, err := ftdi.Count()
		if err != nil {
			return nil, err
		}
		if ftdiIndex >= n {
			return nil, fmt.Errorf("ftdi device %d requested, %d found", ftdiIndex, n)
		}
		verbosef(cmd.ErrOrStderr(), "ftdi(%d): TMS=D%d TDI=D%d TCK=D%d TDO=D%d\n", ftdiIndex, pins.TMS, pins.TDI, pins.TCK, pins.TDO)
		return ftdi.Open(ftdiIndex, pins, l)

	default:
		return nil, fmt.Errorf("unknown backend %q, want sysfs, periph or ftdi", backend)
	}
}

// numbers parses the four pin flags.
func numbers() ([4]int, error) {
	var out [4]int
	for i, s := range []string{pinTMS, pinTDI, pinTCK, pinTDO} {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return out, fmt.Errorf("invalid pin number %q", s)
		}
		out[i] = v
	}
	return out, nil
}

func anyPinChanged(cmd *cobra.Command) bool {
	f := cmd.Flags()
	return f.Changed("tms") || f.Changed("tdi") || f.Changed("tck") || f.Changed("tdo")
}
