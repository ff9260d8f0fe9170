// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/jtag/jtag"
)

var (
	// Global flags
	verbose     bool
	backend     string
	sysfsRoot   string
	unexport    bool
	activeLow   bool
	pinTMS      string
	pinTDI      string
	pinTCK      string
	pinTDO      string
	ftdiIndex   int
	timingMode  string
	cycles      int
	granularity time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "jtag-smoketest",
	Short: "Smoke tests a JTAG header driven through GPIO lines",
	Long: `Configures the TMS, TDI, TCK and TDO lines of a JTAG header and runs
smoke tests against it.

Backends:
  sysfs   pins are /sys/class/gpio numbers
  periph  pins are names registered by the periph host drivers
  ftdi    pins are D-bus bits of an FTDI device in bit-bang mode

Examples:
  jtag-smoketest loopback --tms 110 --tdi 112 --tck 114 --tdo 115
  jtag-smoketest perf --backend ftdi --timing hybrid
  jtag-smoketest loopback --backend periph --tms GPIO5 --tdi GPIO6 --tck GPIO13 --tdo GPIO19`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.PersistentFlags()
	f.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	f.StringVarP(&backend, "backend", "b", "sysfs", "GPIO backend: sysfs, periph or ftdi")
	f.StringVar(&sysfsRoot, "root", "/sys/class/gpio", "sysfs: GPIO control surface")
	f.BoolVar(&unexport, "unexport", false, "sysfs: unexport the pins on exit")
	f.BoolVar(&activeLow, "active-low", false, "sysfs: invert the polarity of the pins")
	f.StringVar(&pinTMS, "tms", "110", "TMS pin")
	f.StringVar(&pinTDI, "tdi", "112", "TDI pin")
	f.StringVar(&pinTCK, "tck", "114", "TCK pin")
	f.StringVar(&pinTDO, "tdo", "115", "TDO pin")
	f.IntVar(&ftdiIndex, "ftdi-index", 0, "ftdi: device index")
	f.StringVarP(&timingMode, "timing", "t", jtag.BusyPulse.String(),
		"wait strategy: busy-pulse, pulse-and-sleep, sleep-only or hybrid")
	f.IntVar(&cycles, "cycles", 1, "busy-pulse: TCK pulses per microsecond")
	f.DurationVar(&granularity, "granularity", 0, "round sleeps up to this granularity")
}

func logger() jtag.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.Lmicroseconds)
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}

func timing() (jtag.Timing, error) {
	m, err := jtag.ParseMode(timingMode)
	if err != nil {
		return jtag.Timing{}, err
	}
	return jtag.Timing{Mode: m, CyclesPerMicrosecond: cycles, Granularity: granularity}, nil
}

func verbosef(w io.Writer, format string, v ...interface{}) {
	if verbose {
		fmt.Fprintf(w, format, v...)
	}
}
