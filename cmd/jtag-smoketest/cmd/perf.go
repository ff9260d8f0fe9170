// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"periph.io/x/jtag/jtag"
	"periph.io/x/jtag/jtagsmoketest"
)

var (
	perfLoops int
	perfWait  int64
)

var perfCmd = &cobra.Command{
	Use:   "perf",
	Short: "Measure the TCK rate and the wait strategies",
	Long: `Pulses TCK in a tight loop to measure the achievable clock rate, then
times a wait with every strategy. The suggested --cycles value calibrates the
busy-pulse strategy for this host.`,
	Args: cobra.NoArgs,
	RunE: runPerf,
}

func init() {
	rootCmd.AddCommand(perfCmd)

	perfCmd.Flags().IntVarP(&perfLoops, "loops", "n", 10000, "number of TCK pulses")
	perfCmd.Flags().Int64VarP(&perfWait, "wait", "w", 1000, "microseconds to wait per strategy")
}

func runPerf(cmd *cobra.Command, args []string) error {
	d, err := openDriver(cmd)
	if err != nil {
		return err
	}
	defer d.Close()
	f, err := jtagsmoketest.Perf(d, perfLoops, perfWait, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Suggested: --cycles %d\n", jtag.CyclesPerMicrosecondFor(f))
	return nil
}
