// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"periph.io/x/jtag/jtag"
	"periph.io/x/jtag/jtagsmoketest"
)

var (
	loopbackImage string
	loopbackWait  int64
)

var loopbackCmd = &cobra.Command{
	Use:   "loopback",
	Short: "Shift a pattern through TDI and verify it on TDO",
	Long: `Shifts a pattern bit by bit through TDI, pulsing TCK for each bit, and
verifies that TDO follows. TDI must be wired to TDO.

Examples:
  # Built-in pattern
  jtag-smoketest loopback

  # Shift a programming image, waiting 10us after each bit
  jtag-smoketest loopback --image design.xsvf --wait 10`,
	Args: cobra.NoArgs,
	RunE: runLoopback,
}

func init() {
	rootCmd.AddCommand(loopbackCmd)

	loopbackCmd.Flags().StringVarP(&loopbackImage, "image", "i", "",
		"file to shift instead of the built-in pattern")
	loopbackCmd.Flags().Int64VarP(&loopbackWait, "wait", "w", 0,
		"microseconds to wait after each bit")
}

func runLoopback(cmd *cobra.Command, args []string) error {
	t, err := timing()
	if err != nil {
		return err
	}
	var src jtag.ByteSource = jtag.NewBytesSource(jtagsmoketest.DefaultPattern)
	if loopbackImage != "" {
		f, err := os.Open(loopbackImage)
		if err != nil {
			return err
		}
		defer f.Close()
		src = jtag.NewReaderSource(f)
	}
	d, err := openDriver(cmd)
	if err != nil {
		return err
	}
	defer d.Close()
	_, err = jtagsmoketest.Loopback(d, src, t, loopbackWait, cmd.OutOrStdout())
	return err
}
