// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// jtag-smoketest verifies a JTAG header driven through GPIO lines.
package main

import "periph.io/x/jtag/cmd/jtag-smoketest/cmd"

func main() {
	cmd.Execute()
}
