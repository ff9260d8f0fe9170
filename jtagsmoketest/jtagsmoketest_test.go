// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtagsmoketest

import (
	"bytes"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"periph.io/x/jtag/jtag"
	"periph.io/x/jtag/jtag/jtagtest"
)

var discard = log.New(io.Discard, "", 0)

// wired returns a driver whose TDI is jumpered to TDO.
func wired(t *testing.T) *jtag.Driver {
	tdi := &jtagtest.Pin{N: "TDI", Value: '0'}
	d, err := jtag.NewDriver(jtag.Lines{
		TMS: jtag.NewLine(&jtagtest.Pin{N: "TMS"}, 110, jtag.Out, false, discard),
		TDI: jtag.NewLine(tdi, 112, jtag.Out, false, discard),
		TCK: jtag.NewLine(&jtagtest.Pin{N: "TCK"}, 114, jtag.Out, false, discard),
		TDO: jtag.NewLine(tdi, 112, jtag.In, false, discard),
	})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestLoopback(t *testing.T) {
	var out bytes.Buffer
	n, err := Loopback(wired(t), jtag.NewBytesSource(DefaultPattern), jtag.Timing{Mode: jtag.SleepOnly}, 0, &out)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(DefaultPattern)) {
		t.Fatalf("Loopback() = %d bytes", n)
	}
	if !strings.Contains(out.String(), "Loopback: 8 bytes") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestLoopbackMismatch(t *testing.T) {
	_, d := jtagtest.NewDriver(nil, discard)
	_, err := Loopback(d, jtag.NewBytesSource([]byte{0x00, 0x04}), jtag.Timing{Mode: jtag.SleepOnly}, 0, io.Discard)
	var me *MismatchError
	if !errors.As(err, &me) {
		t.Fatalf("Loopback() = %v", err)
	}
	if me.Offset != 1 || me.Bit != 2 || !bool(me.Want) {
		t.Fatalf("mismatch = %+v", me)
	}
}

func TestLoopbackSourceError(t *testing.T) {
	cause := errors.New("read error")
	src := jtag.NewReaderSource(io.MultiReader(strings.NewReader("\x00"), errReader{cause}))
	n, err := Loopback(wired(t), src, jtag.Timing{Mode: jtag.SleepOnly}, 0, io.Discard)
	if !errors.Is(err, cause) || n != 1 {
		t.Fatalf("Loopback() = %d, %v", n, err)
	}
}

func TestPerf(t *testing.T) {
	_, d := jtagtest.NewDriver(nil, discard)
	var out bytes.Buffer
	f, err := Perf(d, 1000, 10, &out)
	if err != nil {
		t.Fatal(err)
	}
	if f <= 0 {
		t.Fatalf("Perf() = %s", f)
	}
	for _, m := range []string{"busy-pulse", "pulse-and-sleep", "sleep-only", "hybrid"} {
		if !strings.Contains(out.String(), m) {
			t.Fatalf("%s missing from %q", m, out.String())
		}
	}
	if _, err := Perf(d, 0, 10, io.Discard); err == nil {
		t.Fatal("expected error")
	}
}

type errReader struct {
	err error
}

func (e errReader) Read([]byte) (int, error) {
	return 0, e.err
}
