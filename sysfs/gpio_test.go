// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/jtag/jtag"
)

func TestConfigureOutput(t *testing.T) {
	root := fakeRoot(t, 110)
	c := Config{Root: root, Logger: discard}
	l, err := c.Configure(110, jtag.Out, false)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if got := read(t, root, "export"); got != "110" {
		t.Fatalf("export = %q", got)
	}
	if got := read(t, root, "gpio110/direction"); got != "out" {
		t.Fatalf("direction = %q", got)
	}
	if got := read(t, root, "gpio110/active_low"); got != "0" {
		t.Fatalf("active_low = %q", got)
	}
	if l.String() != "GPIO110" || l.Number() != 110 {
		t.Fatalf("unexpected line %s %d", l, l.Number())
	}
	for _, v := range []gpio.Level{gpio.High, gpio.Low, gpio.High} {
		if err := l.Write(v); err != nil {
			t.Fatal(err)
		}
		want := "0"
		if v {
			want = "1"
		}
		if got := read(t, root, "gpio110/value"); got != want {
			t.Fatalf("value = %q, want %q", got, want)
		}
	}
}

func TestConfigureActiveLow(t *testing.T) {
	root := fakeRoot(t, 3)
	c := Config{Root: root, Logger: discard}
	l, err := c.Configure(3, jtag.Out, true)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if got := read(t, root, "gpio3/active_low"); got != "1" {
		t.Fatalf("active_low = %q", got)
	}
	if !l.ActiveLow() {
		t.Fatal("ActiveLow() = false")
	}
}

func TestConfigureInputRewinds(t *testing.T) {
	root := fakeRoot(t, 115)
	write(t, root, "gpio115/value", "1\n")
	c := Config{Root: root, Logger: discard}
	l, err := c.Configure(115, jtag.In, false)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if got := read(t, root, "gpio115/direction"); got != "in" {
		t.Fatalf("direction = %q", got)
	}
	for _, s := range []string{"1\n", "0\n", "0\n", "1\n"} {
		write(t, root, "gpio115/value", s)
		v, err := l.Sample()
		if err != nil {
			t.Fatal(err)
		}
		if want := gpio.Level(s[0] == '1'); v != want {
			t.Fatalf("Sample() = %s, want %s", v, want)
		}
	}
	if err := l.Write(gpio.High); !errors.Is(err, jtag.ErrDirection) {
		t.Fatalf("Write() on input = %v", err)
	}
}

func TestConfigureInputUnexpected(t *testing.T) {
	root := fakeRoot(t, 115)
	write(t, root, "gpio115/value", "x")
	c := Config{Root: root, Logger: discard}
	l, err := c.Configure(115, jtag.In, false)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	if _, err := l.Sample(); !errors.Is(err, jtag.ErrUnexpectedSample) {
		t.Fatalf("Sample() = %v", err)
	}
	write(t, root, "gpio115/value", "1")
	if _, err := l.Sample(); !errors.Is(err, jtag.ErrLineDegraded) {
		t.Fatalf("Sample() = %v", err)
	}
}

func TestConfigureInputEmpty(t *testing.T) {
	root := fakeRoot(t, 9)
	c := Config{Root: root, Logger: discard}
	l, err := c.Configure(9, jtag.In, false)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Close()
	_, err = l.Sample()
	var le *jtag.LineError
	if !errors.As(err, &le) || le.Raw != -1 {
		t.Fatalf("Sample() = %v", err)
	}
}

func TestConfigureFailures(t *testing.T) {
	data := []struct {
		name   string
		remove string
		step   jtag.ConfigStep
	}{
		{"export", "export", jtag.StepExport},
		{"direction", "gpio7/direction", jtag.StepDirection},
		{"polarity", "gpio7/active_low", jtag.StepPolarity},
		{"open", "gpio7/value", jtag.StepOpen},
	}
	for _, line := range data {
		t.Run(line.name, func(t *testing.T) {
			root := fakeRoot(t, 7)
			if err := os.Remove(filepath.Join(root, line.remove)); err != nil {
				t.Fatal(err)
			}
			c := Config{Root: root, Logger: discard}
			l, err := c.Configure(7, jtag.Out, false)
			if l != nil {
				t.Fatal("a partial line was returned")
			}
			var ce *jtag.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Configure() = %v, want *jtag.ConfigError", err)
			}
			if ce.Step != line.step || ce.Pin != 7 {
				t.Fatalf("Configure() = %+v, want step %s", ce, line.step)
			}
			if !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("Configure() = %v, want the cause kept", err)
			}
		})
	}
}

func TestConfigureInvalid(t *testing.T) {
	c := Config{Root: t.TempDir(), Logger: discard}
	if _, err := c.Configure(-1, jtag.Out, false); err == nil {
		t.Fatal("expected error for negative pin")
	}
	if _, err := c.Configure(1, jtag.Direction(0), false); err == nil {
		t.Fatal("expected error for invalid direction")
	}
}

func TestUnexport(t *testing.T) {
	root := fakeRoot(t, 12)
	c := Config{Root: root, Unexport: true, Logger: discard}
	l, err := c.Configure(12, jtag.Out, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if got := read(t, root, "unexport"); got != "12" {
		t.Fatalf("unexport = %q", got)
	}
}

func TestOpen(t *testing.T) {
	root := fakeRoot(t, 110, 112, 114, 115)
	write(t, root, "gpio115/value", "1")
	c := Config{Root: root, Logger: discard}
	d, err := c.Open(Pins{TMS: 110, TDI: 112, TCK: 114, TDO: 115})
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	if err := d.Set(jtag.TMS, gpio.High); err != nil {
		t.Fatal(err)
	}
	if err := d.Set(jtag.TDI, gpio.Low); err != nil {
		t.Fatal(err)
	}
	if got := read(t, root, "gpio110/value"); got != "" {
		t.Fatalf("TMS written before TCK: %q", got)
	}
	if err := d.Set(jtag.TCK, gpio.High); err != nil {
		t.Fatal(err)
	}
	for p, want := range map[string]string{"gpio110/value": "1", "gpio112/value": "0", "gpio114/value": "1"} {
		if got := read(t, root, p); got != want {
			t.Fatalf("%s = %q, want %q", p, got, want)
		}
	}
	v, err := d.SampleTDO()
	if err != nil || v != gpio.High {
		t.Fatalf("SampleTDO() = %s, %v", v, err)
	}
}

func TestOpenReleasesOnFailure(t *testing.T) {
	root := fakeRoot(t, 110, 112, 114)
	c := Config{Root: root, Unexport: true, Logger: discard}
	_, err := c.Open(Pins{TMS: 110, TDI: 112, TCK: 114, TDO: 115})
	var ce *jtag.ConfigError
	if !errors.As(err, &ce) || ce.Pin != 115 || ce.Step != jtag.StepDirection {
		t.Fatalf("Open() = %v", err)
	}
	// The last unexport written is the last line released.
	if got := read(t, root, "unexport"); got != "114" {
		t.Fatalf("unexport = %q", got)
	}
}

//

var discard = log.New(io.Discard, "", 0)

// fakeRoot creates a directory mimicking /sys/class/gpio with the given pins
// already exported.
func fakeRoot(t *testing.T, pins ...int) string {
	root := t.TempDir()
	write(t, root, "export", "")
	write(t, root, "unexport", "")
	for _, p := range pins {
		d := "gpio" + strconv.Itoa(p)
		if err := os.Mkdir(filepath.Join(root, d), 0700); err != nil {
			t.Fatal(err)
		}
		for _, f := range []string{"direction", "active_low", "value"} {
			write(t, root, d+"/"+f, "")
		}
	}
	return root
}

func write(t *testing.T, root, name, content string) {
	if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
}

func read(t *testing.T, root, name string) string {
	b, err := os.ReadFile(filepath.Join(root, name))
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}
