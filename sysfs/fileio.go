// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"io"
	"os"
	"syscall"
)

// fileIO is the subset of *os.File used on sysfs pseudo files.
type fileIO interface {
	Fd() uintptr
	io.Closer
	io.Reader
	io.Seeker
	io.Writer
}

func fileIOOpen(path string, flag int) (fileIO, error) {
	f, err := os.OpenFile(path, flag, 0600)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// writeFile sets a control attribute with a single write(2).
func writeFile(path string, b []byte) error {
	f, err := fileIOOpen(path, os.O_WRONLY|os.O_TRUNC)
	if err != nil {
		return err
	}
	_, err = f.Write(b)
	if err1 := f.Close(); err == nil {
		err = err1
	}
	return err
}

func seekRead(f fileIO, b []byte) (int, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return f.Read(b)
}

func seekWrite(f fileIO, b []byte) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := f.Write(b)
	return err
}

func isErrBusy(err error) bool {
	return errors.Is(err, syscall.EBUSY)
}
