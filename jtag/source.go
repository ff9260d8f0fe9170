// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// ByteSource delivers the programming image one byte at a time.
//
// ErrEndOfStream is terminal: callers track the expected length themselves
// and must not call NextByte again afterward.
type ByteSource interface {
	NextByte() (byte, error)
}

// ReaderSource is a ByteSource over a pre-opened stream. It never closes the
// stream.
type ReaderSource struct {
	r        io.ByteReader
	consumed int64
	done     bool
}

// NewReaderSource returns a ByteSource reading from r. r is buffered unless
// it already implements io.ByteReader.
func NewReaderSource(r io.Reader) *ReaderSource {
	br, ok := r.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &ReaderSource{r: br}
}

// NewBytesSource returns a ByteSource serving an in-memory image.
func NewBytesSource(b []byte) *ReaderSource {
	return &ReaderSource{r: bytes.NewReader(b)}
}

// NextByte implements ByteSource.
//
// A read failure other than io.EOF is returned wrapped alongside
// ErrEndOfStream, and ends the stream too.
func (s *ReaderSource) NextByte() (byte, error) {
	if s.done {
		return 0, ErrEndOfStream
	}
	b, err := s.r.ReadByte()
	if err != nil {
		s.done = true
		if errors.Is(err, io.EOF) {
			return 0, ErrEndOfStream
		}
		return 0, errors.Join(ErrEndOfStream, err)
	}
	s.consumed++
	return b, nil
}

// Consumed returns the number of bytes delivered so far.
func (s *ReaderSource) Consumed() int64 {
	return s.consumed
}

var _ ByteSource = &ReaderSource{}
