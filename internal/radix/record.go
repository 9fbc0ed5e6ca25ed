// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package radix implements an external, disk-backed radix sort over
// streams of packed puzzle states: 24 distribution passes over
// temporary bucket files, one file per value of one tile position,
// least-significant digit first.
package radix

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
)

// recordSize is the on-disk size of one puzzle.CompactPuzzle: two
// uint64 words, explicit little-endian so the bucket files are
// portable across hosts regardless of native byte order.
const recordSize = 16

// ReadRecord reads one compact puzzle from r. It returns io.EOF (and
// no other error) when r is positioned exactly at end of file.
func ReadRecord(r io.Reader) (puzzle.CompactPuzzle, error) {
	var buf [recordSize]byte

	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return puzzle.CompactPuzzle{}, errors.Wrap(io.ErrUnexpectedEOF, "read compact puzzle: truncated record")
		}
		return puzzle.CompactPuzzle{}, err
	}

	return puzzle.CompactPuzzle{
		Hi: binary.LittleEndian.Uint64(buf[0:8]),
		Lo: binary.LittleEndian.Uint64(buf[8:16]),
	}, nil
}

// WriteRecord appends one compact puzzle to w.
func WriteRecord(w io.Writer, cp puzzle.CompactPuzzle) error {
	var buf [recordSize]byte

	binary.LittleEndian.PutUint64(buf[0:8], cp.Hi)
	binary.LittleEndian.PutUint64(buf[8:16], cp.Lo)

	_, err := w.Write(buf[:])
	return err
}
