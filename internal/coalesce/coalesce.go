// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coalesce implements the single linear pass that fuses
// adjacent sorted records representing the same configuration, OR-ing
// their move-exclusion masks so that a move is blocked in the next
// layer if any parent that reached this configuration arrived via the
// reverse of that move.
package coalesce

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
	"github.com/clausecker/puzzle24dist/internal/radix"
)

// Coalesce reads records from r (assumed sorted so that all records
// for one configuration are adjacent, as guaranteed by radix.Distribute
// run to completion) and writes one record per distinct configuration
// to w, with mask bits OR-ed across the group. It returns the number
// of records written.
func Coalesce(w io.Writer, r *bufio.Reader) (uint64, error) {
	a, err := radix.ReadRecord(r)
	if err == io.EOF {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "coalesce: read")
	}

	var count uint64

	for {
		b, err := radix.ReadRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, errors.Wrap(err, "coalesce: read")
		}

		if a.SameConfig(b) {
			a.Lo |= b.Lo & puzzle.MoveMask
		} else {
			if err := radix.WriteRecord(w, a); err != nil {
				return count, errors.Wrap(err, "coalesce: write")
			}
			count++
			a = b
		}
	}

	if err := radix.WriteRecord(w, a); err != nil {
		return count, errors.Wrap(err, "coalesce: write")
	}
	count++

	return count, nil
}
