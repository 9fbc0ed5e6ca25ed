// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package layer orchestrates one BFS layer of the 24-puzzle expansion:
// expand the input stream into bucket files, redistribute those
// buckets across descending tile indices, then coalesce the final
// buckets into the output stream.
package layer

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/clausecker/puzzle24dist/internal/coalesce"
	"github.com/clausecker/puzzle24dist/internal/puzzle"
	"github.com/clausecker/puzzle24dist/internal/radix"
)

// Driver runs successive BFS layers against bucket files named under
// Dir.
type Driver struct {
	Dir string
}

// WriteLayerZero writes the single-record layer 0 stream: the packed
// solved puzzle with a zero mask, the root of the BFS expansion.
func WriteLayerZero(w io.Writer) (uint64, error) {
	p := puzzle.Solved()
	if err := radix.WriteRecord(w, puzzle.Pack(&p)); err != nil {
		return 0, errors.Wrap(err, "write layer 0")
	}
	return 1, nil
}

// Run expands every record in the previous layer's stream in, sorts
// and coalesces the result, and writes the new layer to out. It
// returns the new layer's cardinality (the number of records written).
//
// At most 2*radix.Buckets bucket files plus the two layer streams
// (in, out, both owned by the caller) are ever open at once: the old
// round's buckets are closed and unlinked as each one drains, before
// the next round's buckets are fully populated.
func (d *Driver) Run(in io.Reader, out io.Writer) (uint64, error) {
	cur, err := radix.CreateBuckets(d.Dir, radix.FirstRound)
	if err != nil {
		return 0, err
	}

	r := bufio.NewReader(in)
	for {
		cp, err := radix.ReadRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			cur.CloseAndRemoveAll()
			return 0, errors.Wrap(err, "layer: read input")
		}

		puzzle.Expand(cp, func(child puzzle.CompactPuzzle) {
			if err != nil {
				return
			}
			loc := radix.Key(child, radix.FirstRound)
			err = cur.Put(loc, child)
		})
		if err != nil {
			cur.CloseAndRemoveAll()
			return 0, err
		}
	}

	for round := radix.FirstRound - 1; round >= 0; round-- {
		next, err := radix.CreateBuckets(d.Dir, round)
		if err != nil {
			cur.CloseAndRemoveAll()
			return 0, err
		}

		for loc := 0; loc < radix.Buckets; loc++ {
			br, err := cur.Reader(loc)
			if err != nil {
				next.CloseAndRemoveAll()
				cur.CloseAndRemoveAll()
				return 0, err
			}
			if err := radix.Distribute(next, br, round); err != nil {
				next.CloseAndRemoveAll()
				cur.CloseAndRemoveAll()
				return 0, err
			}
			if err := cur.CloseAndRemove(loc); err != nil {
				next.CloseAndRemoveAll()
				return 0, err
			}
		}

		cur = next
	}

	var total uint64
	for loc := 0; loc < radix.Buckets; loc++ {
		br, err := cur.Reader(loc)
		if err != nil {
			cur.CloseAndRemoveAll()
			return total, err
		}
		n, err := coalesce.Coalesce(out, br)
		total += n
		if err != nil {
			cur.CloseAndRemoveAll()
			return total, err
		}
		if err := cur.CloseAndRemove(loc); err != nil {
			return total, err
		}
	}

	return total, nil
}
