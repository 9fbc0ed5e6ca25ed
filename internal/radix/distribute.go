// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package radix

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
)

// FirstRound is the tile index keyed by the first (fused) radix pass.
// Rounds then proceed FirstRound, FirstRound-1, ..., 0: 24 passes in
// total over the 24 tile indices that determine a configuration (tile
// puzzle.KeyTiles's position is implied by the rest and is never a
// sort key). See DESIGN.md for the round-numbering rationale.
const FirstRound = puzzle.KeyTiles - 1

// Key returns the radix digit used in round `round`: the grid
// position of tile `round`.
func Key(cp puzzle.CompactPuzzle, round int) int8 {
	p := puzzle.Unpack(cp)
	return p.Tiles[round]
}

// Distribute streams records from r and appends each one to the
// bucket in next selected by its tiles[round] value. It is one step of
// the radix sort: LSD-stable, because records keep the relative order
// established by the previous round as they're appended within each
// bucket in that round's loc = 0..Buckets-1 scan order.
func Distribute(next *BucketSet, r *bufio.Reader, round int) error {
	for {
		cp, err := ReadRecord(r)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "distribute: read")
		}

		loc := Key(cp, round)
		if err := next.Put(loc, cp); err != nil {
			return err
		}
	}
}
