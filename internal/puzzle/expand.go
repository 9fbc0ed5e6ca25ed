// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

// Expand enumerates the states reachable in one legal move from cp,
// skipping moves forbidden by cp's mask. Each child carries a mask
// with the bit set that forbids undoing the move just made, so the
// BFS never walks straight back to the parent it came from. p is
// mutated and restored in place: unpack once, then move/emit/undo for
// each unmasked direction instead of unpacking fresh per child.
func Expand(cp CompactPuzzle, emit func(CompactPuzzle)) {
	p := Unpack(cp)
	zloc := p.Zloc
	mask := cp.Mask()
	moves := GetMoves(zloc)

	for i, dest := range moves {
		if mask&(1<<uint(i)) != 0 {
			continue
		}

		p.Move(dest)
		childMask := uint8(1) << uint(reverseIndex(zloc, dest))
		emit(PackMasked(&p, childMask))
		p.Move(zloc)
	}
}
