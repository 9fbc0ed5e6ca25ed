// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package puzzle

import "math/bits"

// Per-tile field width: 5 bits hold a grid position in [0, 24].
const tileBits = 5

// MaskBits is the width of the move-exclusion mask field. The blank
// has at most 4 neighbours on a 5x5 grid, so 4 bits is enough to
// forbid any one of them.
const MaskBits = 4

// MoveMask is the bitmask covering the mask field, i.e. the low
// MaskBits bits of Lo.
const MoveMask = 1<<MaskBits - 1

// tilesInHi is how many tile positions (tiles 0..tilesInHi-1) are
// packed into Hi; the rest (up to KeyTiles-1) are packed into Lo above
// the mask field. Tile TileCount-1's position is never stored: it is
// the one grid cell not occupied by any of the other 24 tiles, so it
// can always be recovered by elimination on unpack.
const (
	tilesInHi = 12
	KeyTiles  = TileCount - 1 // 24: tiles whose position is stored/sorted on
)

// CompactPuzzle is the fixed-size packed on-disk record: a bit-packed
// vector of 24 tile positions (Hi holds tiles 0..11, Lo holds tiles
// 12..23 above the mask field) plus a move-exclusion mask in the low
// MaskBits bits of Lo. Two records denote the same configuration iff
// Hi is equal and Lo agrees outside MoveMask.
type CompactPuzzle struct {
	Hi uint64
	Lo uint64
}

// SameConfig reports whether a and b pack the same configuration,
// ignoring mask bits.
func (a CompactPuzzle) SameConfig(b CompactPuzzle) bool {
	return a.Hi == b.Hi && (a.Lo^b.Lo)&^uint64(MoveMask) == 0
}

// Mask returns the move-exclusion mask stored on the record.
func (cp CompactPuzzle) Mask() uint8 {
	return uint8(cp.Lo & MoveMask)
}

// Pack is PackMasked with a zero mask.
func Pack(p *Puzzle) CompactPuzzle {
	return PackMasked(p, 0)
}

// PackMasked packs p's tile positions and stores mask in the low
// MaskBits bits of Lo. Pack is a pure function of p's tile positions:
// two puzzles with the same Tiles array for tiles 0..KeyTiles-1 always
// pack to the same Hi and the same Lo outside the mask field.
func PackMasked(p *Puzzle, mask uint8) CompactPuzzle {
	var hi, lo uint64

	for t := 0; t < tilesInHi; t++ {
		hi |= uint64(p.Tiles[t]) << (tileBits * t)
	}
	for t := tilesInHi; t < KeyTiles; t++ {
		lo |= uint64(p.Tiles[t]) << (tileBits*(t-tilesInHi) + MaskBits)
	}
	lo |= uint64(mask) & MoveMask

	return CompactPuzzle{Hi: hi, Lo: lo}
}

// Unpack reconstructs the puzzle packed into cp's state bits. Mask
// bits are not part of the configuration and are ignored. The
// position of tile TileCount-1 is recovered as the one grid cell none
// of the other 24 tiles occupy.
func Unpack(cp CompactPuzzle) Puzzle {
	var p Puzzle
	var occupied uint32

	for t := 0; t < tilesInHi; t++ {
		loc := int8(cp.Hi>>(tileBits*t)) & (1<<tileBits - 1)
		p.Tiles[t] = loc
		p.Grid[loc] = int8(t)
		occupied |= 1 << uint(loc)
	}
	for t := tilesInHi; t < KeyTiles; t++ {
		loc := int8(cp.Lo>>(tileBits*(t-tilesInHi)+MaskBits)) & (1<<tileBits - 1)
		p.Tiles[t] = loc
		p.Grid[loc] = int8(t)
		occupied |= 1 << uint(loc)
	}

	last := bits.TrailingZeros32(^occupied & (1<<TileCount - 1))
	p.Tiles[KeyTiles] = int8(last)
	p.Grid[last] = KeyTiles

	p.Zloc = p.Tiles[ZeroTile]

	return p
}
