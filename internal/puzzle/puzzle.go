// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package puzzle implements the data model for the 24-puzzle: the
// unpacked configuration, the packed on-disk record, and the
// move-generation rules that connect them.
package puzzle

// GridSize is the width and height of the puzzle grid.
const GridSize = 5

// TileCount is the number of tiles, including the blank (tile 0).
const TileCount = GridSize * GridSize

// ZeroTile is the tile number used for the blank.
const ZeroTile = 0

// Puzzle is an unpacked 24-puzzle configuration. Tiles maps a tile
// number to its grid position; Grid is the inverse map, grid position
// to tile number. Zloc caches the blank's grid position, i.e.
// Tiles[ZeroTile].
type Puzzle struct {
	Tiles [TileCount]int8
	Grid  [TileCount]int8
	Zloc  int8
}

// Solved returns the solved puzzle: tiles 1..24 in row-major reading
// order, blank in the last grid cell.
func Solved() Puzzle {
	var p Puzzle

	p.Tiles[ZeroTile] = TileCount - 1
	p.Grid[TileCount-1] = ZeroTile
	for t := 1; t < TileCount; t++ {
		p.Tiles[t] = int8(t - 1)
		p.Grid[t-1] = int8(t)
	}
	p.Zloc = TileCount - 1

	return p
}

// Move swaps the blank with the tile currently at grid position dest.
// A move is undone by calling Move again with the blank's location
// from before the first call (not with the same dest): the usual use
// is to apply a move and later undo it that way, so a single Puzzle
// value can be reused across an entire expansion without allocating a
// copy per child.
func (p *Puzzle) Move(dest int8) {
	t := p.Grid[dest]
	p.Grid[p.Zloc] = t
	p.Tiles[t] = p.Zloc
	p.Grid[dest] = ZeroTile
	p.Tiles[ZeroTile] = dest
	p.Zloc = dest
}
