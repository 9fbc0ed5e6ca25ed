// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pdb implements a pattern-database table: a dense byte array
// of BFS distances keyed by a composite (maprank, pidx, eqidx)
// address, shared by many worker goroutines with atomic single-byte
// updates.
package pdb

import (
	"math/bits"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
)

// Tileset is a bitset over the 25 tile numbers identifying which
// tiles a pattern database tracks. Bit t is set iff tile t belongs to
// the pattern.
type Tileset uint32

// Has reports whether t belongs to the tile set.
func (ts Tileset) Has(t int) bool {
	return ts&(1<<uint(t)) != 0
}

// Size is the number of tiles in the set.
func (ts Tileset) Size() int {
	return bits.OnesCount32(uint32(ts))
}

// HasZero reports whether the blank (tile 0) is part of the set. This
// matters for addressing: an entry's offset is computed differently
// depending on whether the zero tile is tracked.
func (ts Tileset) HasZero() bool {
	return ts.Has(puzzle.ZeroTile)
}

// Index is the three-coordinate address of a pattern-database entry:
// maprank identifies which grid cells the pattern's tiles occupy,
// pidx identifies the permutation of the tracked (non-zero) tiles
// among those cells, and eqidx -- present only when the zero tile is
// tracked -- identifies the blank's position among the cells the
// pattern does not claim.
type Index struct {
	Maprank uint32
	Pidx    uint32
	Eqidx   uint32
}

// IndexAux reconstructs the combinatorial ranking tables for a tile
// set: the number of maprank values (C(25,k)), the number of pidx
// values per maprank (k! if the zero tile isn't tracked, else (k-1)!
// since the zero tile's cell is fixed by eqidx instead), and the
// number of eqidx values per maprank (25-k, the free cells, when the
// zero tile is tracked; 1 otherwise). It is rebuilt from the tile set
// alone, so a stored table only needs to record which tiles it
// tracks.
type IndexAux struct {
	ts        Tileset
	k         int
	nMaprank  uint32
	nPidx     uint32
	nEqclass  []uint32 // n_eqclass(maprank), one entry per maprank
	cells     [][]int8 // cells[maprank] = grid cells belonging to that maprank, ascending
}

// NewIndexAux builds the addressing tables for ts.
func NewIndexAux(ts Tileset) *IndexAux {
	k := ts.Size()
	combos := combinations(puzzle.TileCount, k)

	aux := &IndexAux{
		ts:       ts,
		k:        k,
		nMaprank: uint32(len(combos)),
		cells:    combos,
	}

	if ts.HasZero() {
		aux.nPidx = uint32(factorial(k - 1))
	} else {
		aux.nPidx = uint32(factorial(k))
	}

	aux.nEqclass = make([]uint32, len(combos))
	for i, cells := range combos {
		if ts.HasZero() {
			aux.nEqclass[i] = uint32(puzzle.TileCount - len(cells))
		} else {
			aux.nEqclass[i] = 1
		}
	}

	return aux
}

// NMaprank returns the number of distinct maprank values.
func (aux *IndexAux) NMaprank() uint32 { return aux.nMaprank }

// NPidx returns the number of distinct pidx values (same for every
// maprank: it depends only on k).
func (aux *IndexAux) NPidx() uint32 { return aux.nPidx }

// NEqclass returns the number of distinct eqidx values for the given
// maprank.
func (aux *IndexAux) NEqclass(maprank uint32) uint32 { return aux.nEqclass[maprank] }

// combinations returns every k-subset of {0, ..., n-1} in ascending
// combinadic order: maprank enumerates subsets, not permutations.
func combinations(n, k int) [][]int8 {
	if k == 0 {
		return [][]int8{{}}
	}
	if k > n {
		return nil
	}

	var out [][]int8
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		cells := make([]int8, k)
		for i, v := range idx {
			cells[i] = int8(v)
		}
		out = append(out, cells)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}

	return out
}

func factorial(n int) int {
	f := 1
	for i := 2; i <= n; i++ {
		f *= i
	}
	return f
}
