// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdb

import (
	"sort"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
)

// MaprankOf returns the maprank of the ascending cell list cells,
// which must be one of the k-subsets aux was built over. combinations
// generates subsets in strict lexicographic order, so a binary search
// over aux.cells recovers the rank in O(log NMaprank).
func (aux *IndexAux) MaprankOf(cells []int8) uint32 {
	n := len(aux.cells)
	i := sort.Search(n, func(i int) bool {
		return !lessCells(aux.cells[i], cells)
	})
	return uint32(i)
}

// lessCells reports whether a precedes b in lexicographic order.
func lessCells(a, b []int8) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// EqidxOf ranks cell among the grid cells not present in occupied
// (which must be ascending), in ascending order. It is used to
// address the blank's position among the cells a pattern's tracked
// tiles do not claim.
func EqidxOf(occupied []int8, cell int8) uint32 {
	var rank, j uint32
	oi := 0
	for loc := int8(0); loc < puzzle.TileCount; loc++ {
		if oi < len(occupied) && occupied[oi] == loc {
			oi++
			continue
		}
		if loc == cell {
			return rank
		}
		rank++
		j++
	}
	return rank
}

// permRankRelative computes the Lehmer-code rank of vals, a sequence
// of distinct comparable small integers, among all permutations of
// its own value set (not of 0..n-1): only the relative order of the
// entries matters, which is what pidx is required to capture.
func permRankRelative(vals []int) uint32 {
	n := len(vals)
	var rank uint32
	fact := factorial(n - 1)
	for i := 0; i < n; i++ {
		smaller := 0
		for j := i + 1; j < n; j++ {
			if vals[j] < vals[i] {
				smaller++
			}
		}
		rank += uint32(smaller * fact)
		if n-1-i > 0 {
			fact /= (n - 1 - i)
		}
	}
	return rank
}

// Rank computes the pattern-database address of p under tile set ts,
// using the addressing scheme aux was built for. If ts includes the
// blank, pidx orders the tracked non-blank tiles across the subset's
// cells with the blank's cell removed, and eqidx orders the blank's
// cell among the cells no tracked tile occupies; otherwise pidx orders
// all k tracked tiles and eqidx is always 0.
func Rank(ts Tileset, aux *IndexAux, p *puzzle.Puzzle) Index {
	hasZero := ts.HasZero()

	var tracked []int
	for t := 1; t < puzzle.TileCount; t++ {
		if ts.Has(t) {
			tracked = append(tracked, t)
		}
	}

	tileAt := make(map[int8]int, len(tracked))
	cells := make([]int8, 0, len(tracked)+1)
	if hasZero {
		cells = append(cells, p.Zloc)
	}
	for _, t := range tracked {
		cell := p.Tiles[t]
		cells = append(cells, cell)
		tileAt[cell] = t
	}

	sorted := append([]int8(nil), cells...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	maprank := aux.MaprankOf(sorted)

	if !hasZero {
		vals := make([]int, len(sorted))
		for i, c := range sorted {
			vals[i] = tileAt[c]
		}
		return Index{Maprank: maprank, Pidx: permRankRelative(vals), Eqidx: 0}
	}

	remain := make([]int8, 0, len(sorted)-1)
	for _, c := range sorted {
		if c != p.Zloc {
			remain = append(remain, c)
		}
	}
	vals := make([]int, len(remain))
	for i, c := range remain {
		vals[i] = tileAt[c]
	}

	return Index{
		Maprank: maprank,
		Pidx:    permRankRelative(vals),
		Eqidx:   EqidxOf(sorted, p.Zloc),
	}
}
