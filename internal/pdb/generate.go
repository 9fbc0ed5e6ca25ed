// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdb

import (
	"sync"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
)

// Generate builds a pattern database for ts by breadth-first expansion
// from the solved state, using cfg.Jobs worker goroutines to expand
// the current BFS frontier concurrently and race to claim table
// entries with ConditionalUpdate. It returns the completed table and
// the number of BFS layers it took to reach every reachable address
// (the table's diameter for ts).
//
// Unlike the full 24-puzzle BFS in package layer, a pattern database's
// state space is small enough to keep each layer's frontier in
// memory, shared by a bounded pool of worker goroutines, so there is
// no radix sort or coalesce step here. The worker fan-out splits the
// frontier into per-goroutine batches, runs them to completion behind
// a sync.WaitGroup, and collects each goroutine's claimed children
// under a mutex.
func Generate(ts Tileset, cfg Config) (*Table, int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, 0, err
	}

	aux := NewIndexAux(ts)
	tbl := Allocate(ts)

	solved := puzzle.Solved()
	root := Rank(ts, aux, &solved)
	tbl.Update(root, 0)

	frontier := []puzzle.CompactPuzzle{puzzle.Pack(&solved)}
	layers := 0

	for len(frontier) > 0 {
		dist := byte(layers + 1)
		next := expandFrontier(ts, aux, tbl, frontier, dist, cfg.Jobs)
		if len(next) == 0 {
			break
		}
		frontier = next
		layers++
	}

	return tbl, layers, nil
}

// expandFrontier expands every record in frontier across jobs worker
// goroutines, returning every child newly claimed at distance dist.
// Workers share tbl and race ConditionalUpdate: the first worker to
// reach an address wins, and duplicates the losers would have
// generated are simply dropped instead of coalesced.
func expandFrontier(ts Tileset, aux *IndexAux, tbl *Table, frontier []puzzle.CompactPuzzle, dist byte, jobs int) []puzzle.CompactPuzzle {
	if jobs > len(frontier) {
		jobs = len(frontier)
	}
	if jobs < 1 {
		jobs = 1
	}

	var mu sync.Mutex
	var next []puzzle.CompactPuzzle
	var wg sync.WaitGroup

	chunk := (len(frontier) + jobs - 1) / jobs
	for start := 0; start < len(frontier); start += chunk {
		end := start + chunk
		if end > len(frontier) {
			end = len(frontier)
		}

		wg.Add(1)
		go func(batch []puzzle.CompactPuzzle) {
			defer wg.Done()
			var claimed []puzzle.CompactPuzzle
			for _, cp := range batch {
				puzzle.Expand(cp, func(child puzzle.CompactPuzzle) {
					p := puzzle.Unpack(child)
					idx := Rank(ts, aux, &p)
					if tbl.ConditionalUpdate(idx, UNREACHED, dist) {
						claimed = append(claimed, child)
					}
				})
			}
			if len(claimed) > 0 {
				mu.Lock()
				next = append(next, claimed...)
				mu.Unlock()
			}
		}(frontier[start:end])
	}

	wg.Wait()
	return next
}
