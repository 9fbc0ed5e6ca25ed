// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdb

import (
	"sync"
	"testing"
)

func smallTileset() Tileset {
	return Tileset(1<<0 | 1<<1 | 1<<2) // blank plus two tiles
}

func TestAllocateStartsUnreached(t *testing.T) {
	tbl := Allocate(smallTileset())
	idx := Index{Maprank: 0, Pidx: 0, Eqidx: 0}
	if got := tbl.Lookup(idx); got != UNREACHED {
		t.Fatalf("fresh table entry = %d, want UNREACHED", got)
	}
}

func TestConditionalUpdateClaimsOnce(t *testing.T) {
	tbl := Allocate(smallTileset())
	idx := Index{Maprank: 0, Pidx: 1, Eqidx: 3}

	if !tbl.ConditionalUpdate(idx, UNREACHED, 5) {
		t.Fatal("first ConditionalUpdate should have claimed the entry")
	}
	if got := tbl.Lookup(idx); got != 5 {
		t.Fatalf("Lookup after claim = %d, want 5", got)
	}
	if tbl.ConditionalUpdate(idx, UNREACHED, 9) {
		t.Fatal("second ConditionalUpdate should not override an already-reached entry")
	}
	if got := tbl.Lookup(idx); got != 5 {
		t.Fatalf("Lookup after failed overwrite = %d, want unchanged 5", got)
	}
	if !tbl.ConditionalUpdate(idx, 5, 3) {
		t.Fatal("ConditionalUpdate with the correct expected value should succeed")
	}
	if got := tbl.Lookup(idx); got != 3 {
		t.Fatalf("Lookup after matching-expected update = %d, want 3", got)
	}
}

func TestConditionalUpdateConcurrentRaceSingleWinner(t *testing.T) {
	tbl := Allocate(smallTileset())
	idx := Index{Maprank: 0, Pidx: 0, Eqidx: 1}

	const workers = 64
	var wg sync.WaitGroup
	var wins int32
	var mu sync.Mutex

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(dist byte) {
			defer wg.Done()
			if tbl.ConditionalUpdate(idx, UNREACHED, dist) {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(byte(i % 200))
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("%d workers won the race to claim one entry, want exactly 1", wins)
	}
	if got := tbl.Lookup(idx); got == UNREACHED {
		t.Fatal("entry still UNREACHED after a successful claim")
	}
}

func TestConditionalUpdateLeavesNeighboringBytesAlone(t *testing.T) {
	tbl := Allocate(smallTileset())
	nEq := tbl.aux.NEqclass(0)
	if nEq < 4 {
		t.Skip("maprank 0 subtable too short for this check")
	}

	a := Index{Maprank: 0, Pidx: 0, Eqidx: 0}
	b := Index{Maprank: 0, Pidx: 0, Eqidx: 1}

	tbl.ConditionalUpdate(a, UNREACHED, 42)
	if got := tbl.Lookup(b); got != UNREACHED {
		t.Fatalf("writing entry a clobbered neighboring entry b: got %d, want UNREACHED", got)
	}
	tbl.ConditionalUpdate(b, UNREACHED, 7)
	if got := tbl.Lookup(a); got != 42 {
		t.Fatalf("writing entry b clobbered entry a: got %d, want 42", got)
	}
}

func TestUpdateOverwritesUnconditionally(t *testing.T) {
	tbl := Allocate(smallTileset())
	idx := Index{Maprank: 0, Pidx: 0, Eqidx: 0}

	tbl.Update(idx, 3)
	tbl.Update(idx, 8)
	if got := tbl.Lookup(idx); got != 8 {
		t.Fatalf("Lookup after two Updates = %d, want 8", got)
	}
}

func TestClearResetsEveryEntry(t *testing.T) {
	tbl := Allocate(smallTileset())
	idx := Index{Maprank: 0, Pidx: 0, Eqidx: 0}
	tbl.Update(idx, 11)

	tbl.Clear()

	if got := tbl.Lookup(idx); got != UNREACHED {
		t.Fatalf("Lookup after Clear = %d, want UNREACHED", got)
	}
}

func TestFreeDropsStorage(t *testing.T) {
	tbl := Allocate(smallTileset())
	tbl.Free()
	if tbl.subs != nil {
		t.Fatal("Free did not drop the subtable storage")
	}
}

func TestPrefetchDoesNotPanic(t *testing.T) {
	tbl := Allocate(smallTileset())
	tbl.Prefetch(Index{Maprank: 0, Pidx: 0, Eqidx: 0})
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		jobs int
		ok   bool
	}{
		{0, false},
		{1, true},
		{256, true},
		{257, false},
		{-1, false},
	}
	for _, c := range cases {
		err := Config{Jobs: c.jobs}.Validate()
		if (err == nil) != c.ok {
			t.Fatalf("Config{Jobs: %d}.Validate() error = %v, want ok=%v", c.jobs, err, c.ok)
		}
	}
}
