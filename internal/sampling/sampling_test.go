// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sampling

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/golang/snappy"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
	"github.com/clausecker/puzzle24dist/internal/radix"
)

func writeLayer(t *testing.T, n int) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		cp := puzzle.CompactPuzzle{Hi: uint64(i), Lo: uint64(i) << 4}
		if err := radix.WriteRecord(&buf, cp); err != nil {
			t.Fatal(err)
		}
	}
	return &buf
}

func TestReservoirKeepsEverythingBelowCapacity(t *testing.T) {
	r := NewReservoir(10, 42)
	for i := 0; i < 5; i++ {
		r.Add(puzzle.CompactPuzzle{Hi: uint64(i)})
	}
	if len(r.Sample()) != 5 {
		t.Fatalf("sample size = %d, want 5", len(r.Sample()))
	}
}

func TestReservoirCapsAtN(t *testing.T) {
	r := NewReservoir(10, 42)
	for i := 0; i < 1000; i++ {
		r.Add(puzzle.CompactPuzzle{Hi: uint64(i)})
	}
	if len(r.Sample()) != 10 {
		t.Fatalf("sample size = %d, want 10", len(r.Sample()))
	}
	if r.Seen() != 1000 {
		t.Fatalf("Seen() = %d, want 1000", r.Seen())
	}
}

func TestReservoirZeroCapacityKeepsNothing(t *testing.T) {
	r := NewReservoir(0, 1)
	for i := 0; i < 100; i++ {
		r.Add(puzzle.CompactPuzzle{Hi: uint64(i)})
	}
	if len(r.Sample()) != 0 {
		t.Fatalf("sample size = %d, want 0", len(r.Sample()))
	}
}

func TestReservoirDeterministicGivenSeed(t *testing.T) {
	mk := func() []puzzle.CompactPuzzle {
		r := NewReservoir(5, 7)
		for i := 0; i < 200; i++ {
			r.Add(puzzle.CompactPuzzle{Hi: uint64(i)})
		}
		return r.Sample()
	}
	a, b := mk(), mk()
	if len(a) != len(b) {
		t.Fatalf("sample sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different samples at index %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestSampleWritesSnappyCompressedRecords(t *testing.T) {
	layer := writeLayer(t, 50)

	var out bytes.Buffer
	n, err := Sample(&out, layer, Config{N: 10, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if n != 10 {
		t.Fatalf("Sample wrote %d records, want 10", n)
	}

	sr := snappy.NewReader(&out)
	br := bufio.NewReader(sr)
	var got int
	for {
		if _, err := radix.ReadRecord(br); err != nil {
			break
		}
		got++
	}
	if got != 10 {
		t.Fatalf("decompressed %d records, want 10", got)
	}
}

func TestSampleWithFewerRecordsThanNKeepsAll(t *testing.T) {
	layer := writeLayer(t, 3)

	var out bytes.Buffer
	n, err := Sample(&out, layer, Config{N: 100, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("Sample wrote %d records, want 3", n)
	}
}
