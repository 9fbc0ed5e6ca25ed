// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coalesce

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
	"github.com/clausecker/puzzle24dist/internal/radix"
)

func writeStream(t *testing.T, cps ...puzzle.CompactPuzzle) *bufio.Reader {
	t.Helper()
	var buf bytes.Buffer
	for _, cp := range cps {
		if err := radix.WriteRecord(&buf, cp); err != nil {
			t.Fatal(err)
		}
	}
	return bufio.NewReader(&buf)
}

func readAll(t *testing.T, r *bufio.Reader) []puzzle.CompactPuzzle {
	t.Helper()
	var out []puzzle.CompactPuzzle
	for {
		cp, err := radix.ReadRecord(r)
		if err != nil {
			break
		}
		out = append(out, cp)
	}
	return out
}

func TestCoalesceMaskUnion(t *testing.T) {
	a := puzzle.CompactPuzzle{Hi: 1, Lo: 0b0001}
	b := puzzle.CompactPuzzle{Hi: 1, Lo: 0b0010}

	r := writeStream(t, a, b)
	var out bytes.Buffer
	n, err := Coalesce(&out, r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("coalesced count = %d, want 1", n)
	}

	got := readAll(t, bufio.NewReader(&out))
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].Mask() != 0b0011 {
		t.Fatalf("mask = %04b, want 0011", got[0].Mask())
	}
}

func TestCoalesceSeparatesDistinctConfigs(t *testing.T) {
	x := puzzle.CompactPuzzle{Hi: 1, Lo: 0b0001}
	y := puzzle.CompactPuzzle{Hi: 2, Lo: 0b0000}

	r := writeStream(t, x, x, y)
	var out bytes.Buffer
	n, err := Coalesce(&out, r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("coalesced count = %d, want 2", n)
	}

	got := readAll(t, bufio.NewReader(&out))
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	if got[0].Hi != 1 || got[0].Mask() != 0b0001 {
		t.Fatalf("first record = %+v, want Hi=1 mask=0001", got[0])
	}
	if got[1].Hi != 2 {
		t.Fatalf("second record Hi = %d, want 2", got[1].Hi)
	}
}

func TestCoalesceIdempotent(t *testing.T) {
	a := puzzle.CompactPuzzle{Hi: 7, Lo: 0b1010}
	b := puzzle.CompactPuzzle{Hi: 9, Lo: 0b0001}

	r := writeStream(t, a, b)
	var once bytes.Buffer
	if _, err := Coalesce(&once, r); err != nil {
		t.Fatal(err)
	}

	var twice bytes.Buffer
	n, err := Coalesce(&twice, bufio.NewReader(bytes.NewReader(once.Bytes())))
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("re-coalescing an already-coalesced stream changed record count to %d", n)
	}
	if !bytes.Equal(once.Bytes(), twice.Bytes()) {
		t.Fatal("coalescing a coalesced stream should be a no-op")
	}
}

func TestCoalesceEmptyStream(t *testing.T) {
	r := writeStream(t)
	var out bytes.Buffer
	n, err := Coalesce(&out, r)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 || out.Len() != 0 {
		t.Fatalf("coalescing empty stream produced %d records", n)
	}
}
