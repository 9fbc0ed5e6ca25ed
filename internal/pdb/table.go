// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdb

import (
	"sync/atomic"
	"unsafe"

	"github.com/pkg/errors"
)

// UNREACHED marks a table entry whose BFS distance has not yet been
// discovered.
const UNREACHED byte = 255

// MaxJobs bounds the Jobs field: a sanity ceiling on how many worker
// goroutines may share one table during generation.
const MaxJobs = 256

// Config controls how a Table is generated.
type Config struct {
	// Jobs is the number of worker goroutines that concurrently probe
	// and update the table during generation. Must be in [1, MaxJobs].
	Jobs int
}

// Validate checks that c names a usable worker count.
func (c Config) Validate() error {
	if c.Jobs < 1 || c.Jobs > MaxJobs {
		return errors.Errorf("pdb: jobs = %d, want in [1, %d]", c.Jobs, MaxJobs)
	}
	return nil
}

// Table is a dense pattern-database distance table, one byte per
// (maprank, pidx, eqidx) address, addressed through an IndexAux built
// for the table's tile set. Entries start at UNREACHED and are set at
// most once, via ConditionalUpdate, by possibly many goroutines racing
// to claim the same address during concurrent BFS expansion.
type Table struct {
	ts   Tileset
	aux  *IndexAux
	subs [][]byte // subs[maprank] is a dense []byte of length nPidx*nEqclass(maprank)
}

// Allocate allocates a table for tile set ts with every entry set to
// UNREACHED. Each subtable's backing array is padded to a multiple of
// 4 bytes so that casByte's word-aligned access never reads past the
// end of the slice; the padding bytes are never addressed by offset.
func Allocate(ts Tileset) *Table {
	aux := NewIndexAux(ts)
	subs := make([][]byte, aux.NMaprank())
	for m := range subs {
		n := aux.NPidx() * aux.NEqclass(uint32(m))
		buf := make([]byte, (n+3)&^3)
		for i := uint32(0); i < n; i++ {
			buf[i] = UNREACHED
		}
		subs[m] = buf
	}
	return &Table{ts: ts, aux: aux, subs: subs}
}

// Free drops the table's backing storage. Go's garbage collector
// reclaims it once the last reference is gone; Free exists so callers
// have an explicit allocate/free pairing to call symmetrically.
func (t *Table) Free() {
	t.subs = nil
}

// Aux returns the table's addressing tables.
func (t *Table) Aux() *IndexAux { return t.aux }

// offset computes the byte offset of idx within its maprank subtable.
func (t *Table) offset(idx Index) uint32 {
	return idx.Pidx*t.aux.NEqclass(idx.Maprank) + idx.Eqidx
}

// Lookup returns the distance stored at idx.
func (t *Table) Lookup(idx Index) byte {
	sub := t.subs[idx.Maprank]
	off := t.offset(idx)
	word := atomic.LoadUint32(wordPtr(sub, off))
	return byte(word >> byteShift(off))
}

// Update unconditionally writes dist at idx. Unlike ConditionalUpdate
// this is not meant to race with other writers to the same entry; it
// is a plain set, used for entries a caller already knows it owns
// exclusively (such as seeding the root).
func (t *Table) Update(idx Index, dist byte) {
	sub := t.subs[idx.Maprank]
	off := t.offset(idx)
	casByte(sub, off, func(byte) (byte, bool) { return dist, true })
}

// Clear resets every entry back to UNREACHED.
func (t *Table) Clear() {
	for _, sub := range t.subs {
		for i := range sub {
			sub[i] = UNREACHED
		}
	}
}

// Prefetch is a hardware prefetch hint for the entry at idx. Go has
// no portable prefetch intrinsic, so this is a no-op; it exists so
// generation code can call it unconditionally the way the original
// does, without every call site needing a build-tag-gated stub.
func (t *Table) Prefetch(idx Index) {}

// ConditionalUpdate atomically sets the entry at idx to desired iff it
// currently holds expected, and reports whether the update took
// effect. During BFS expansion expected is always UNREACHED: the
// first worker to reach a configuration claims it, and every later
// worker to reach the same address observes the claim and backs off,
// so each entry is written exactly once regardless of how many
// workers race to reach it.
func (t *Table) ConditionalUpdate(idx Index, expected, desired byte) bool {
	sub := t.subs[idx.Maprank]
	off := t.offset(idx)
	return casByte(sub, off, func(cur byte) (byte, bool) {
		if cur != expected {
			return cur, false
		}
		return desired, true
	})
}

// byteShift returns the bit offset of byte index off within its
// containing 32-bit word, assuming a little-endian host.
func byteShift(off uint32) uint32 {
	return (off % 4) * 8
}

// wordPtr returns a pointer to the 32-bit word containing byte off of
// buf, suitably aligned for atomic.LoadUint32/CompareAndSwapUint32.
// Allocate pads every subtable to a multiple of 4 bytes so this never
// reads past the end of the backing array. byteShift assumes a
// little-endian host.
func wordPtr(buf []byte, off uint32) *uint32 {
	base := off &^ 3
	return (*uint32)(unsafe.Pointer(&buf[base]))
}

// casByte performs a read-modify-write loop over the 32-bit word
// containing byte off of buf, applying f to the current byte value
// and retrying on contention. f returns the value to store and
// whether to store it at all; casByte reports whether a store
// happened. Go's sync/atomic package has no atomic byte type, so a
// single-byte CAS is emulated by masking the byte into and out of its
// containing word.
func casByte(buf []byte, off uint32, f func(byte) (byte, bool)) bool {
	base := off &^ 3
	shift := byteShift(off)
	wp := (*uint32)(unsafe.Pointer(&buf[base]))

	for {
		old := atomic.LoadUint32(wp)
		cur := byte(old >> shift)

		next, do := f(cur)
		if !do {
			return false
		}

		newWord := old&^(0xff<<shift) | uint32(next)<<shift
		if atomic.CompareAndSwapUint32(wp, old, newWord) {
			return true
		}
	}
}
