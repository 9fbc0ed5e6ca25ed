// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pdb

import (
	"encoding/binary"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// fileMagic tags a pattern-database file so Load refuses to
// misinterpret an unrelated file as a table.
const fileMagic = 0x50444230 // "PDB0"

// Store writes t to w: a header (magic, tile set, subtable count)
// followed by the concatenation of every subtable in maprank order,
// followed by an xxhash/v2 checksum of everything written after the
// magic. This is the inverse of Load.
func (t *Table) Store(w io.Writer) error {
	h := xxhash.New()
	mw := io.MultiWriter(w, h)

	if err := binary.Write(w, binary.LittleEndian, uint32(fileMagic)); err != nil {
		return errors.Wrap(err, "pdb: write magic")
	}
	if err := binary.Write(mw, binary.LittleEndian, uint32(t.ts)); err != nil {
		return errors.Wrap(err, "pdb: write tile set")
	}
	if err := binary.Write(mw, binary.LittleEndian, uint32(len(t.subs))); err != nil {
		return errors.Wrap(err, "pdb: write subtable count")
	}
	for i, sub := range t.subs {
		n := t.aux.NPidx() * t.aux.NEqclass(uint32(i))
		if _, err := mw.Write(sub[:n]); err != nil {
			return errors.Wrapf(err, "pdb: write subtable %d", i)
		}
	}

	if err := binary.Write(w, binary.LittleEndian, h.Sum64()); err != nil {
		return errors.Wrap(err, "pdb: write checksum")
	}
	return nil
}

// Load reads a table previously written by Store from r. The tile set
// used to build the table is recovered from the file header, and the
// addressing tables are rebuilt from it rather than stored on disk.
func Load(r io.Reader) (*Table, error) {
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, errors.Wrap(err, "pdb: read magic")
	}
	if magic != fileMagic {
		return nil, errors.Errorf("pdb: bad file magic %#x", magic)
	}

	h := xxhash.New()
	tr := io.TeeReader(r, h)

	var tsRaw, count uint32
	if err := binary.Read(tr, binary.LittleEndian, &tsRaw); err != nil {
		return nil, errors.Wrap(err, "pdb: read tile set")
	}
	if err := binary.Read(tr, binary.LittleEndian, &count); err != nil {
		return nil, errors.Wrap(err, "pdb: read subtable count")
	}

	ts := Tileset(tsRaw)
	aux := NewIndexAux(ts)
	if count != aux.NMaprank() {
		return nil, errors.Errorf("pdb: subtable count %d does not match tile set (want %d)", count, aux.NMaprank())
	}

	subs := make([][]byte, count)
	for i := range subs {
		n := aux.NPidx() * aux.NEqclass(uint32(i))
		buf := make([]byte, (n+3)&^3)
		if _, err := io.ReadFull(tr, buf[:n]); err != nil {
			return nil, errors.Wrapf(err, "pdb: read subtable %d", i)
		}
		subs[i] = buf
	}

	var want uint64
	if err := binary.Read(r, binary.LittleEndian, &want); err != nil {
		return nil, errors.Wrap(err, "pdb: read checksum")
	}
	if got := h.Sum64(); got != want {
		return nil, errors.Errorf("pdb: checksum mismatch: file is truncated or corrupt")
	}

	return &Table{aux: aux, ts: ts, subs: subs}, nil
}
