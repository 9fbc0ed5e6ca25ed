// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package radix

import (
	"bufio"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
)

// Buckets is TileCount (25): one bucket per possible grid location
// value for the tile position being keyed on in the current round.
const Buckets = puzzle.TileCount

// bucketPath builds the "<dir>-<round:02>-<loc:02>.rdx" path for one
// round's bucket file.
func bucketPath(dir string, round, loc int) string {
	return fmt.Sprintf("%s-%02d-%02d.rdx", dir, round, loc)
}

// BucketSet is one round's worth of open bucket files: Buckets files,
// write-then-read, named by (dir, round, loc). Files are created at
// the start of a distribution pass, appended by the writer, then
// rewound and read back by the next pass before being closed and
// unlinked.
type BucketSet struct {
	dir   string
	round int
	files [Buckets]*os.File
	w     [Buckets]*bufio.Writer
}

// CreateBuckets opens (creating/truncating) the Buckets files for dir
// and round. Any error aborts and closes whatever was already opened.
func CreateBuckets(dir string, round int) (*BucketSet, error) {
	bs := &BucketSet{dir: dir, round: round}

	for loc := 0; loc < Buckets; loc++ {
		path := bucketPath(dir, round, loc)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0666)
		if err != nil {
			bs.closeAll()
			return nil, errors.Wrapf(err, "open bucket %s", path)
		}
		bs.files[loc] = f
		bs.w[loc] = bufio.NewWriter(f)
	}

	return bs, nil
}

func (bs *BucketSet) closeAll() {
	for loc := range bs.files {
		if bs.files[loc] != nil {
			bs.files[loc].Close()
		}
	}
}

// Put appends cp to the bucket for grid location loc.
func (bs *BucketSet) Put(loc int8, cp puzzle.CompactPuzzle) error {
	if err := WriteRecord(bs.w[loc], cp); err != nil {
		return errors.Wrapf(err, "write bucket %s", bucketPath(bs.dir, bs.round, int(loc)))
	}
	return nil
}

// Reader rewinds the bucket for loc and returns a reader positioned at
// its start, flushing any buffered writes first.
func (bs *BucketSet) Reader(loc int) (*bufio.Reader, error) {
	path := bucketPath(bs.dir, bs.round, loc)

	if err := bs.w[loc].Flush(); err != nil {
		return nil, errors.Wrapf(err, "flush bucket %s", path)
	}
	if _, err := bs.files[loc].Seek(0, 0); err != nil {
		return nil, errors.Wrapf(err, "seek bucket %s", path)
	}

	return bufio.NewReader(bs.files[loc]), nil
}

// CloseAndRemove closes and unlinks the bucket file for loc. Buckets
// are closed and unlinked one at a time, as soon as a reader has fully
// drained it, to bound how much disk space a round holds onto at
// once.
func (bs *BucketSet) CloseAndRemove(loc int) error {
	path := bucketPath(bs.dir, bs.round, loc)

	if err := bs.files[loc].Close(); err != nil {
		return errors.Wrapf(err, "close bucket %s", path)
	}
	bs.files[loc] = nil
	if err := os.Remove(path); err != nil {
		return errors.Wrapf(err, "remove bucket %s", path)
	}

	return nil
}

// CloseAndRemoveAll closes and unlinks every bucket file in the set.
// It is used when an error elsewhere aborts the round and the buckets
// were never individually drained.
func (bs *BucketSet) CloseAndRemoveAll() error {
	for loc := 0; loc < Buckets; loc++ {
		if bs.files[loc] == nil {
			continue
		}
		if err := bs.CloseAndRemove(loc); err != nil {
			return err
		}
	}
	return nil
}
