// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sampling draws uniform samples of configurations from a BFS
// layer stream and writes them to a snappy-compressed file, backing
// the command line's `-f`/`-n`/`-s` flags.
package sampling

import (
	"bufio"
	"io"
	"math/rand/v2"

	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/clausecker/puzzle24dist/internal/puzzle"
	"github.com/clausecker/puzzle24dist/internal/radix"
)

// Config controls a single layer's sampling pass.
type Config struct {
	// N is the number of samples to draw. If the layer has fewer than
	// N records, every record is kept.
	N int
	// Seed seeds the sampler's random source. Two runs with the same
	// seed and the same input stream draw the same sample.
	Seed uint64
}

// Reservoir implements Algorithm R: it is fed records one at a time
// and, after Add has been called, holds a uniform random sample of
// size at most N of everything it has seen.
type Reservoir struct {
	n    int
	rng  *rand.Rand
	seen uint64
	kept []puzzle.CompactPuzzle
}

// NewReservoir creates a reservoir of capacity n seeded with seed.
func NewReservoir(n int, seed uint64) *Reservoir {
	if n < 0 {
		n = 0
	}
	return &Reservoir{
		n:    n,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		kept: make([]puzzle.CompactPuzzle, 0, n),
	}
}

// Add offers cp to the reservoir.
func (r *Reservoir) Add(cp puzzle.CompactPuzzle) {
	r.seen++
	if len(r.kept) < r.n {
		r.kept = append(r.kept, cp)
		return
	}
	if r.n == 0 {
		return
	}
	j := r.rng.IntN(int(r.seen))
	if j < r.n {
		r.kept[j] = cp
	}
}

// Sample returns the records currently held by the reservoir.
func (r *Reservoir) Sample() []puzzle.CompactPuzzle {
	return r.kept
}

// Seen returns how many records have been offered to the reservoir.
func (r *Reservoir) Seen() uint64 {
	return r.seen
}

// Sample draws cfg.N uniform samples without replacement from the
// layer stream in and writes them, snappy-compressed, to w. It
// returns the number of samples written.
func Sample(w io.Writer, in io.Reader, cfg Config) (int, error) {
	res := NewReservoir(cfg.N, cfg.Seed)

	r := bufio.NewReader(in)
	for {
		cp, err := radix.ReadRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, errors.Wrap(err, "sampling: read layer stream")
		}
		res.Add(cp)
	}

	sw := snappy.NewBufferedWriter(w)
	for _, cp := range res.Sample() {
		if err := radix.WriteRecord(sw, cp); err != nil {
			sw.Close()
			return 0, errors.Wrap(err, "sampling: write sample")
		}
	}
	if err := sw.Close(); err != nil {
		return 0, errors.Wrap(err, "sampling: flush sample file")
	}

	return len(res.Sample()), nil
}
