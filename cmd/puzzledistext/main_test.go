// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteLayerZeroProducesOneRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layer0.rdx")
	n, err := writeLayerZero(path)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("writeLayerZero cardinality = %d, want 1", n)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 16 {
		t.Fatalf("layer 0 file size = %d, want 16", info.Size())
	}
}

func TestParseTilesetParsesTileNumbers(t *testing.T) {
	ts, err := parseTileset("0,1,2,3")
	if err != nil {
		t.Fatal(err)
	}
	if ts.Size() != 4 || !ts.HasZero() {
		t.Fatalf("parseTileset(0,1,2,3) = %#x, want size 4 with zero tile", ts)
	}
}

func TestParseTilesetRejectsOutOfRangeTile(t *testing.T) {
	if _, err := parseTileset("0,25"); err == nil {
		t.Fatal("parseTileset should reject tile numbers outside [0, 25)")
	}
}

func TestParseTilesetRejectsEmptyString(t *testing.T) {
	if _, err := parseTileset(""); err == nil {
		t.Fatal("parseTileset should reject an empty tile set")
	}
}

func TestConfigJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"shuffledir":"/tmp/x","layers":3,"jobs":8}`), 0644); err != nil {
		t.Fatal(err)
	}

	var cfg Config
	if err := parseJSONConfig(&cfg, path); err != nil {
		t.Fatal(err)
	}
	if cfg.ShuffleDir != "/tmp/x" || cfg.Layers != 3 || cfg.Jobs != 8 {
		t.Fatalf("parsed config = %+v, want ShuffleDir=/tmp/x Layers=3 Jobs=8", cfg)
	}
}
