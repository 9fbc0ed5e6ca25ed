// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"
)

// Config holds the layer driver's command-line configuration.
type Config struct {
	ShuffleDir string `json:"shuffledir"`
	SamplePath string `json:"samplepath"`
	Layers     int    `json:"layers"`
	SampleN    int    `json:"samplen"`
	SampleSeed uint64 `json:"sampleseed"`
	Jobs       int    `json:"jobs"`

	// PDBTileset, when non-empty, switches the program from layer
	// enumeration to pattern-database generation for the named tile
	// set: a comma-separated list of tile numbers, 0 denoting the
	// blank.
	PDBTileset string `json:"pdbtileset"`
	// PDBOutPath is where the generated table is written. Required
	// when PDBTileset is set.
	PDBOutPath string `json:"pdboutpath"`
}

func parseJSONConfig(config *Config, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return json.NewDecoder(file).Decode(config)
}
