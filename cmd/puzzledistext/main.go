// Copyright (c) 2024 The puzzle24dist Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"golang.org/x/sys/unix"

	"github.com/clausecker/puzzle24dist/internal/layer"
	"github.com/clausecker/puzzle24dist/internal/pdb"
	"github.com/clausecker/puzzle24dist/internal/sampling"
)

// VERSION is populated via build flags when packaging official binaries.
var VERSION = "SELFBUILD"

// configCount is the total number of reachable 24-puzzle configurations,
// 25!/2, printed verbatim on stdout and used as the denominator of the
// per-layer ratio.
const configCount = "7755605021665492992000000"

// configCountF is configCount parsed to float64, good enough precision
// for the informational ratio column; the exact integer is what gets
// printed.
const configCountF = 7.755605021665492992e24

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "puzzledistext"
	myApp.Usage = "breadth-first layer-by-layer enumeration of the 24-puzzle"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "f",
			Value: "",
			Usage: "enable sampling, write samples to this path",
		},
		cli.IntFlag{
			Name:  "l",
			Value: math.MaxInt32,
			Usage: "stop after this many BFS layers",
		},
		cli.IntFlag{
			Name:  "n",
			Value: 1 << 20,
			Usage: "number of samples to draw per layer when -f is set",
		},
		cli.Uint64Flag{
			Name:  "s",
			Value: 1,
			Usage: "random seed for sampling",
		},
		cli.IntFlag{
			Name:  "j",
			Value: 1,
			Usage: "worker goroutines sharing a pattern database during generation",
		},
		cli.StringFlag{
			Name:  "pdb",
			Value: "",
			Usage: "comma-separated tile numbers (0 is the blank); when set, generate a pattern database for this tile set instead of enumerating layers",
		},
		cli.StringFlag{
			Name:  "pdbout",
			Value: "",
			Usage: "path to write the generated pattern database to (required with -pdb)",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "",
			Usage: "config from json file, which will override the command from shell",
		},
	}
	myApp.Action = run

	if err := myApp.Run(os.Args); err != nil {
		checkError(err)
	}
}

func run(c *cli.Context) error {
	config := Config{}
	config.ShuffleDir = c.Args().First()
	config.SamplePath = c.String("f")
	config.Layers = c.Int("l")
	config.SampleN = c.Int("n")
	config.SampleSeed = c.Uint64("s")
	config.Jobs = c.Int("j")
	config.PDBTileset = c.String("pdb")
	config.PDBOutPath = c.String("pdbout")

	if c.String("c") != "" {
		if err := parseJSONConfig(&config, c.String("c")); err != nil {
			checkError(err)
		}
	}

	if config.ShuffleDir == "" && config.PDBTileset == "" {
		cli.ShowAppHelp(c)
		return errors.New("puzzledistext: missing required positional argument shuffledir")
	}

	if err := (pdb.Config{Jobs: config.Jobs}).Validate(); err != nil {
		color.Red("warning: %v, falling back to 1", err)
		config.Jobs = 1
	}

	raiseFileLimit()

	if config.PDBTileset != "" {
		return runPDB(config)
	}

	log.Println("shuffledir:", config.ShuffleDir)
	log.Println("sampling:", config.SamplePath != "")
	log.Println("layer limit:", config.Layers)
	if config.SamplePath != "" {
		log.Println("samples per layer:", config.SampleN, "seed:", config.SampleSeed)
		if config.SampleN <= 0 {
			color.Yellow("warning: -n %d draws no samples while -f is set", config.SampleN)
		}
	}

	fmt.Println(configCount)
	fmt.Println()

	prevPath := config.ShuffleDir + "-layer-prev.rdx"
	curPath := config.ShuffleDir + "-layer-cur.rdx"

	n, err := writeLayerZero(prevPath)
	checkError(err)
	printLayer(0, n)

	d := &layer.Driver{Dir: config.ShuffleDir}

	for i := 1; i <= config.Layers; i++ {
		n, err = runLayer(d, prevPath, curPath)
		checkError(err)
		printLayer(i, n)
		log.Println("layer", i, "size:", n)

		if config.SamplePath != "" {
			checkError(sampleLayer(curPath, config, i))
		}

		if n == 0 {
			break
		}

		checkError(os.Remove(prevPath))
		checkError(os.Rename(curPath, prevPath))
	}

	return nil
}

// runPDB parses config.PDBTileset into a tile set, generates a pattern
// database for it, and writes the result to config.PDBOutPath. This is
// the entry point for the -pdb mode mentioned alongside the layer
// enumeration flags: a pattern database is generated once for a small,
// fixed tile set rather than streamed layer by layer to disk.
func runPDB(config Config) error {
	if config.PDBOutPath == "" {
		return errors.New("puzzledistext: -pdbout is required when -pdb is set")
	}

	ts, err := parseTileset(config.PDBTileset)
	if err != nil {
		return errors.Wrap(err, "puzzledistext: -pdb")
	}

	log.Println("pdb tileset:", config.PDBTileset)
	log.Println("pdb jobs:", config.Jobs)

	tbl, layers, err := pdb.Generate(ts, pdb.Config{Jobs: config.Jobs})
	if err != nil {
		return errors.Wrap(err, "puzzledistext: generate pattern database")
	}
	log.Println("pdb diameter:", layers, "layers")

	f, err := os.Create(config.PDBOutPath)
	if err != nil {
		return errors.Wrapf(err, "puzzledistext: create %s", config.PDBOutPath)
	}
	defer f.Close()

	if err := tbl.Store(f); err != nil {
		return errors.Wrapf(err, "puzzledistext: write %s", config.PDBOutPath)
	}

	return nil
}

// parseTileset parses a comma-separated list of tile numbers (0 is the
// blank) into a pdb.Tileset bitset.
func parseTileset(s string) (pdb.Tileset, error) {
	var ts pdb.Tileset
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		tile, err := strconv.Atoi(field)
		if err != nil {
			return 0, errors.Wrapf(err, "invalid tile number %q", field)
		}
		if tile < 0 || tile >= 25 {
			return 0, errors.Errorf("tile number %d out of range [0, 25)", tile)
		}
		ts |= 1 << uint(tile)
	}
	if ts == 0 {
		return 0, errors.New("empty tile set")
	}
	return ts, nil
}

func writeLayerZero(path string) (uint64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	return layer.WriteLayerZero(f)
}

func runLayer(d *layer.Driver, prevPath, curPath string) (uint64, error) {
	in, err := os.Open(prevPath)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", prevPath)
	}
	defer in.Close()

	out, err := os.Create(curPath)
	if err != nil {
		return 0, errors.Wrapf(err, "create %s", curPath)
	}
	defer out.Close()

	return d.Run(in, out)
}

func sampleLayer(path string, config Config, layerIndex int) error {
	in, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s for sampling", path)
	}
	defer in.Close()

	samplePath := fmt.Sprintf("%s.%d.snappy", config.SamplePath, layerIndex)
	out, err := os.Create(samplePath)
	if err != nil {
		return errors.Wrapf(err, "create %s", samplePath)
	}
	defer out.Close()

	_, err = sampling.Sample(out, in, sampling.Config{N: config.SampleN, Seed: config.SampleSeed})
	return errors.Wrapf(err, "sampling layer %d", layerIndex)
}

func printLayer(layerIndex int, size uint64) {
	ratio := float64(size) / configCountF
	fmt.Printf("%3d: %18d/%s = %24.18e\n", layerIndex, size, configCount, ratio)
}

// raiseFileLimit raises RLIMIT_NOFILE as high as permitted: a layer
// keeps up to 2*TILE_COUNT bucket files plus two layer streams open
// at once, and the default descriptor limit on most systems is too
// low for that.
func raiseFileLimit() {
	var rlim unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		color.Yellow("warning: could not read RLIMIT_NOFILE: %v", err)
		return
	}

	want := rlim.Max
	if rlim.Cur >= want {
		return
	}

	rlim.Cur = want
	if err := unix.Setrlimit(unix.RLIMIT_NOFILE, &rlim); err != nil {
		color.Yellow("warning: could not raise RLIMIT_NOFILE to %d: %v", want, err)
	}
}

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(1)
	}
}
