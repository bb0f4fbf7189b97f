// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-matbench/bench"
	"github.com/ajroetker/go-matbench/internal/config"
	"github.com/ajroetker/go-matbench/matmul"
)

const defaultTiles = "16,32,64"

func newTilingCommand(cfg *config.Config, out io.Writer) *cobra.Command {
	var (
		iterations int
		threads    int
		tiles      string
	)
	cmd := &cobra.Command{
		Use:   "tiling [size]",
		Short: "Run benchmark suite for parallel tiling algorithm",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := sizeArg(args)
			if err != nil {
				return err
			}
			if threads < 1 {
				return fmt.Errorf("threads must be at least 1, got %d", threads)
			}
			tileSizes, err := parseTiles(tiles)
			if err != nil {
				return err
			}

			bench.PrintTitle(out, "Welcome to Tiling Benchmark!")
			bench.RenderArgs(out, [][]string{
				{"Matrix size", strconv.Itoa(size)},
				{"Number of threads", strconv.Itoa(threads)},
				{"Number of iterations", strconv.Itoa(iterations)},
				{"Tiles", fmt.Sprint(tileSizes)},
			})

			algs := lo.Map(tileSizes, func(tile int, _ int) matmul.Algorithm {
				return matmul.ParallelTiling(threads, tile)
			})
			return benchmarkAndPrint(cmd, out, size, iterations, algs)
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&iterations, "iterations", "i", cfg.Iterations, "Number of iterations to run the benchmark")
	flags.IntVar(&threads, "threads", cfg.Threads, "Number of threads to use for parallel matrix multiplication")
	flags.StringVarP(&tiles, "tiles", "t", defaultTiles, "Tile sizes to test. Separate multiple values with commas.")
	return cmd
}

// parseTiles parses a comma-separated list of positive tile sizes. Duplicates
// are dropped, order is kept.
func parseTiles(s string) ([]int, error) {
	parts := lo.Compact(lo.Map(strings.Split(s, ","), func(p string, _ int) string {
		return strings.TrimSpace(p)
	}))
	if len(parts) == 0 {
		return nil, fmt.Errorf("no tile sizes given in %q", s)
	}

	tiles := make([]int, 0, len(parts))
	for _, p := range parts {
		tile, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid tile size %q: %w", p, err)
		}
		if tile <= 0 {
			return nil, fmt.Errorf("tile size must be greater than 0, got %d", tile)
		}
		tiles = append(tiles, tile)
	}
	return lo.Uniq(tiles), nil
}
