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

	"github.com/spf13/cobra"

	"github.com/ajroetker/go-matbench/bench"
	"github.com/ajroetker/go-matbench/internal/config"
	"github.com/ajroetker/go-matbench/matmul"
)

type rootOptions struct {
	iterations   int
	threads      int
	parallelOnly bool
	tileSize     int
	skipIJK      bool
}

func newRootCommand(cfg *config.Config, out io.Writer) *cobra.Command {
	opts := rootOptions{}
	cmd := &cobra.Command{
		Use:           "matbench [size]",
		Short:         "Matrix Multiplication Benchmark",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := sizeArg(args)
			if err != nil {
				return err
			}
			return runSuite(cmd, out, size, opts)
		},
	}
	cmd.SetOut(out)

	flags := cmd.Flags()
	flags.IntVarP(&opts.iterations, "iterations", "i", cfg.Iterations, "Number of iterations to run the benchmark")
	flags.IntVarP(&opts.threads, "threads", "t", cfg.Threads, "Number of threads to use for parallel matrix multiplication")
	flags.BoolVarP(&opts.parallelOnly, "parallel-only", "p", false, "Only run parallel matrix multiplication")
	flags.IntVar(&opts.tileSize, "tile-size", cfg.TileSize, "Tile size for the parallel tiling algorithm")
	flags.BoolVar(&opts.skipIJK, "skip-ijk", false, "Skip the sequential i,j,k algorithm")

	cmd.AddCommand(newTilingCommand(cfg, out), newOSThreadsCommand(out))
	return cmd
}

// sizeArg parses the optional positional matrix size.
func sizeArg(args []string) (int, error) {
	if len(args) == 0 {
		return config.DefaultSize, nil
	}
	size, err := strconv.Atoi(args[0])
	if err != nil || size < 0 {
		return 0, fmt.Errorf("invalid matrix size %q", args[0])
	}
	return size, nil
}

func runSuite(cmd *cobra.Command, out io.Writer, size int, opts rootOptions) error {
	if opts.threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d", opts.threads)
	}

	bench.PrintTitle(out, "Welcome to Matrix Multiplication Benchmark!")
	bench.RenderArgs(out, [][]string{
		{"Matrix size", strconv.Itoa(size)},
		{"Number of threads", strconv.Itoa(opts.threads)},
		{"Number of iterations", strconv.Itoa(opts.iterations)},
		{"Parallel only", strconv.FormatBool(opts.parallelOnly)},
		{"Tile size", strconv.Itoa(opts.tileSize)},
	})

	algs := matmul.Algorithms(opts.threads, opts.tileSize, opts.parallelOnly, opts.skipIJK)
	return benchmarkAndPrint(cmd, out, size, opts.iterations, algs)
}

func benchmarkAndPrint(cmd *cobra.Command, out io.Writer, size, iterations int, algs []matmul.Algorithm) error {
	bench.PrintTitle(out, "Benchmarking!")
	report, err := bench.Run(cmd.Context(), bench.Config{
		Size:       size,
		Iterations: iterations,
		Algorithms: algs,
	})
	if err != nil {
		return err
	}
	report.Render(out)
	return nil
}
