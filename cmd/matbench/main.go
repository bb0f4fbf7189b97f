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

// Command matbench benchmarks square int32 matrix multiplication under
// sequential, per-row parallel and tiled parallel strategies.
//
// Usage:
//
//	matbench 512 -i 10 -t 8 --tile-size 64     # full suite
//	matbench 512 --parallel-only               # parallel strategies only
//	matbench tiling 512 -t 16,32,64            # compare tile sizes
//	matbench os_threads                        # report hardware parallelism
//
// Defaults for threads, tile size and iterations are read from MATBENCH_THREADS,
// MATBENCH_TILE_SIZE and MATBENCH_ITERATIONS, or from a .env file. klog flags
// such as -v are accepted by every command.
package main

import (
	"context"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"

	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/internal/config"
)

func main() {
	klog.InitFlags(nil)
	defer klog.Flush()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.EnvFile != "" {
		klog.V(1).Infof("loaded %s", cfg.EnvFile)
	}

	// Interrupts stop the benchmark between multiplications.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := newRootCommand(cfg, os.Stdout)
	root.PersistentFlags().AddGoFlagSet(goflag.CommandLine)
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		klog.Flush()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
