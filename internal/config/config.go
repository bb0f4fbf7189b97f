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

// Package config loads benchmark defaults from the environment.
//
// Values come from MATBENCH_* environment variables. A .env file in the
// working directory or one of its parents is loaded first; variables already
// set in the process environment take precedence over the file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/ajroetker/go-matbench/internal/cpuinfo"
)

// Environment variables read by Load.
const (
	ThreadsEnv    = "MATBENCH_THREADS"
	TileSizeEnv   = "MATBENCH_TILE_SIZE"
	IterationsEnv = "MATBENCH_ITERATIONS"
)

// Defaults used when the corresponding variable is unset.
const (
	DefaultSize       = 128
	DefaultIterations = 5
	DefaultTileSize   = 32
)

// maxEnvFileDepth bounds how many parent directories are searched for .env.
const maxEnvFileDepth = 5

// Config holds the benchmark defaults. CLI flags override these.
type Config struct {
	Threads    int
	TileSize   int
	Iterations int

	// EnvFile is the .env file that was loaded, empty if none was found.
	EnvFile string
}

// Load reads the configuration. Threads defaults to the available hardware
// parallelism.
func Load() (*Config, error) {
	envFile, err := loadEnvFile()
	if err != nil {
		return nil, err
	}

	cfg := &Config{EnvFile: envFile}
	if cfg.Threads, err = positiveIntEnv(ThreadsEnv, cpuinfo.AvailableParallelism()); err != nil {
		return nil, err
	}
	if cfg.TileSize, err = positiveIntEnv(TileSizeEnv, DefaultTileSize); err != nil {
		return nil, err
	}
	if cfg.Iterations, err = positiveIntEnv(IterationsEnv, DefaultIterations); err != nil {
		return nil, err
	}
	return cfg, nil
}

func positiveIntEnv(name string, def int) (int, error) {
	val := os.Getenv(name)
	if val == "" {
		return def, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q is not an integer: %w", name, val, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("config: %s=%d must be greater than 0", name, n)
	}
	return n, nil
}

// loadEnvFile looks for a .env file in the working directory and its parents
// and loads the first one found.
func loadEnvFile() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for range maxEnvFileDepth {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return "", fmt.Errorf("config: loading %s: %w", envPath, err)
			}
			return envPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}
