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

// Package bench times matmul algorithms over freshly generated random
// operands and reports the average wall-clock time per algorithm.
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/matmul"
)

// Config describes one benchmark run.
type Config struct {
	Size       int
	Iterations int
	Algorithms []matmul.Algorithm

	// Generate builds an operand of the given size. Defaults to
	// matmul.NewRandom. It is called concurrently for the two operands.
	Generate func(size int) matmul.Matrix
}

// Result holds the timings of one algorithm across all iterations.
type Result struct {
	Algorithm matmul.Algorithm
	// Times has one entry per iteration; failed runs count as zero.
	Times    []time.Duration
	Failures int
	Average  time.Duration
}

// Report is the outcome of Run.
type Report struct {
	RunID    uuid.UUID
	Config   Config
	Results  []Result
	Started  time.Time
	Finished time.Time
}

// TimeAlgorithm times a single multiplication of a and b with alg.
func TimeAlgorithm(alg matmul.Algorithm, a, b matmul.Matrix) (time.Duration, error) {
	start := time.Now()
	_, err := matmul.Multiply(a, b, alg)
	elapsed := time.Since(start)
	if err != nil {
		klog.Errorf("Error while executing algorithm %s: %v", alg, err)
		return 0, err
	}
	return elapsed, nil
}

func (c *Config) validate() error {
	switch {
	case c.Size < 0:
		return fmt.Errorf("bench: size must not be negative, got %d", c.Size)
	case c.Iterations < 1:
		return fmt.Errorf("bench: iterations must be at least 1, got %d", c.Iterations)
	case len(c.Algorithms) == 0:
		return errors.New("bench: no algorithms to run")
	}
	return nil
}

// Run benchmarks every configured algorithm for cfg.Iterations iterations.
// Each iteration generates new operands shared by all algorithms. Algorithm
// errors do not stop the run; they are counted in Result.Failures.
//
// ctx is checked between multiplications; a multiplication in progress is
// never interrupted.
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Generate == nil {
		cfg.Generate = func(size int) matmul.Matrix { return matmul.NewRandom(size) }
	}

	report := &Report{
		RunID:   uuid.New(),
		Config:  cfg,
		Started: time.Now(),
		Results: lo.Map(cfg.Algorithms, func(alg matmul.Algorithm, _ int) Result {
			return Result{Algorithm: alg, Times: make([]time.Duration, 0, cfg.Iterations)}
		}),
	}

	for i := range cfg.Iterations {
		klog.Infof("[%s] Running iteration %d/%d", report.RunID, i+1, cfg.Iterations)
		a, b, err := generatePair(ctx, cfg)
		if err != nil {
			return nil, err
		}

		for r := range report.Results {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res := &report.Results[r]
			elapsed, err := TimeAlgorithm(res.Algorithm, a, b)
			if err != nil {
				res.Failures++
			}
			res.Times = append(res.Times, elapsed)
			klog.Infof("[%s] Finished algorithm %s in %d ms", report.RunID, res.Algorithm, elapsed.Milliseconds())
		}
	}

	for r := range report.Results {
		res := &report.Results[r]
		res.Average = lo.Sum(res.Times) / time.Duration(cfg.Iterations)
	}
	report.Finished = time.Now()
	return report, nil
}

// generatePair builds both operands concurrently.
func generatePair(ctx context.Context, cfg Config) (a, b matmul.Matrix, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a = cfg.Generate(cfg.Size)
		return ctx.Err()
	})
	g.Go(func() error {
		b = cfg.Generate(cfg.Size)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return a, b, nil
}
