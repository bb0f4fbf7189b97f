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

package matmul

import "fmt"

// Kind identifies a multiplication strategy.
type Kind int

const (
	// KindSequentialIJK is the i,j,k loop nest on the calling goroutine.
	KindSequentialIJK Kind = iota
	// KindSequentialIKJ is the i,k,j loop nest; better locality in row-major.
	KindSequentialIKJ
	// KindParallelRowLoop computes each output row as a separate job.
	KindParallelRowLoop
	// KindParallelTiling computes each output tile as a separate job.
	KindParallelTiling
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSequentialIJK:
		return "SequentialIJK"
	case KindSequentialIKJ:
		return "SequentialIKJ"
	case KindParallelRowLoop:
		return "ParallelRowLoop"
	case KindParallelTiling:
		return "ParallelTiling"
	default:
		return "Unknown"
	}
}

// Algorithm selects a strategy and its parameters. Use the constructors
// below; the zero value is SequentialIJK. Algorithm is comparable and can be
// used as a map key.
type Algorithm struct {
	Kind Kind
	// Threads is the requested worker count for the parallel kinds.
	Threads int
	// TileSize is the tile edge for KindParallelTiling.
	TileSize int
}

// SequentialIJK returns the i,j,k sequential strategy.
func SequentialIJK() Algorithm {
	return Algorithm{Kind: KindSequentialIJK}
}

// SequentialIKJ returns the i,k,j sequential strategy.
func SequentialIKJ() Algorithm {
	return Algorithm{Kind: KindSequentialIKJ}
}

// ParallelRowLoop returns the per-row parallel strategy on up to threads
// workers.
func ParallelRowLoop(threads int) Algorithm {
	return Algorithm{Kind: KindParallelRowLoop, Threads: threads}
}

// ParallelTiling returns the tiled parallel strategy on up to threads
// workers. The matrix size must be a multiple of tileSize.
func ParallelTiling(threads, tileSize int) Algorithm {
	return Algorithm{Kind: KindParallelTiling, Threads: threads, TileSize: tileSize}
}

// IsParallel reports whether the algorithm runs on a worker pool.
func (a Algorithm) IsParallel() bool {
	return a.Kind == KindParallelRowLoop || a.Kind == KindParallelTiling
}

// String renders the algorithm with its parameters, e.g. "ParallelTiling(8, 32)".
func (a Algorithm) String() string {
	switch a.Kind {
	case KindParallelRowLoop:
		return fmt.Sprintf("%s(%d)", a.Kind, a.Threads)
	case KindParallelTiling:
		return fmt.Sprintf("%s(%d, %d)", a.Kind, a.Threads, a.TileSize)
	default:
		return a.Kind.String()
	}
}

// Algorithms returns the benchmark suite: both sequential strategies unless
// parallelOnly is set (SequentialIJK is also left out when skipIJK is set),
// followed by ParallelRowLoop(threads) and ParallelTiling(threads, tileSize).
func Algorithms(threads, tileSize int, parallelOnly, skipIJK bool) []Algorithm {
	algs := make([]Algorithm, 0, 4)
	if !parallelOnly {
		if !skipIJK {
			algs = append(algs, SequentialIJK())
		}
		algs = append(algs, SequentialIKJ())
	}
	return append(algs, ParallelRowLoop(threads), ParallelTiling(threads, tileSize))
}
