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

// Package matmul multiplies square int32 matrices with four interchangeable
// strategies and validates operands before any work starts.
//
// Example usage:
//
//	a := matmul.Matrix{{1, 2}, {3, 4}}
//	b := matmul.Matrix{{5, 6}, {7, 8}}
//	c, err := matmul.Multiply(a, b, matmul.ParallelTiling(runtime.NumCPU(), 1))
//	// c == [[19 22] [43 50]]
//
// The strategies are:
//   - SequentialIJK: the textbook i,j,k loop nest
//   - SequentialIKJ: i,k,j order, sweeping contiguous rows of B
//   - ParallelRowLoop: one job per output row on a workerpool.Pool
//   - ParallelTiling: one job per output tile, with the reduction dimension
//     also tiled for cache reuse
//
// All strategies produce identical results. Arithmetic is int32 and wraps on
// overflow.
//
// Parallel strategies write into a single output buffer without locks. The
// buffer is owned by a Region, which hands each job a disjoint set of
// capacity-capped sub-slices; the buffer is read back only after the pool has
// been terminated.
package matmul
