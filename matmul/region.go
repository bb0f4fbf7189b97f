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

// Region owns the output buffer of one multiplication: size×size int32,
// zeroed, row-major. It is partitioned exactly once, with Whole, Rows or
// Tiles, and read back with Matrix only after Seal.
//
// The sub-slices handed out by Rows and Tiles never overlap and are capped
// with a three-index slice, so a job cannot reach memory owned by another job
// even by appending. Jobs receive their slots by value; the Region itself is
// never shared with them.
type Region struct {
	size        int
	data        []int32
	partitioned bool
	sealed      bool
}

// NewRegion allocates a zeroed size×size output region.
func NewRegion(size int) *Region {
	return &Region{
		size: size,
		data: make([]int32, size*size),
	}
}

// Size returns the matrix size of the region.
func (r *Region) Size() int {
	return r.size
}

// RowSlot is the exclusive write handle for one output row.
type RowSlot struct {
	Row int
	Out []int32
}

// TileSlot is the exclusive write handle for one output tile. Out[i] is
// row Row+i of the output, columns [Col, Col+Size).
type TileSlot struct {
	Row, Col int
	Size     int
	Out      [][]int32
}

func (r *Region) partition() {
	if r.partitioned {
		panic("matmul: region already partitioned")
	}
	r.partitioned = true
}

// Whole hands out the entire buffer as a single partition, for strategies
// that run on the calling goroutine.
func (r *Region) Whole() []int32 {
	r.partition()
	return r.data
}

// Rows partitions the region into one slot per output row.
func (r *Region) Rows() []RowSlot {
	r.partition()
	slots := make([]RowSlot, r.size)
	for i := range r.size {
		start, end := i*r.size, (i+1)*r.size
		slots[i] = RowSlot{Row: i, Out: r.data[start:end:end]}
	}
	return slots
}

// Tiles partitions the region into tile×tile blocks, in row-major tile order.
// tile must divide the region size; see ValidateTiling.
func (r *Region) Tiles(tile int) []TileSlot {
	if err := ValidateTiling(r.size, tile); err != nil {
		panic(err)
	}
	r.partition()

	perSide := r.size / tile
	slots := make([]TileSlot, 0, perSide*perSide)
	for row := 0; row < r.size; row += tile {
		for col := 0; col < r.size; col += tile {
			out := make([][]int32, tile)
			for i := range tile {
				start := (row+i)*r.size + col
				end := start + tile
				out[i] = r.data[start:end:end]
			}
			slots = append(slots, TileSlot{Row: row, Col: col, Size: tile, Out: out})
		}
	}
	return slots
}

// Seal marks every writer as finished. Call it only after the pool that ran
// the jobs has been terminated.
func (r *Region) Seal() {
	r.sealed = true
}

// Matrix returns the result as a Matrix sharing the region's buffer. It
// panics if the region has not been sealed.
func (r *Region) Matrix() Matrix {
	if !r.sealed {
		panic(fmt.Sprintf("matmul: reading %dx%d region before it was sealed", r.size, r.size))
	}
	return Unflatten(r.data, r.size)
}
