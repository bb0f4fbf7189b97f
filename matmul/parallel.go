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

import (
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/workerpool"
)

// multiplyParallelRowLoop fills out with a*b using one job per output row.
// Rows are assigned to workers round-robin.
func multiplyParallelRowLoop(a, b []int32, out *Region, threads int) error {
	pool := workerpool.New(threads)
	size := out.Size()
	n := pool.NumWorkers()
	klog.V(1).Infof("matmul: row loop, size %d, %d workers", size, n)

	for _, slot := range out.Rows() {
		pool.Execute(rowJob(a, b, size, slot), slot.Row%n)
	}
	return pool.Terminate()
}

// rowJob computes one full output row in k,j order.
func rowJob(a, b []int32, size int, slot RowSlot) workerpool.Job {
	return func() {
		aRow := a[slot.Row*size : (slot.Row+1)*size]
		for k, aik := range aRow {
			bRow := b[k*size : (k+1)*size]
			for j := range slot.Out {
				slot.Out[j] += aik * bRow[j]
			}
		}
	}
}

// multiplyParallelTiling fills out with a*b using one job per output tile.
// Each tile is dispatched to whichever worker last reported idle.
func multiplyParallelTiling(a, b []int32, out *Region, threads, tile int) error {
	pool := workerpool.New(threads)
	size := out.Size()
	klog.V(1).Infof("matmul: tiling, size %d, tile %d, %d workers", size, tile, pool.NumWorkers())

	for _, slot := range out.Tiles(tile) {
		idle := <-pool.Idle()
		pool.Execute(tileJob(a, b, size, slot), idle.WorkerID)
	}
	return pool.Terminate()
}

// tileJob accumulates one output tile, walking the reduction dimension one
// tile at a time so the A and B blocks stay in cache.
func tileJob(a, b []int32, size int, slot TileSlot) workerpool.Job {
	return func() {
		t := slot.Size
		for kt := 0; kt < size; kt += t {
			for i, cRow := range slot.Out {
				aOff := (slot.Row+i)*size + kt
				aRow := a[aOff : aOff+t]
				for k, aik := range aRow {
					bOff := (kt+k)*size + slot.Col
					bRow := b[bOff : bOff+t]
					for j := range cRow {
						cRow[j] += aik * bRow[j]
					}
				}
			}
		}
	}
}
