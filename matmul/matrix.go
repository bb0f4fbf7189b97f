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
	"fmt"
	"strings"
)

// Matrix is a square matrix of int32 stored as rows.
type Matrix [][]int32

// NewZero returns a size×size matrix filled with zeros. All rows share one
// backing array.
func NewZero(size int) Matrix {
	return Unflatten(make([]int32, size*size), size)
}

// Size returns the number of rows.
func (m Matrix) Size() int {
	return len(m)
}

// Flatten copies m into a new row-major slice.
func Flatten(m Matrix) []int32 {
	n := 0
	for _, row := range m {
		n += len(row)
	}
	flat := make([]int32, 0, n)
	for _, row := range m {
		flat = append(flat, row...)
	}
	return flat
}

// Unflatten views a row-major slice of size*size elements as a Matrix without
// copying. Each row is capped so appending to it cannot overwrite the next.
func Unflatten(flat []int32, size int) Matrix {
	if len(flat) != size*size {
		panic(fmt.Sprintf("matmul: data length %d doesn't match dimensions %dx%d", len(flat), size, size))
	}
	m := make(Matrix, size)
	for i := range size {
		m[i] = flat[i*size : (i+1)*size : (i+1)*size]
	}
	return m
}

// Equal reports whether a and b have the same shape and elements.
func Equal(a, b Matrix) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// String returns a string representation of the matrix.
func (m Matrix) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Matrix(%dx%d):\n", len(m), len(m))
	for _, row := range m {
		sb.WriteString("[")
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%d", v)
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}
