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

// multiplyIJK computes c += a*b with the i,j,k loop nest. a, b and c are
// row-major size×size.
func multiplyIJK(a, b, c []int32, size int) {
	for i := range size {
		for j := range size {
			var sum int32
			for k := range size {
				sum += a[i*size+k] * b[k*size+j]
			}
			c[i*size+j] += sum
		}
	}
}

// multiplyIKJ computes c += a*b with the i,k,j loop nest. The inner loop
// sweeps a contiguous row of b instead of striding down a column.
func multiplyIKJ(a, b, c []int32, size int) {
	for i := range size {
		cRow := c[i*size : (i+1)*size]
		for k := range size {
			aik := a[i*size+k]
			bRow := b[k*size : (k+1)*size]
			for j := range cRow {
				cRow[j] += aik * bRow[j]
			}
		}
	}
}
