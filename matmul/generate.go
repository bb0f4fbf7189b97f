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
	"math/rand/v2"
)

// DefaultMaxAbs bounds generated values: NewRandom yields values in
// (-DefaultMaxAbs, DefaultMaxAbs), i.e. -10..10.
const DefaultMaxAbs = 11

type generateOptions struct {
	maxAbs int32
	rng    *rand.Rand
}

// GenerateOption configures NewRandom.
type GenerateOption func(*generateOptions)

// WithMaxAbs sets the exclusive bound on the absolute value of generated
// elements. NewRandom panics if maxAbs < 1.
func WithMaxAbs(maxAbs int32) GenerateOption {
	return func(o *generateOptions) {
		o.maxAbs = maxAbs
	}
}

// WithSeed makes NewRandom deterministic.
func WithSeed(seed uint64) GenerateOption {
	return func(o *generateOptions) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// NewRandom returns a size×size matrix of uniformly distributed values in
// (-maxAbs, maxAbs). Without WithSeed it is safe to call concurrently.
func NewRandom(size int, opts ...GenerateOption) Matrix {
	o := generateOptions{maxAbs: DefaultMaxAbs}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxAbs < 1 {
		panic(fmt.Sprintf("matmul: max abs value must be greater than 0, got %d", o.maxAbs))
	}

	span := 2*int64(o.maxAbs) - 1
	int64N := rand.Int64N
	if o.rng != nil {
		int64N = o.rng.Int64N
	}

	m := NewZero(size)
	for _, row := range m {
		for j := range row {
			row[j] = int32(int64N(span) - int64(o.maxAbs-1))
		}
	}
	return m
}
