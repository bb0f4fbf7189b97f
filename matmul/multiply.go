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
	"errors"
	"fmt"

	"k8s.io/klog/v2"
)

// ErrWorkerPanicked is returned by Multiply when a job panicked on a worker.
// The partial output is discarded.
var ErrWorkerPanicked = errors.New("worker panicked")

// Multiply returns a*b computed with alg.
//
// Operands are validated before any worker starts: a and b must be square and
// of equal size, and for ParallelTiling the size must be a multiple of the
// tile size. Such failures are returned as a *SanitizeError.
//
// Multiply panics if a parallel algorithm requests fewer than one thread.
func Multiply(a, b Matrix, alg Algorithm) (Matrix, error) {
	if err := Validate(a, b); err != nil {
		return nil, err
	}
	if alg.Kind == KindParallelTiling {
		if err := ValidateTiling(len(a), alg.TileSize); err != nil {
			return nil, err
		}
	}

	size := len(a)
	fa, fb := Flatten(a), Flatten(b)
	out := NewRegion(size)
	klog.V(1).Infof("matmul: %s on %dx%d", alg, size, size)

	var err error
	switch alg.Kind {
	case KindSequentialIJK:
		multiplyIJK(fa, fb, out.Whole(), size)
	case KindSequentialIKJ:
		multiplyIKJ(fa, fb, out.Whole(), size)
	case KindParallelRowLoop:
		err = multiplyParallelRowLoop(fa, fb, out, alg.Threads)
	case KindParallelTiling:
		err = multiplyParallelTiling(fa, fb, out, alg.Threads, alg.TileSize)
	default:
		return nil, fmt.Errorf("matmul: unknown algorithm kind %d", alg.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("matmul: %s: %w: %w", alg, ErrWorkerPanicked, err)
	}

	out.Seal()
	return out.Matrix(), nil
}
