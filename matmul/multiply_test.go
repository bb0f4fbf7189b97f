// Copyright 2025 go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/ajroetker/go-matbench/workerpool"
)

// allAlgorithms returns every strategy, with the tiling tile size given.
func allAlgorithms(tile int) []Algorithm {
	threads := runtime.NumCPU()
	return []Algorithm{
		SequentialIJK(),
		SequentialIKJ(),
		ParallelRowLoop(threads),
		ParallelTiling(threads, tile),
	}
}

// referenceProduct computes a*b with gonum. Only valid while every partial
// sum fits exactly in a float64 and in an int32.
func referenceProduct(a, b Matrix) Matrix {
	size := len(a)
	toDense := func(m Matrix) *mat.Dense {
		data := make([]float64, 0, size*size)
		for _, v := range Flatten(m) {
			data = append(data, float64(v))
		}
		return mat.NewDense(size, size, data)
	}

	var c mat.Dense
	c.Mul(toDense(a), toDense(b))

	out := NewZero(size)
	for i := range size {
		for j := range size {
			out[i][j] = int32(c.At(i, j))
		}
	}
	return out
}

func TestMultiply2x2(t *testing.T) {
	a := Matrix{{1, 2}, {3, 4}}
	b := Matrix{{5, 6}, {7, 8}}
	want := Matrix{{19, 22}, {43, 50}}

	for _, tile := range []int{1, 2} {
		for _, alg := range allAlgorithms(tile) {
			t.Run(alg.String(), func(t *testing.T) {
				got, err := Multiply(a, b, alg)
				require.NoError(t, err)
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("Multiply mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestMultiplyAllAlgorithmsAgree(t *testing.T) {
	for _, tc := range []struct{ size, tile int }{{1, 1}, {8, 4}, {16, 8}, {33, 11}, {64, 16}} {
		t.Run(fmt.Sprintf("Size%d", tc.size), func(t *testing.T) {
			a := NewRandom(tc.size, WithSeed(uint64(tc.size)))
			b := NewRandom(tc.size, WithSeed(uint64(tc.size)+1))
			want := referenceProduct(a, b)

			for _, alg := range allAlgorithms(tc.tile) {
				t.Run(alg.String(), func(t *testing.T) {
					got, err := Multiply(a, b, alg)
					require.NoError(t, err)
					if diff := cmp.Diff(want, got); diff != "" {
						t.Errorf("%s differs from reference (-want +got):\n%s", alg, diff)
					}
				})
			}
		})
	}
}

func TestMultiplyWrapsOnOverflow(t *testing.T) {
	a := Matrix{{math.MaxInt32, 1}, {0, 1}}
	b := Matrix{{2, 0}, {math.MaxInt32, 1}}
	// MaxInt32*2 + MaxInt32 wraps to MaxInt32 - 2 in two's complement.
	want := Matrix{{math.MaxInt32 - 2, 1}, {math.MaxInt32, 1}}

	for _, alg := range allAlgorithms(1) {
		got, err := Multiply(a, b, alg)
		require.NoError(t, err, alg.String())
		assert.Equal(t, want, got, alg.String())
	}
}

func TestMultiplyDeterministic(t *testing.T) {
	a := NewRandom(48, WithSeed(7), WithMaxAbs(1000))
	b := NewRandom(48, WithSeed(8), WithMaxAbs(1000))

	for _, alg := range allAlgorithms(16) {
		first, err := Multiply(a, b, alg)
		require.NoError(t, err)
		for range 5 {
			again, err := Multiply(a, b, alg)
			require.NoError(t, err)
			if !Equal(first, again) {
				t.Fatalf("%s is not deterministic", alg)
			}
		}
	}
}

func TestMultiplyDoesNotMutateOperands(t *testing.T) {
	a := NewRandom(8, WithSeed(1))
	b := NewRandom(8, WithSeed(2))
	aCopy, bCopy := Unflatten(Flatten(a), 8), Unflatten(Flatten(b), 8)

	for _, alg := range allAlgorithms(4) {
		_, err := Multiply(a, b, alg)
		require.NoError(t, err)
	}
	assert.Equal(t, aCopy, a)
	assert.Equal(t, bCopy, b)
}

func TestMultiplyEmpty(t *testing.T) {
	for _, alg := range allAlgorithms(1) {
		got, err := Multiply(Matrix{}, Matrix{}, alg)
		require.NoError(t, err, alg.String())
		assert.Empty(t, got)
	}
}

func TestMultiplyRejectsBadInput(t *testing.T) {
	threads := runtime.NumCPU()
	square4 := NewRandom(4, WithSeed(3))

	tests := []struct {
		name string
		a, b Matrix
		alg  Algorithm
		want error
	}{
		{"not square", Matrix{{1, 2}}, Matrix{{1, 2}}, SequentialIKJ(), ErrNotSquare},
		{"size mismatch", square4, NewZero(2), ParallelRowLoop(threads), ErrSizeMismatch},
		{"tile not divisor", square4, square4, ParallelTiling(threads, 3), ErrTileSizeNotDivisor},
		{"tile larger than size", square4, square4, ParallelTiling(threads, 8), ErrTileSizeNotDivisor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Multiply(tt.a, tt.b, tt.alg)
			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, got)
		})
	}
}

func TestMultiplyTileRejectedBeforeWorkersStart(t *testing.T) {
	// Zero threads would panic in workerpool.New; the sanitizer must fail first.
	square4 := NewZero(4)
	_, err := Multiply(square4, square4, ParallelTiling(0, 3))
	require.ErrorIs(t, err, ErrTileSizeNotDivisor)
}

func TestMultiplyZeroThreadsPanics(t *testing.T) {
	a := Matrix{{1}}
	assert.Panics(t, func() { _, _ = Multiply(a, a, ParallelRowLoop(0)) })
	assert.Panics(t, func() { _, _ = Multiply(a, a, ParallelTiling(0, 1)) })
}

func TestMultiplyUnknownKind(t *testing.T) {
	a := Matrix{{1}}
	_, err := Multiply(a, a, Algorithm{Kind: Kind(42)})
	require.Error(t, err)
}

func TestParallelJobPanicIsReported(t *testing.T) {
	// A truncated B makes every row job index out of range.
	a := Flatten(NewRandom(4, WithSeed(1)))
	b := Flatten(NewRandom(4, WithSeed(2)))[:3]

	err := multiplyParallelRowLoop(a, b, NewRegion(4), 2)
	require.Error(t, err)
	var jp *workerpool.JobPanic
	assert.True(t, errors.As(err, &jp))

	err = multiplyParallelTiling(a, b, NewRegion(4), 2, 2)
	require.Error(t, err)
	assert.True(t, errors.As(err, &jp))
}

func TestAlgorithms(t *testing.T) {
	tests := []struct {
		name                  string
		parallelOnly, skipIJK bool
		want                  []Algorithm
	}{
		{"all", false, false, []Algorithm{SequentialIJK(), SequentialIKJ(), ParallelRowLoop(4), ParallelTiling(4, 32)}},
		{"skip ijk", false, true, []Algorithm{SequentialIKJ(), ParallelRowLoop(4), ParallelTiling(4, 32)}},
		{"parallel only", true, false, []Algorithm{ParallelRowLoop(4), ParallelTiling(4, 32)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Algorithms(4, 32, tt.parallelOnly, tt.skipIJK))
		})
	}
}

func TestAlgorithmString(t *testing.T) {
	assert.Equal(t, "SequentialIJK", SequentialIJK().String())
	assert.Equal(t, "SequentialIKJ", SequentialIKJ().String())
	assert.Equal(t, "ParallelRowLoop(8)", ParallelRowLoop(8).String())
	assert.Equal(t, "ParallelTiling(8, 32)", ParallelTiling(8, 32).String())
	assert.Equal(t, "Unknown", Algorithm{Kind: Kind(9)}.String())
	assert.True(t, ParallelTiling(1, 1).IsParallel())
	assert.False(t, SequentialIKJ().IsParallel())
}
