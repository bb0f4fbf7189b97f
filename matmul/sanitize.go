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
)

// Sanitizer errors. They are returned wrapped in a *SanitizeError; match them
// with errors.Is.
var (
	ErrNotSquare          = errors.New("matrix is not square")
	ErrSizeMismatch       = errors.New("matrix sizes do not match")
	ErrTileSizeNotDivisor = errors.New("tile size does not divide matrix size")
)

// SanitizeError describes why a pair of operands was rejected.
type SanitizeError struct {
	// Err is one of ErrNotSquare, ErrSizeMismatch or ErrTileSizeNotDivisor.
	Err error
	// Operand is "a" or "b" for ErrNotSquare, empty otherwise.
	Operand string
	Detail  string
}

func (e *SanitizeError) Error() string {
	if e.Operand != "" {
		return fmt.Sprintf("matmul: operand %s: %v: %s", e.Operand, e.Err, e.Detail)
	}
	return fmt.Sprintf("matmul: %v: %s", e.Err, e.Detail)
}

func (e *SanitizeError) Unwrap() error {
	return e.Err
}

// Validate checks that a and b are square and of equal size.
func Validate(a, b Matrix) error {
	if err := validateSquare("a", a); err != nil {
		return err
	}
	if err := validateSquare("b", b); err != nil {
		return err
	}
	if len(a) != len(b) {
		return &SanitizeError{
			Err:    ErrSizeMismatch,
			Detail: fmt.Sprintf("a is %dx%d, b is %dx%d", len(a), len(a), len(b), len(b)),
		}
	}
	return nil
}

func validateSquare(name string, m Matrix) error {
	for i, row := range m {
		if len(row) != len(m) {
			return &SanitizeError{
				Err:     ErrNotSquare,
				Operand: name,
				Detail:  fmt.Sprintf("row %d has %d elements, want %d", i, len(row), len(m)),
			}
		}
	}
	return nil
}

// ValidateTiling checks that size can be split into whole tiles of tileSize.
// Partial tiles are not supported.
func ValidateTiling(size, tileSize int) error {
	if tileSize <= 0 || size%tileSize != 0 {
		return &SanitizeError{
			Err:    ErrTileSizeNotDivisor,
			Detail: fmt.Sprintf("size %d, tile size %d", size, tileSize),
		}
	}
	return nil
}
