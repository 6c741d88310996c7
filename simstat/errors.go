// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData is returned when a statistic is requested
	// over an empty sample, such as a bootstrap with zero
	// repetitions or over an empty profile list.
	ErrInsufficientData = errors.New("simstat: insufficient data")

	// ErrEmptyKeyOrder is returned by BuildSimilarityMatrix when
	// the key order is empty.
	ErrEmptyKeyOrder = errors.New("simstat: empty key order")

	// ErrEmptyInput is returned by BuildConsensusMatrix when given
	// no matrices.
	ErrEmptyInput = errors.New("simstat: empty input")

	// ErrInvalidOption is returned for out-of-range options.
	ErrInvalidOption = errors.New("simstat: invalid option")

	// ErrMissingKey matches any *MissingKeyError.
	ErrMissingKey = errors.New("simstat: missing key")

	// ErrDuplicateKey matches any *DuplicateKeyError.
	ErrDuplicateKey = errors.New("simstat: duplicate key")

	// ErrShapeMismatch matches any *ShapeMismatchError.
	ErrShapeMismatch = errors.New("simstat: shape mismatch")
)

// MissingKeyError reports a key that is in a key order but has no
// profiles, or a key absent from a matrix being reordered.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("simstat: missing key %q", e.Key)
}

func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey
}

// DuplicateKeyError reports a key that appears more than once in a
// key order.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("simstat: duplicate key %q", e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ShapeMismatchError reports that matrix Index has size Got where
// size Want was expected.
type ShapeMismatchError struct {
	Index     int
	Want, Got int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("simstat: matrix %d is %dx%d, want %dx%d", e.Index, e.Got, e.Got, e.Want, e.Want)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}
