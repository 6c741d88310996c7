// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

import "fmt"

// A Cell is one entry of a similarity matrix.
type Cell struct {
	// Shared is the point estimate of the amount shared.
	Shared float64
	// StdDev is the standard deviation of the amount shared.
	StdDev float64
	// Low and High bound the confidence interval of Shared.
	Low, High float64
}

// selfCell is the diagonal cell of a category with a single profile.
var selfCell = Cell{Shared: 1, StdDev: 0, Low: 1, High: 1}

// A Matrix is a square, symmetric matrix of Cells whose rows and
// columns are labeled by Keys.
//
// Cells are stored row-major. Set writes both (i, j) and (j, i), so
// a Matrix built only through Set is symmetric.
type Matrix struct {
	// Keys labels the rows and columns of the matrix, in order.
	Keys []string

	n     int
	cells []Cell
}

// NewMatrix returns a zero matrix labeled by keys. keys may be nil
// for an unlabeled n×n matrix created with NewMatrixSize.
func NewMatrix(keys []string) *Matrix {
	m := NewMatrixSize(len(keys))
	m.Keys = append([]string(nil), keys...)
	return m
}

// NewMatrixSize returns an unlabeled n×n zero matrix.
func NewMatrixSize(n int) *Matrix {
	return &Matrix{n: n, cells: make([]Cell, n*n)}
}

// Size returns the number of rows (and columns) of m.
func (m *Matrix) Size() int {
	return m.n
}

// At returns the cell at row i, column j.
func (m *Matrix) At(i, j int) Cell {
	m.check(i, j)
	return m.cells[i*m.n+j]
}

// Set sets the cells at (i, j) and (j, i) to c.
func (m *Matrix) Set(i, j int, c Cell) {
	m.check(i, j)
	m.cells[i*m.n+j] = c
	m.cells[j*m.n+i] = c
}

func (m *Matrix) check(i, j int) {
	if i < 0 || i >= m.n || j < 0 || j >= m.n {
		panic(fmt.Sprintf("simstat: index (%d, %d) out of range for %dx%d matrix", i, j, m.n, m.n))
	}
}

// Index returns the position of key in m.Keys.
func (m *Matrix) Index(key string) (int, bool) {
	for i, k := range m.Keys {
		if k == key {
			return i, true
		}
	}
	return -1, false
}

// Reorder returns a copy of m whose rows and columns follow keys.
// keys must be a permutation of m.Keys; a key missing from m yields a
// *MissingKeyError, and a length mismatch a *ShapeMismatchError.
func (m *Matrix) Reorder(keys []string) (*Matrix, error) {
	if len(keys) != m.n {
		return nil, &ShapeMismatchError{Want: len(keys), Got: m.n}
	}
	pos := make([]int, len(keys))
	for i, key := range keys {
		p, ok := m.Index(key)
		if !ok {
			return nil, &MissingKeyError{Key: key}
		}
		pos[i] = p
	}
	out := NewMatrix(keys)
	for i := range keys {
		for j := i; j < len(keys); j++ {
			out.Set(i, j, m.At(pos[i], pos[j]))
		}
	}
	return out, nil
}

// IsDiagonal reports whether every diagonal cell of m shares
// something and no pair of distinct rows shares anything. This flags
// categories that each overlap with themselves but never with each
// other. A 0×0 matrix is diagonal.
func IsDiagonal(m *Matrix) bool {
	for i := 0; i < m.n; i++ {
		if m.At(i, i).Shared == 0 {
			return false
		}
		for j := i + 1; j < m.n; j++ {
			if m.At(i, j).Shared != 0 {
				return false
			}
		}
	}
	return true
}
