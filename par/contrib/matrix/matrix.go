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

package matrix

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/samber/lo"

	"github.com/ajroetker/go-parmul/par"
	"github.com/ajroetker/go-parmul/par/contrib/vec"
)

// Matrix is a dense rows x cols matrix stored in row-major order.
type Matrix[T par.Number] struct {
	data []T
	rows int
	cols int
}

// New creates a rows x cols matrix backed by data. The matrix takes ownership
// of data; callers must not modify it afterwards.
func New[T par.Number](rows, cols int, data []T) (*Matrix[T], error) {
	n, err := CheckShape[T](rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != n {
		return nil, fmt.Errorf("%w: %dx%d needs %d elements, got %d",
			ErrBadShape, rows, cols, n, len(data))
	}
	return &Matrix[T]{data: data, rows: rows, cols: cols}, nil
}

// Zeros returns a rows x cols matrix filled with the zero value.
func Zeros[T par.Number](rows, cols int) (*Matrix[T], error) {
	n, err := CheckShape[T](rows, cols)
	if err != nil {
		return nil, err
	}
	return &Matrix[T]{data: make([]T, n), rows: rows, cols: cols}, nil
}

// maxBytes caps the backing array of a matrix at the largest heap object
// the runtime can allocate on 64-bit platforms.
const maxBytes = min(1<<47, math.MaxInt)

// CheckShape returns the element count of a rows x cols matrix of T, or
// ErrBadShape if a dimension is negative or the backing array could not be
// allocated.
func CheckShape[T par.Number](rows, cols int) (int, error) {
	if rows < 0 || cols < 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	if rows == 0 || cols == 0 {
		return 0, nil
	}
	var zero T
	limit := maxBytes / int(unsafe.Sizeof(zero))
	if cols > limit/rows {
		return 0, fmt.Errorf("%w: %dx%d exceeds %d elements", ErrBadShape, rows, cols, limit)
	}
	return rows * cols, nil
}

// Identity returns the n x n identity matrix.
func Identity[T par.Number](n int) (*Matrix[T], error) {
	m, err := Zeros[T](n, n)
	if err != nil {
		return nil, err
	}
	for i := range n {
		m.data[i*n+i] = 1
	}
	return m, nil
}

// FromRows builds a matrix from a slice of equally long rows. The rows are
// copied.
func FromRows[T par.Number](rows [][]T) (*Matrix[T], error) {
	if len(rows) == 0 {
		return &Matrix[T]{}, nil
	}
	cols := len(rows[0])
	data := make([]T, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("%w: row %d has %d elements, want %d", ErrBadShape, i, len(r), cols)
		}
		data = append(data, r...)
	}
	return &Matrix[T]{data: data, rows: len(rows), cols: cols}, nil
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix[T]) Cols() int { return m.cols }

// Dims returns (rows, cols).
func (m *Matrix[T]) Dims() (int, int) { return m.rows, m.cols }

// Len returns rows*cols.
func (m *Matrix[T]) Len() int { return len(m.data) }

// At returns element (i, j).
func (m *Matrix[T]) At(i, j int) (T, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		var zero T
		return zero, fmt.Errorf("%w: (%d,%d) in %dx%d", ErrOutOfRange, i, j, m.rows, m.cols)
	}
	return m.data[i*m.cols+j], nil
}

// Data returns a copy of the row-major backing data.
func (m *Matrix[T]) Data() []T {
	out := make([]T, len(m.data))
	copy(out, m.data)
	return out
}

// Row returns a zero-copy view of row i.
func (m *Matrix[T]) Row(i int) vec.View[T] {
	return vec.Of(m.data[i*m.cols : (i+1)*m.cols])
}

// ColView returns a zero-copy strided view of column j.
func (m *Matrix[T]) ColView(j int) vec.View[T] {
	return vec.Strided(m.data, j, m.cols, m.rows)
}

// Col returns column j copied into an owned contiguous buffer of length
// Rows(). Use it when the view outlives the caller's hold on m.
func (m *Matrix[T]) Col(j int) vec.View[T] {
	return m.ColView(j).Materialize()
}

// ToRows returns a copy of the matrix as a slice of rows.
func (m *Matrix[T]) ToRows() [][]T {
	if m.cols == 0 {
		return make([][]T, m.rows)
	}
	return lo.Chunk(m.Data(), m.cols)
}

// Equal reports whether m and other have the same shape and elements.
func (m *Matrix[T]) Equal(other *Matrix[T]) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// String formats the matrix as nested rows, e.g. [[1 2] [3 4]].
func (m *Matrix[T]) String() string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprint(m.ToRows())
}
