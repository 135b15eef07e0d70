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

// Package vec provides read-only strided views used as dot-product operands.
//
// A View never copies on construction. Materialize copies a strided view into
// an owned contiguous buffer, which is what a worker goroutine receives when
// the source storage must not be shared.
package vec

import "github.com/ajroetker/go-parmul/par"

// View is a read-only logical sequence of n elements over data, starting at
// offset and advancing by stride.
type View[T par.Number] struct {
	data   []T
	offset int
	stride int
	n      int
}

// Of returns a contiguous view over data. The slice is not copied.
func Of[T par.Number](data []T) View[T] {
	return View[T]{data: data, stride: 1, n: len(data)}
}

// Strided returns a view of n elements of data starting at offset with the
// given stride. The caller guarantees offset+(n-1)*stride is in range.
func Strided[T par.Number](data []T, offset, stride, n int) View[T] {
	if stride == 1 {
		return Of(data[offset : offset+n])
	}
	return View[T]{data: data, offset: offset, stride: stride, n: n}
}

// Len returns the number of elements in the view.
func (v View[T]) Len() int {
	return v.n
}

// At returns element i of the view.
func (v View[T]) At(i int) T {
	return v.data[v.offset+i*v.stride]
}

// Contiguous returns the backing slice when the view has stride 1.
func (v View[T]) Contiguous() ([]T, bool) {
	if v.stride != 1 {
		return nil, false
	}
	return v.data[v.offset : v.offset+v.n], true
}

// Materialize returns a contiguous view over an owned copy of the elements.
func (v View[T]) Materialize() View[T] {
	return Of(v.Slice())
}

// Slice copies the elements of the view into a new slice.
func (v View[T]) Slice() []T {
	out := make([]T, v.n)
	if s, ok := v.Contiguous(); ok {
		copy(out, s)
		return out
	}
	for i := range v.n {
		out[i] = v.data[v.offset+i*v.stride]
	}
	return out
}
