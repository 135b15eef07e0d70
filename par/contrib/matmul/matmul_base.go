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
	"github.com/ajroetker/go-parmul/par"
	"github.com/ajroetker/go-parmul/par/contrib/matrix"
)

// MultiplySequential is the single-goroutine triple loop.
// C[i,j] = sum(A[i,p] * B[p,j]) for p in 0..K-1, summed in increasing p,
// which is the order the parallel kernel uses too.
func MultiplySequential[T par.Number](a, b *matrix.Matrix[T]) (*matrix.Matrix[T], error) {
	cells, err := validate(a, b)
	if err != nil {
		return nil, &Error{Op: "validate", Index: -1, Err: err}
	}

	m, k, n := a.Rows(), a.Cols(), b.Cols()
	ad, bd := a.Data(), b.Data()
	c := make([]T, cells)

	for i := range m {
		for j := range n {
			var sum T
			for p := range k {
				sum += ad[i*k+p] * bd[p*n+j]
			}
			c[i*n+j] = sum
		}
	}

	return matrix.New(m, n, c)
}
