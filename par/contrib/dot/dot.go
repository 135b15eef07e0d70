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

// Package dot provides the inner-product kernel used by the multiply workers.
//
// Accumulation is strictly sequential from index 0 upward, starting at the
// zero value of T. For floating-point types the result therefore depends only
// on the inputs, never on scheduling.
package dot

import (
	"errors"
	"fmt"

	"github.com/ajroetker/go-parmul/par"
	"github.com/ajroetker/go-parmul/par/contrib/vec"
)

// ErrShapeMismatch is returned when the two operands have different lengths.
var ErrShapeMismatch = errors.New("dot: shape mismatch")

// Dot computes sum(a[i]*b[i]).
func Dot[T par.Number](a, b vec.View[T]) (T, error) {
	var sum T
	if a.Len() != b.Len() {
		return sum, fmt.Errorf("%w: len(a)=%d, len(b)=%d", ErrShapeMismatch, a.Len(), b.Len())
	}

	as, aok := a.Contiguous()
	bs, bok := b.Contiguous()
	if aok && bok {
		return dotSlices(as, bs), nil
	}

	for i := range a.Len() {
		sum += a.At(i) * b.At(i)
	}
	return sum, nil
}

// dotSlices is the contiguous fast path. Same order as the strided loop.
func dotSlices[T par.Number](a, b []T) T {
	var sum T
	b = b[:len(a)]
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
