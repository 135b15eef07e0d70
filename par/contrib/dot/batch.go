package dot

import (
	"fmt"

	"github.com/ajroetker/go-parmul/par"
	"github.com/ajroetker/go-parmul/par/contrib/vec"
)

// Batch computes multiple dot products.
// For each i, computes the dot product of lefts[i] and rights[i].
//
// Unlike a plain loop over Dot it reports the failing pair: the first
// mismatch aborts the batch with an error naming its index.
func Batch[T par.Number](lefts, rights []vec.View[T]) ([]T, error) {
	if len(lefts) != len(rights) {
		return nil, fmt.Errorf("%w: %d left operands, %d right operands", ErrShapeMismatch, len(lefts), len(rights))
	}
	results := make([]T, len(lefts))

	for i := range lefts {
		v, err := Dot(lefts[i], rights[i])
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		results[i] = v
	}

	return results, nil
}
