// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matmul

import (
	"fmt"

	"github.com/ajroetker/go-parmul/par/contrib/dot"
	"github.com/ajroetker/go-parmul/par/contrib/matrix"
	"github.com/ajroetker/go-parmul/par/contrib/workerpool"
)

// Errors a multiply can fail with, re-exported from the packages that
// raise them. Match with errors.Is.
var (
	// ErrDimensionMismatch: a.Cols() != b.Rows(). Raised before any worker starts.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrShapeMismatch: the kernel got operands of different lengths. This
	// is an internal invariant violation, not a caller error.
	ErrShapeMismatch = dot.ErrShapeMismatch

	// ErrChannelFailure: a task could not be sent or its reply received.
	ErrChannelFailure = workerpool.ErrChannelFailure

	// ErrNilMatrix: an operand was nil.
	ErrNilMatrix = matrix.ErrNilMatrix

	// ErrBadShape: the product has more elements than can be allocated.
	ErrBadShape = matrix.ErrBadShape
)

// Error describes a failed multiply. Index is the output cell involved, or
// -1 when the failure is not tied to a cell.
type Error struct {
	Op    string
	Index int
	Err   error
}

func (e *Error) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("matmul: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("matmul: %s cell %d: %v", e.Op, e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
