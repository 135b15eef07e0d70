// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matrix

import "errors"

// Every message is prefixed with "matrix: " so it greps well in logs.
// Callers match with errors.Is; context is added with fmt.Errorf("...: %w").
var (
	// ErrBadShape is returned when dimensions are negative or do not agree
	// with the length of the backing data.
	ErrBadShape = errors.New("matrix: invalid shape")

	// ErrOutOfRange indicates a row or column index outside valid bounds.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible operands, e.g. a.Cols() != b.Rows()
	// for a product.
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNilMatrix indicates that a nil *Matrix was used as an operand.
	ErrNilMatrix = errors.New("matrix: nil matrix")
)
