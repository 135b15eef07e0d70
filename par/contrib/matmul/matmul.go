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
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/ajroetker/go-parmul/par"
	"github.com/ajroetker/go-parmul/par/contrib/matrix"
	"github.com/ajroetker/go-parmul/par/contrib/vec"
	"github.com/ajroetker/go-parmul/par/contrib/workerpool"
)

// Multiply computes C = A * B on a pool of worker goroutines.
//
//   - A is M x K
//   - B is K x N
//   - C is M x N
//
// The pool is created for this call and closed before Multiply returns.
func Multiply[T par.Number](a, b *matrix.Matrix[T], opts ...Option) (c *matrix.Matrix[T], err error) {
	cells, err := validate(a, b)
	if err != nil {
		return nil, &Error{Op: "validate", Index: -1, Err: err}
	}
	o := newOptions(opts)

	m, n := a.Rows(), b.Cols()
	if cells == 0 {
		return matrix.Zeros[T](m, n)
	}

	logger := o.logger.With(slog.String("call", uuid.NewString()))

	// Each queue holds every task routed to it, so dispatch never waits on
	// a worker.
	depth := (cells + o.workers - 1) / o.workers
	pool := workerpool.New[T](o.workers, depth, logger)
	if o.onPool != nil {
		o.onPool(pool)
	}

	replies := make([]*workerpool.Reply[T], cells)
	defer func() {
		if err != nil {
			for _, r := range replies {
				if r != nil {
					r.Drop()
				}
			}
		}
		if cerr := pool.Close(); cerr != nil {
			logger.Warn("worker pool closed with error", slog.String("error", cerr.Error()))
		}
	}()

	if err := dispatch(pool, a, b, replies, o.trimCols); err != nil {
		return nil, err
	}
	logger.Debug("tasks dispatched",
		slog.Int("cells", cells),
		slog.Int("workers", pool.Size()),
		slog.Int("queue_depth", depth))

	data, err := collect(replies)
	if err != nil {
		logger.Debug("multiply failed", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Debug("results collected", slog.Int("cells", cells))

	return matrix.New(m, n, data)
}

// validate checks the operands and returns the number of output cells.
func validate[T par.Number](a, b *matrix.Matrix[T]) (int, error) {
	if a == nil || b == nil {
		return 0, ErrNilMatrix
	}
	if a.Cols() != b.Rows() {
		return 0, fmt.Errorf("%w: a is %dx%d, b is %dx%d",
			ErrDimensionMismatch, a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}
	return matrix.CheckShape[T](a.Rows(), b.Cols())
}

// dispatch builds one task per output cell in row-major order and routes it
// to worker index mod P. Columns of b are copied once and shared read-only
// by all tasks of that column. A positive trim drops that many trailing
// elements from every column.
func dispatch[T par.Number](pool *workerpool.Pool[T], a, b *matrix.Matrix[T], replies []*workerpool.Reply[T], trim int) error {
	m, n := a.Rows(), b.Cols()

	cols := make([]vec.View[T], n)
	for j := range n {
		cols[j] = b.Col(j)
		if trim > 0 {
			col := cols[j].Slice()
			cols[j] = vec.Of(col[:max(len(col)-trim, 0)])
		}
	}

	for i := range m {
		row := a.Row(i)
		for j := range n {
			idx := i*n + j
			reply := workerpool.NewReply[T]()
			replies[idx] = reply
			t := workerpool.Task[T]{Index: idx, Left: row, Right: cols[j], Reply: reply}
			if err := pool.Submit(pool.Route(idx), t); err != nil {
				return &Error{Op: "dispatch", Index: idx, Err: err}
			}
		}
	}
	return nil
}

// collect waits on every reply in submission order and writes each value at
// the index the worker reports.
func collect[T par.Number](replies []*workerpool.Reply[T]) ([]T, error) {
	data := make([]T, len(replies))
	for idx, reply := range replies {
		res, err := reply.Recv()
		if err != nil {
			return nil, &Error{Op: "collect", Index: idx, Err: err}
		}
		if res.Err != nil {
			return nil, &Error{Op: "compute", Index: idx, Err: res.Err}
		}
		if res.Index != idx {
			return nil, &Error{Op: "collect", Index: idx,
				Err: fmt.Errorf("%w: reply carries index %d", ErrChannelFailure, res.Index)}
		}
		data[res.Index] = res.Value
	}
	return data, nil
}
