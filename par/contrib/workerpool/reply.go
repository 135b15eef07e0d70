// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/ajroetker/go-parmul/par"
)

var (
	// ErrChannelFailure is the root of every send/receive failure between the
	// orchestrator and the workers.
	ErrChannelFailure = errors.New("workerpool: channel failure")

	// ErrPoolClosed is returned by Submit after Close.
	ErrPoolClosed = fmt.Errorf("%w: pool closed", ErrChannelFailure)

	// ErrReplyDropped is returned by Reply.Send when the receiver gave up.
	ErrReplyDropped = fmt.Errorf("%w: reply receiver dropped", ErrChannelFailure)

	// ErrTaskPanic marks a task whose kernel panicked. The worker survives.
	ErrTaskPanic = fmt.Errorf("%w: task panicked", ErrChannelFailure)
)

// Result is the outcome of one task.
type Result[T par.Number] struct {
	Index int
	Value T
	Err   error
}

// Reply is a one-shot, single-producer/single-consumer handoff carrying
// exactly one Result. Send never blocks.
type Reply[T par.Number] struct {
	ch      chan Result[T]
	sent    atomic.Bool
	dropped atomic.Bool
}

// NewReply returns an empty reply.
func NewReply[T par.Number]() *Reply[T] {
	return &Reply[T]{ch: make(chan Result[T], 1)}
}

// Send delivers res. It fails with ErrReplyDropped if the receiver called
// Drop, and with ErrChannelFailure on a second Send.
func (r *Reply[T]) Send(res Result[T]) error {
	if r.dropped.Load() {
		return ErrReplyDropped
	}
	if !r.sent.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: reply already sent", ErrChannelFailure)
	}
	r.ch <- res
	close(r.ch)
	return nil
}

// Recv blocks until the result arrives. Receiving from a reply that was
// already consumed fails with ErrChannelFailure.
func (r *Reply[T]) Recv() (Result[T], error) {
	res, ok := <-r.ch
	if !ok {
		return res, fmt.Errorf("%w: reply closed without a value", ErrChannelFailure)
	}
	return res, nil
}

// Drop tells the producer nobody will read this reply anymore.
func (r *Reply[T]) Drop() {
	r.dropped.Store(true)
}

// Dropped reports whether Drop was called.
func (r *Reply[T]) Dropped() bool {
	return r.dropped.Load()
}
