// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a fixed-size, call-scoped worker pool that runs
// the dot-product kernel. Unlike a shared work queue, every worker owns a
// private FIFO queue: a task submitted to worker w is run by w and nobody
// else, in submission order. There is no work stealing and no resizing.
//
// A Pool lives for exactly one multiply call. Close is the only shutdown
// signal: it closes every queue, lets each worker drain what it already has,
// and joins all of them.
//
// Usage:
//
//	pool := workerpool.New[int](4, depth, logger)
//	defer pool.Close()
//
//	reply := workerpool.NewReply[int]()
//	err := pool.Submit(pool.Route(idx), workerpool.Task[int]{
//	    Index: idx, Left: row, Right: col, Reply: reply,
//	})
//	...
//	res, err := reply.Recv()
package workerpool

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"

	"github.com/ajroetker/go-parmul/par"
	"github.com/ajroetker/go-parmul/par/contrib/dot"
	"github.com/ajroetker/go-parmul/par/contrib/vec"
)

// Task is one dot product to compute, identified by its output index.
type Task[T par.Number] struct {
	Index int
	Left  vec.View[T]
	Right vec.View[T]
	Reply *Reply[T]
}

// WorkerStats are the counters of a single worker.
type WorkerStats struct {
	Worker        int
	Processed     uint64
	FailedReplies uint64
}

// counters live on their own cache line; every worker bumps its own.
type counters struct {
	processed     atomic.Uint64
	failedReplies atomic.Uint64
	_             cpu.CacheLinePad
}

type worker[T par.Number] struct {
	id       int
	queue    chan Task[T]
	state    atomic.Int32
	counters counters
}

func (w *worker[T]) setState(s WorkerState) {
	w.state.Store(int32(s))
}

// Pool is a fixed set of workers, each consuming its own queue.
type Pool[T par.Number] struct {
	workers []*worker[T]
	group   errgroup.Group
	logger  *slog.Logger

	// mu orders Submit against Close so no send hits a closed queue.
	mu     sync.RWMutex
	closed bool

	closeOnce sync.Once
	closeErr  error
}

// New creates a pool of size workers, each with a queue buffering up to
// queueDepth tasks. Workers are spawned immediately.
// If size <= 0, uses par.DefaultWorkers. A nil logger discards output.
func New[T par.Number](size, queueDepth int, logger *slog.Logger) *Pool[T] {
	if size <= 0 {
		size = par.DefaultWorkers
	}
	if queueDepth < 0 {
		queueDepth = 0
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	p := &Pool[T]{
		workers: make([]*worker[T], size),
		logger:  logger,
	}
	for i := range size {
		w := &worker[T]{id: i, queue: make(chan Task[T], queueDepth)}
		p.workers[i] = w
		p.group.Go(func() error {
			return p.run(w)
		})
	}

	return p
}

// Size returns the number of workers in the pool.
func (p *Pool[T]) Size() int {
	return len(p.workers)
}

// Route returns the worker that owns output index idx: idx mod Size().
func (p *Pool[T]) Route(idx int) int {
	return idx % len(p.workers)
}

// Submit enqueues t on worker w's queue. Tasks sent to the same worker run
// in FIFO order. Submit blocks only while that queue is full.
func (p *Pool[T]) Submit(w int, t Task[T]) error {
	if w < 0 || w >= len(p.workers) {
		return fmt.Errorf("workerpool: worker %d out of range [0,%d)", w, len(p.workers))
	}
	if t.Reply == nil {
		return fmt.Errorf("workerpool: task %d has no reply", t.Index)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return fmt.Errorf("submit task %d: %w", t.Index, ErrPoolClosed)
	}
	p.workers[w].queue <- t
	return nil
}

// Close closes every queue and waits for all workers to drain them and exit.
// Calling Close multiple times is safe.
func (p *Pool[T]) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		for _, w := range p.workers {
			close(w.queue)
		}
		p.mu.Unlock()

		p.closeErr = p.group.Wait()
	})
	return p.closeErr
}

// States returns the current state of every worker.
func (p *Pool[T]) States() []WorkerState {
	states := make([]WorkerState, len(p.workers))
	for i, w := range p.workers {
		states[i] = WorkerState(w.state.Load())
	}
	return states
}

// Stats returns the counters of every worker.
func (p *Pool[T]) Stats() []WorkerStats {
	stats := make([]WorkerStats, len(p.workers))
	for i, w := range p.workers {
		stats[i] = WorkerStats{
			Worker:        w.id,
			Processed:     w.counters.processed.Load(),
			FailedReplies: w.counters.failedReplies.Load(),
		}
	}
	return stats
}

// run is the main loop of one worker goroutine.
func (p *Pool[T]) run(w *worker[T]) error {
	p.logger.Debug("worker started", slog.Int("worker", w.id))
	for t := range w.queue {
		w.setState(WorkerBusy)
		p.process(w, t)
		w.setState(WorkerIdle)
	}
	w.setState(WorkerShutdown)
	p.logger.Debug("worker stopped",
		slog.Int("worker", w.id),
		slog.Uint64("processed", w.counters.processed.Load()),
		slog.Uint64("failed_replies", w.counters.failedReplies.Load()))
	return nil
}

// process runs one task. A reply that cannot be delivered is logged and
// counted; the worker moves on to its next task either way.
func (p *Pool[T]) process(w *worker[T], t Task[T]) {
	if t.Reply.Dropped() {
		p.replyFailed(w, t, ErrReplyDropped)
		return
	}

	res := Result[T]{Index: t.Index}
	res.Value, res.Err = runKernel(t)
	if err := t.Reply.Send(res); err != nil {
		p.replyFailed(w, t, err)
		return
	}
	w.counters.processed.Add(1)
}

func (p *Pool[T]) replyFailed(w *worker[T], t Task[T], err error) {
	w.counters.failedReplies.Add(1)
	p.logger.Warn("reply not delivered",
		slog.Int("worker", w.id),
		slog.Int("index", t.Index),
		slog.String("error", err.Error()))
}

func runKernel[T par.Number](t Task[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: index %d: %v", ErrTaskPanic, t.Index, r)
		}
	}()
	return dot.Dot(t.Left, t.Right)
}
