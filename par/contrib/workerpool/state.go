// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

//go:generate go tool stringer -type=WorkerState -trimprefix=Worker

// WorkerState is the lifecycle state of a single worker.
//
//	Idle -> Busy -> Idle -> ... -> Shutdown
//
// Shutdown is terminal and reached only once the worker's queue is closed
// and drained.
type WorkerState int32

const (
	// WorkerIdle means the worker is blocked on its queue.
	WorkerIdle WorkerState = iota
	// WorkerBusy means the worker is running the kernel on a task.
	WorkerBusy
	// WorkerShutdown means the worker has exited.
	WorkerShutdown
)
