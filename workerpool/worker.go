// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
)

// WorkerState is the lifecycle state of a single worker.
//
//	Idle --job--> Busy --done--> Idle
//	Idle --terminate--> Terminated
//
// Terminated is final.
type WorkerState int32

const (
	StateIdle WorkerState = iota
	StateBusy
	StateTerminated
)

// String returns a human-readable name for the state.
func (s WorkerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateBusy:
		return "busy"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

type worker struct {
	id    int
	queue []message // guarded by Pool.mu
	wake  chan struct{}
	state atomic.Int32
}

// notify wakes the worker if it is waiting for work. A pending wake-up is
// enough: the worker rechecks its queues after every wake.
func (w *worker) notify() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// JobPanic records a panic raised by a job. The worker that ran the job keeps
// serving; the panic is reported by Pool.Terminate.
type JobPanic struct {
	WorkerID int
	Value    any
	Stack    []byte
}

func newJobPanic(workerID int, value any) *JobPanic {
	return &JobPanic{
		WorkerID: workerID,
		Value:    value,
		Stack:    debug.Stack(),
	}
}

func (e *JobPanic) Error() string {
	return fmt.Sprintf("workerpool: job on worker %d panicked: %v", e.WorkerID, e.Value)
}

// Unwrap exposes the panic value when it is itself an error, such as a
// runtime.Error from an out-of-range index.
func (e *JobPanic) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
