// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool provides a fixed-size pool of workers, each bound to its
// own OS thread, for the lifetime of a single parallel computation.
//
// Every worker owns an unbounded job queue. Callers pick the target worker themselves:
// either round-robin with Execute, or pull-based by reading an IdleState from
// Idle and dispatching to the worker that reported it. Submit offers a third
// option, a queue shared by all workers, so callers need no handshake at all.
// In every mode a worker runs at most one job at a time.
//
// Terminate is the only barrier. Writes made by jobs are visible to the caller
// once Terminate returns.
//
// Usage:
//
//	pool := workerpool.New(runtime.NumCPU())
//	for i := range n {
//	    pool.Execute(func() { process(i) }, i%pool.NumWorkers())
//	}
//	if err := pool.Terminate(); err != nil {
//	    // a job panicked
//	}
package workerpool

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/internal/cpuinfo"
)

// Job is a unit of work run on a worker.
type Job func()

// IdleState is sent by a worker once it has started and after each job it
// completes.
type IdleState struct {
	WorkerID int
}

// message is what sits on a worker's own queue: a job or the terminate
// signal.
type message struct {
	job       Job
	terminate bool
}

// Pool is a fixed set of workers. Create it with New and always release it
// with Terminate.
type Pool struct {
	workers []*worker
	idle    chan IdleState
	wg      sync.WaitGroup

	// mu guards every worker queue, shared and terminated.
	mu         sync.Mutex
	shared     []Job
	terminated bool

	terminateOnce sync.Once
	panicMu       sync.Mutex
	panics        []error
}

// New creates a pool and starts its workers. The number of workers is
// requested clamped to cpuinfo.AvailableParallelism; it is never increased.
//
// New panics if requested <= 0: a pool without workers is a programming
// error, not a runtime condition.
func New(requested int) *Pool {
	if requested <= 0 {
		panic(fmt.Sprintf("workerpool: requested %d workers, must be greater than 0", requested))
	}

	size := WorkersFor(requested)
	p := &Pool{
		workers: make([]*worker, size),
		idle:    make(chan IdleState, size),
	}
	klog.V(1).Infof("workerpool: starting %d workers (%d requested)", size, requested)

	p.wg.Add(size)
	for id := range size {
		w := &worker{
			id:   id,
			wake: make(chan struct{}, 1),
		}
		p.workers[id] = w
		go p.run(w)
	}
	return p
}

// WorkersFor returns how many workers New(requested) would start.
func WorkersFor(requested int) int {
	return max(1, min(requested, cpuinfo.AvailableParallelism()))
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return len(p.workers)
}

// Execute queues job on the worker with the given id and returns at once;
// the job is not guaranteed to have started. Worker queues are unbounded, so
// Execute never waits on a busy worker, and a job may call Execute on its
// own worker.
//
// Execute panics on an unknown id or once Terminate has been called. A job
// accepted by Execute always runs before Terminate returns.
func (p *Pool) Execute(job Job, workerID int) {
	if workerID < 0 || workerID >= len(p.workers) {
		panic(fmt.Sprintf("workerpool: worker id %d out of range [0, %d)", workerID, len(p.workers)))
	}
	w := p.workers[workerID]

	p.mu.Lock()
	if p.terminated {
		p.mu.Unlock()
		panic("workerpool: Execute called after Terminate")
	}
	w.queue = append(w.queue, message{job: job})
	p.mu.Unlock()
	w.notify()
}

// Submit queues job on the shared queue; the first free worker runs it.
// Like Execute it never blocks and panics once Terminate has been called.
func (p *Pool) Submit(job Job) {
	p.mu.Lock()
	if p.terminated {
		p.mu.Unlock()
		panic("workerpool: Submit called after Terminate")
	}
	p.shared = append(p.shared, job)
	p.mu.Unlock()
	for _, w := range p.workers {
		w.notify()
	}
}

// Idle returns the channel of idle signals. Each worker sends one after
// starting and one after every job. Sends never block: the channel holds one
// signal per worker, and a signal that finds it full is dropped. Callers that
// dispatch a job only to the worker whose signal they just received therefore
// never lose one.
func (p *Pool) Idle() <-chan IdleState {
	return p.idle
}

// State returns the current state of the worker with the given id.
func (p *Pool) State(workerID int) WorkerState {
	return WorkerState(p.workers[workerID].state.Load())
}

// Terminate signals every worker to stop after its queued jobs and waits for
// all of them to exit. Jobs queued with Submit are also drained. Calling
// Terminate more than once is safe.
//
// The returned error joins one *JobPanic per job that panicked.
func (p *Pool) Terminate() error {
	p.terminateOnce.Do(func() {
		p.mu.Lock()
		p.terminated = true
		for _, w := range p.workers {
			w.queue = append(w.queue, message{terminate: true})
		}
		p.mu.Unlock()
		for _, w := range p.workers {
			w.notify()
		}
		p.wg.Wait()
		klog.V(1).Infof("workerpool: %d workers terminated", len(p.workers))
	})

	p.panicMu.Lock()
	defer p.panicMu.Unlock()
	return errors.Join(p.panics...)
}

// run is the main loop of a worker.
func (p *Pool) run(w *worker) {
	defer p.wg.Done()
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	p.signalIdle(w.id)
	for {
		msg, ok := p.next(w)
		if !ok {
			<-w.wake
			continue
		}
		if msg.terminate {
			// Submit is closed by now; help drain the shared queue before exiting.
			for job, ok := p.nextShared(); ok; job, ok = p.nextShared() {
				p.runJob(w, job)
			}
			w.state.Store(int32(StateTerminated))
			klog.V(2).Infof("Worker %d was told to terminate.", w.id)
			return
		}
		p.runJob(w, msg.job)
	}
}

// next pops the worker's own queue first, then the shared queue.
func (p *Pool) next(w *worker) (message, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(w.queue) > 0 {
		msg := w.queue[0]
		w.queue[0] = message{}
		w.queue = w.queue[1:]
		return msg, true
	}
	if job, ok := p.popShared(); ok {
		return message{job: job}, true
	}
	return message{}, false
}

func (p *Pool) nextShared() (Job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.popShared()
}

// popShared must be called with p.mu held.
func (p *Pool) popShared() (Job, bool) {
	if len(p.shared) == 0 {
		return nil, false
	}
	job := p.shared[0]
	p.shared[0] = nil
	p.shared = p.shared[1:]
	return job, true
}

// runJob runs a single job, converting a panic into a recorded *JobPanic.
func (p *Pool) runJob(w *worker, job Job) {
	w.state.Store(int32(StateBusy))
	defer func() {
		if r := recover(); r != nil {
			jp := newJobPanic(w.id, r)
			klog.Errorf("Worker %d: %v", w.id, jp)
			p.panicMu.Lock()
			p.panics = append(p.panics, jp)
			p.panicMu.Unlock()
		}
		w.state.Store(int32(StateIdle))
		p.signalIdle(w.id)
	}()

	klog.V(2).Infof("Worker %d got a job; executing.", w.id)
	job()
}

func (p *Pool) signalIdle(id int) {
	select {
	case p.idle <- IdleState{WorkerID: id}:
	default:
	}
}
