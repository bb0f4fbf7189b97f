// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-matbench/internal/cpuinfo"
)

func TestNew(t *testing.T) {
	pool := New(1)
	defer pool.Terminate()

	if pool.NumWorkers() != 1 {
		t.Errorf("NumWorkers() = %d, want 1", pool.NumWorkers())
	}
}

func TestNewMoreThanAvailable(t *testing.T) {
	available := cpuinfo.AvailableParallelism()
	pool := New(available + 1)

	if pool.NumWorkers() != available {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), available)
	}
	<-pool.Idle()
	require.NoError(t, pool.Terminate())
}

func TestNewFewerThanAvailable(t *testing.T) {
	available := cpuinfo.AvailableParallelism()
	if available < 2 {
		t.Skip("needs at least 2 CPUs")
	}
	pool := New(available - 1)
	defer pool.Terminate()

	if pool.NumWorkers() != available-1 {
		t.Errorf("NumWorkers() = %d, want %d", pool.NumWorkers(), available-1)
	}
}

func TestNewZeroPanics(t *testing.T) {
	for _, n := range []int{0, -1} {
		assert.Panics(t, func() { New(n) }, "New(%d) should panic", n)
	}
}

func TestWorkersFor(t *testing.T) {
	available := cpuinfo.AvailableParallelism()
	assert.Equal(t, 1, WorkersFor(1))
	assert.Equal(t, available, WorkersFor(available))
	assert.Equal(t, available, WorkersFor(available*4))
}

func TestIdleHandshake(t *testing.T) {
	pool := New(4)
	n := pool.NumWorkers()

	done := make(chan int, n)
	for range n {
		idle := <-pool.Idle()
		id := idle.WorkerID
		pool.Execute(func() {
			done <- id
		}, id)
	}

	for range n {
		id := <-done
		if id < 0 || id >= n {
			t.Errorf("worker id %d out of range [0, %d)", id, n)
		}
	}
	require.NoError(t, pool.Terminate())
}

func TestExecuteRoundRobin(t *testing.T) {
	pool := New(4)

	n := 100
	results := make([]int, n)
	for i := range n {
		pool.Execute(func() {
			results[i] = i * 2
		}, i%pool.NumWorkers())
	}
	require.NoError(t, pool.Terminate())

	for i := 0; i < n; i++ {
		if results[i] != i*2 {
			t.Errorf("results[%d] = %d, want %d", i, results[i], i*2)
		}
	}
}

func TestSubmit(t *testing.T) {
	pool := New(4)

	var count atomic.Int32
	for range 100 {
		pool.Submit(func() {
			count.Add(1)
		})
	}
	require.NoError(t, pool.Terminate())

	if count.Load() != 100 {
		t.Errorf("count = %d, want 100", count.Load())
	}
}

func TestOneJobPerWorker(t *testing.T) {
	pool := New(runtime.NumCPU())
	n := pool.NumWorkers()

	var active, peak atomic.Int32
	job := func() {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
	}
	for i := range 4 * n {
		if i%2 == 0 {
			pool.Submit(job)
		} else {
			pool.Execute(job, i%n)
		}
	}
	require.NoError(t, pool.Terminate())

	if int(peak.Load()) > n {
		t.Errorf("peak concurrency = %d, want <= %d", peak.Load(), n)
	}
}

func TestExecuteDoesNotWaitForBusyWorker(t *testing.T) {
	pool := New(1)

	release := make(chan struct{})
	pool.Execute(func() { <-release }, 0)

	const queued = 500
	var count atomic.Int32
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for range queued {
			pool.Execute(func() { count.Add(1) }, 0)
		}
	}()

	select {
	case <-dispatched:
	case <-time.After(5 * time.Second):
		t.Fatal("Execute blocked on a busy worker")
	}
	assert.Zero(t, count.Load(), "jobs ran while the worker was blocked")

	close(release)
	require.NoError(t, pool.Terminate())
	assert.EqualValues(t, queued, count.Load())
}

func TestExecuteFromJobOnSameWorker(t *testing.T) {
	pool := New(1)

	var count atomic.Int32
	queued := make(chan struct{})
	pool.Execute(func() {
		for range 200 {
			pool.Execute(func() { count.Add(1) }, 0)
		}
		close(queued)
	}, 0)

	<-queued
	require.NoError(t, pool.Terminate())
	assert.EqualValues(t, 200, count.Load())
}

// tryDispatch queues job and reports whether the pool accepted it.
func tryDispatch(pool *Pool, job Job, workerID int) (accepted bool) {
	defer func() {
		if recover() != nil {
			accepted = false
		}
	}()
	if workerID < 0 {
		pool.Submit(job)
	} else {
		pool.Execute(job, workerID)
	}
	return true
}

func TestDispatchRacingTerminate(t *testing.T) {
	for range 20 {
		pool := New(2)
		n := pool.NumWorkers()

		var accepted, ran atomic.Int32
		var wg sync.WaitGroup
		for g := range 4 {
			wg.Go(func() {
				for i := range 200 {
					id := (g + i) % n
					if g%2 == 1 {
						id = -1
					}
					if tryDispatch(pool, func() { ran.Add(1) }, id) {
						accepted.Add(1)
					}
				}
			})
		}
		require.NoError(t, pool.Terminate())
		ranAtTerminate := ran.Load()
		wg.Wait()

		assert.Equal(t, accepted.Load(), ranAtTerminate, "every accepted job runs before Terminate returns")
	}
}

func TestTerminateWaitsForJobs(t *testing.T) {
	pool := New(1)

	var finished atomic.Bool
	pool.Execute(func() {
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
	}, 0)
	require.NoError(t, pool.Terminate())

	if !finished.Load() {
		t.Error("Terminate returned before the queued job finished")
	}
}

func TestTerminateMultipleTimes(t *testing.T) {
	pool := New(2)
	require.NoError(t, pool.Terminate())
	require.NoError(t, pool.Terminate())
}

func TestWorkerStates(t *testing.T) {
	pool := New(1)
	assert.Equal(t, StateIdle, pool.State(0))

	started := make(chan struct{})
	release := make(chan struct{})
	pool.Execute(func() {
		close(started)
		<-release
	}, 0)

	<-started
	assert.Equal(t, StateBusy, pool.State(0))
	close(release)

	require.NoError(t, pool.Terminate())
	assert.Equal(t, StateTerminated, pool.State(0))
	assert.Equal(t, "terminated", pool.State(0).String())
}

func TestJobPanic(t *testing.T) {
	pool := New(1)

	var ranAfter atomic.Bool
	pool.Execute(func() { panic("boom") }, 0)
	pool.Execute(func() { ranAfter.Store(true) }, 0)
	err := pool.Terminate()

	require.Error(t, err)
	var jp *JobPanic
	require.True(t, errors.As(err, &jp))
	assert.Equal(t, 0, jp.WorkerID)
	assert.Equal(t, "boom", jp.Value)
	assert.NotEmpty(t, jp.Stack)
	assert.True(t, ranAfter.Load(), "worker should keep serving after a job panics")
}

func TestJobPanicUnwrapsRuntimeError(t *testing.T) {
	pool := New(1)

	data := []int{1, 2, 3}
	idx := 5
	pool.Execute(func() { _ = data[idx] }, 0)
	err := pool.Terminate()

	var re runtime.Error
	require.True(t, errors.As(err, &re), "got %v", err)
}

func TestExecuteMisuse(t *testing.T) {
	pool := New(1)
	assert.Panics(t, func() { pool.Execute(func() {}, 1) })
	assert.Panics(t, func() { pool.Execute(func() {}, -1) })

	require.NoError(t, pool.Terminate())
	assert.Panics(t, func() { pool.Execute(func() {}, 0) })
	assert.Panics(t, func() { pool.Submit(func() {}) })
}

func BenchmarkExecute(b *testing.B) {
	for b.Loop() {
		pool := New(runtime.NumCPU())
		n := pool.NumWorkers()
		for i := range 1000 {
			pool.Execute(func() {
				_ = i * i
			}, i%n)
		}
		pool.Terminate()
	}
}

func BenchmarkSubmit(b *testing.B) {
	for b.Loop() {
		pool := New(runtime.NumCPU())
		for i := range 1000 {
			pool.Submit(func() {
				_ = i * i
			})
		}
		pool.Terminate()
	}
}
