package performance

import (
	"sync/atomic"
	"testing"
)

func TestRunExecutesAllTasks(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Start()
	defer pool.Stop()

	var counter atomic.Int64
	tasks := make([]func(), 20)
	for i := range tasks {
		tasks[i] = func() { counter.Add(1) }
	}
	pool.Run(tasks...)

	if got := counter.Load(); got != 20 {
		t.Errorf("ran %d tasks, want 20", got)
	}
	if pool.TasksDone() == 0 {
		t.Error("TasksDone = 0, want > 0")
	}
}

func TestRunCompletesWithoutStart(t *testing.T) {
	pool := NewWorkerPool(2)

	// Submission fails on a stopped pool, so Run falls back to inline
	// execution and the batch still completes.
	var counter atomic.Int64
	pool.Run(func() { counter.Add(1) }, func() { counter.Add(1) })

	if got := counter.Load(); got != 2 {
		t.Errorf("ran %d tasks inline, want 2", got)
	}
}

func TestSubmitLifecycle(t *testing.T) {
	pool := NewWorkerPool(1)
	if pool.Submit(func() {}) {
		t.Error("Submit before Start should return false")
	}

	pool.Start()
	done := make(chan struct{})
	if !pool.Submit(func() { close(done) }) {
		t.Fatal("Submit on a running pool should succeed")
	}
	<-done

	pool.Stop()
	if pool.Submit(func() {}) {
		t.Error("Submit after Stop should return false")
	}

	// Stop is idempotent.
	pool.Stop()
}

func TestDefaultWorkerCount(t *testing.T) {
	pool := NewWorkerPool(0)
	if pool.workers <= 0 {
		t.Errorf("workers = %d, want > 0", pool.workers)
	}
}
