package push

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunnerExecutesTask(t *testing.T) {
	r := NewRunner(1, 4)
	defer r.Drain(time.Second)

	done := make(chan struct{})
	if !r.Submit(func(context.Context) { close(done) }) {
		t.Fatal("Submit returned false on empty queue")
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
}

func TestRunnerDrainWaitsForInFlight(t *testing.T) {
	r := NewRunner(1, 4)

	var ran atomic.Bool
	r.Submit(func(context.Context) {
		time.Sleep(50 * time.Millisecond)
		ran.Store(true)
	})

	r.Drain(time.Second)

	if !ran.Load() {
		t.Error("Drain returned before the in-flight task finished")
	}
}

func TestRunnerSubmitAfterDrain(t *testing.T) {
	r := NewRunner(1, 4)
	r.Drain(time.Second)

	if r.Submit(func(context.Context) {}) {
		t.Error("Submit accepted a task after Drain")
	}
}

func TestRunnerDropsWhenQueueFull(t *testing.T) {
	r := NewRunner(1, 1)

	gate := make(chan struct{})
	blocked := func(ctx context.Context) {
		select {
		case <-gate:
		case <-ctx.Done():
		}
	}

	// Occupy the single worker, then fill the single queue slot. The worker
	// may not have picked up the first task yet, so one or two submits land
	// before the queue is provably full.
	r.Submit(blocked)
	accepted := 0
	for i := 0; i < 3; i++ {
		if r.Submit(blocked) {
			accepted++
		}
	}
	if accepted == 3 {
		t.Error("Submit never dropped with a full queue and a blocked worker")
	}

	close(gate)
	r.Drain(time.Second)
}

func TestRunnerDrainCancelsStuckTasks(t *testing.T) {
	r := NewRunner(1, 1)

	released := make(chan struct{})
	r.Submit(func(ctx context.Context) {
		<-ctx.Done()
		close(released)
	})

	r.Drain(10 * time.Millisecond)

	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("runner context not cancelled after drain timeout")
	}
}
