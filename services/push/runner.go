package push

import (
	"context"
	"log"
	"sync"
	"time"
)

// Runner executes fire-and-forget tasks on a fixed pool of workers, on a
// context detached from the request that submitted them. Drain stops intake
// and waits for in-flight work, which gives shutdown a clean cut-off and
// lets tests run dispatches deterministically.
type Runner struct {
	tasks  chan func(context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// NewRunner starts a runner with the given worker count and queue size.
func NewRunner(workers, queueSize int) *Runner {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 16
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		tasks:  make(chan func(context.Context), queueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	for i := 0; i < workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}

	return r
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for task := range r.tasks {
		task(r.ctx)
	}
}

// Submit enqueues a task without blocking the caller. A full queue drops the
// task with a log line; push dispatch is best-effort and must never stall
// the request that triggered it.
func (r *Runner) Submit(task func(context.Context)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}

	select {
	case r.tasks <- task:
		return true
	default:
		log.Println("push: background queue full, dropping task")
		return false
	}
}

// Drain stops accepting tasks and waits up to timeout for in-flight work.
// After the timeout the runner context is cancelled so blocked sends abort.
func (r *Runner) Drain(timeout time.Duration) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.tasks)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		log.Println("push: drain timed out, cancelling in-flight tasks")
	}
	r.cancel()
}
