package runner

import (
	"context"
	"errors"
	"sync"
)

// ErrPoolClosed is returned by Do after Close.
var ErrPoolClosed = errors.New("worker pool is closed")

// Pool is a bounded worker pool. Subprocess executions and in-process
// extraction calls are submitted here so that concurrent playback requests
// are never serialized behind one subprocess, while total fan-out stays
// capped at the worker count.
type Pool struct {
	tasks chan func()
	wg    sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewPool starts size workers. Size values below one are raised to one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}

	p := &Pool{tasks: make(chan func())}
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go func() {
			defer p.wg.Done()
			for task := range p.tasks {
				task()
			}
		}()
	}
	return p
}

// Do runs fn on a pool worker and waits for it to finish. It returns early
// with the context's error if ctx expires before a worker picks the task up
// or while the task is running; the task itself is expected to honor the
// same context.
func (p *Pool) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	task := func() {
		defer close(done)
		fn()
	}

	// The read lock is held across the send so Close cannot close the task
	// channel between the closed check and the submit.
	p.mu.RLock()
	if p.closed {
		p.mu.RUnlock()
		return ErrPoolClosed
	}
	select {
	case p.tasks <- task:
		p.mu.RUnlock()
	case <-ctx.Done():
		p.mu.RUnlock()
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks and waits for running workers to drain.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
