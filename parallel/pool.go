// Package parallel fans independent tasks out over a fixed set of workers.
// With a single worker the pool degrades to running tasks inline.
package parallel

import (
	"runtime"
	"sync"
)

type (
	// WorkerFunc submits one task to a pool.
	WorkerFunc func(func())
	// WaitFunc blocks until all submitted tasks finished. With done set,
	// no further tasks may be submitted.
	WaitFunc func(done bool)
)

type Pool struct {
	wg        sync.WaitGroup
	tasks     chan func()
	closeOnce sync.Once
}

// Start launches numWorkers workers. Anything below one means one worker
// per CPU.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	if numWorkers > 1 {
		pool.tasks = make(chan func(), numWorkers)
		for range numWorkers {
			pool.wg.Go(func() {
				for f := range pool.tasks {
					f()
				}
			})
		}
	}

	return pool
}

// Do runs f on a free worker, blocking while all workers are busy.
func (p *Pool) Do(f func()) {
	if p.tasks == nil {
		f()
		return
	}
	p.tasks <- f
}

// Wait blocks until every submitted task has run. With done set the pool
// is closed first; submitting after that panics.
func (p *Pool) Wait(done bool) {
	if p.tasks == nil {
		return
	}
	if done {
		p.Close()
	}
	p.wg.Wait()
}

// Close stops the workers once the queued tasks drain.
func (p *Pool) Close() {
	if p.tasks == nil {
		return
	}
	p.closeOnce.Do(func() {
		close(p.tasks)
	})
}
