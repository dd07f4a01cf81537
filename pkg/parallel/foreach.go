package parallel

import (
	"runtime"
	"sync"
)

// minChunk is the smallest range worth handing to a worker; below this
// the scheduling overhead dominates and the loop runs inline.
const minChunk = 1024

var (
	shared     *WorkerPool
	sharedOnce sync.Once
)

// sharedPool returns the process-wide pool that ForEachRange submits its
// chunks to, created on first use with GOMAXPROCS workers.
func sharedPool() *WorkerPool {
	sharedOnce.Do(func() {
		// GOMAXPROCS never exceeds MaxWorkers
		shared, _ = NewWorkerPool(0)
	})
	return shared
}

// ForEachRange splits [0, n) into contiguous chunks and runs fn(lo, hi) for
// each chunk on the shared worker pool. fn must be safe to run concurrently
// with itself on disjoint ranges, and must not call ForEachRange itself.
// Blocks until all chunks complete.
func ForEachRange(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if n < minChunk || workers == 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	pool := sharedPool()
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		lo, hi := lo, lo+chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		task := func() {
			defer wg.Done()
			fn(lo, hi)
		}
		if !pool.Submit(task) {
			task()
		}
	}
	wg.Wait()
}
