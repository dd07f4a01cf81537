package parallel

import (
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	pool, err := NewWorkerPool(4)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}

	var counter int64
	for i := 0; i < 100; i++ {
		if !pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		}) {
			t.Fatal("Submit returned false on open pool")
		}
	}
	pool.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool, err := NewWorkerPool(2)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit should return false after Close")
	}
}

func TestWorkerPoolDefaultsWorkers(t *testing.T) {
	pool, err := NewWorkerPool(0)
	if err != nil {
		t.Fatalf("NewWorkerPool failed: %v", err)
	}
	defer pool.Close()

	if pool.Workers() <= 0 {
		t.Errorf("Workers() = %d, want > 0", pool.Workers())
	}
}

func TestWorkerPoolTooManyWorkers(t *testing.T) {
	if _, err := NewWorkerPool(MaxWorkers + 1); err == nil {
		t.Error("expected error for too many workers")
	}
}

func TestForEachRangeCoversAll(t *testing.T) {
	const n = 10000
	seen := make([]int32, n)

	ForEachRange(n, 4, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times", i, c)
		}
	}
}

func TestForEachRangeBoundedBySharedPool(t *testing.T) {
	// Force far more chunks than the pool has workers; the chunks must
	// queue rather than all run at once.
	const n = 64 * minChunk

	var active, peak int64
	ForEachRange(n, n/minChunk, func(lo, hi int) {
		cur := atomic.AddInt64(&active, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
				break
			}
		}
		var sum int
		for i := lo; i < hi; i++ {
			sum += i
		}
		_ = sum
		atomic.AddInt64(&active, -1)
	})

	if limit := int64(sharedPool().Workers()); peak > limit {
		t.Errorf("peak concurrency %d exceeds the pool's %d workers", peak, limit)
	}
}

func TestSharedPoolIsReused(t *testing.T) {
	if sharedPool() != sharedPool() {
		t.Error("sharedPool must hand back the same pool")
	}
}

func TestForEachRangeSmallRunsInline(t *testing.T) {
	total := 0
	// Below minChunk the callback runs on the calling goroutine, so an
	// unsynchronized counter is safe.
	ForEachRange(10, 8, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			total++
		}
	})
	if total != 10 {
		t.Errorf("total = %d, want 10", total)
	}
}

func TestForEachRangeZero(t *testing.T) {
	called := false
	ForEachRange(0, 4, func(lo, hi int) { called = true })
	if called {
		t.Error("fn should not be called for n=0")
	}
}
