package space

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ensure interface compliance
var _ ExecutionSpace = (*Threads)(nil)

// numWorkers defines the default parallelism for host threads
var numWorkers = runtime.NumCPU()

// Threads partitions ranges into contiguous chunks and runs one goroutine
// per chunk against host memory.
type Threads struct {
	workers int
}

// NewThreads creates a host-threaded space. workers <= 0 uses one worker
// per CPU.
func NewThreads(workers int) *Threads {
	if workers <= 0 {
		workers = numWorkers
	}
	return &Threads{workers: workers}
}

func (t *Threads) Name() string {
	return "Threads"
}

func (t *Threads) Backend() Backend {
	return BackendThreads
}

func (t *Threads) MemorySpace() MemorySpace {
	return HostMemory
}

func (t *Threads) Workers() int {
	return t.workers
}

func (t *Threads) ParallelFor(n int, body func(lo, hi int)) {
	if n <= 0 {
		return
	}
	kernelLaunches.WithLabelValues(BackendThreads.String()).Inc()

	chunks := Partition(n, t.workers)
	if len(chunks) == 1 {
		body(chunks[0].Lo, chunks[0].Hi)
		return
	}

	var g errgroup.Group
	for _, c := range chunks {
		g.Go(func() error {
			body(c.Lo, c.Hi)
			return nil
		})
	}
	_ = g.Wait()
}

func (t *Threads) Synchronize() {
	// ParallelFor joins before returning
}
