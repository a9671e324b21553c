package dynamo

import "sync"

// ParallelFor executes fn over disjoint chunks of [0, n) concurrently,
// falling back to a single synchronous call when n is too small to be
// worth splitting. Grounded on the teacher's own ParallelFor
// (unchanged): internal/optim uses it to evaluate independent points
// of a parameter sweep, each against its own Simulation instance, in
// parallel.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	const numWorkers = 4
	if n <= minChunk || numWorkers <= 1 {
		fn(0, n)
		return
	}

	workers := numWorkers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
