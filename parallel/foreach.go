// Package parallel contains the bounded-concurrency loop helper used when
// assembling training batches.
package parallel

import "sync"

// ForEach runs body(i) for every i in [0, length) using at most limit
// concurrent goroutines, and returns once every iteration has completed.
// A limit of one (or less) degrades to a plain sequential loop.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return
	}
	if limit > length {
		limit = length
	}
	if limit <= 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}

	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < limit; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				body(i)
			}
		}()
	}
	for i := 0; i < length; i++ {
		next <- i
	}
	close(next)
	wg.Wait()
}
