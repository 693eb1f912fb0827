package interactions

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// parallel runs fn(0..count-1) on at most workers goroutines and returns
// the first error. Remaining items are skipped once an error occurred.
func parallel(workers, count int, fn func(item int) error) error {
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for item := 0; item < count; item++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(item)
		})
	}
	return g.Wait()
}

// parity returns (-1)^k.
func parity(k int) complex128 {
	if k%2 == 0 {
		return 1
	}
	return -1
}
