package pipeline

import (
	"context"
	"sync"
)

type loaded[In any] struct {
	index int
	in    In
}

type computed[Out any] struct {
	index int
	out   Out
	err   error
}

// runStreaming chains three stages over bounded channels: a loader goroutine,
// a compute goroutine, and the store stage on the caller's goroutine. Blocks
// leave every stage in the order they entered it.
func runStreaming[In, Out any](ctx context.Context, depth, n int, st stages[In, Out]) error {
	if depth < defaultQueueDepth {
		depth = defaultQueueDepth
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loadQ := make(chan loaded[In], depth)
	storeQ := make(chan computed[Out], depth)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer close(loadQ)
		for i := 0; i < n; i++ {
			item := loaded[In]{index: i, in: st.load(i)}
			select {
			case loadQ <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		defer close(storeQ)
		for item := range loadQ {
			out, err := st.compute(item.index, item.in)
			select {
			case storeQ <- computed[Out]{index: item.index, out: out, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	stored := 0
	var firstErr error
	for res := range storeQ {
		if res.err != nil {
			firstErr = res.err
			break
		}
		if ctx.Err() != nil {
			break
		}
		st.store(res.index, res.out)
		stored++
	}
	cancel()
	// Drain so the compute goroutine can observe cancellation and exit
	for range storeQ {
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	if stored < n {
		return context.Cause(ctx)
	}
	return nil
}
