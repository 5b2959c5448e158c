package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunBlocksVisitsEveryBlockOnce(t *testing.T) {
	const n = 257
	for _, s := range Schedules() {
		t.Run(s.String(), func(t *testing.T) {
			params := NewParameters().WithSchedule(s).WithWorkers(5).WithQueueDepth(2)
			var loads, computes [n]atomic.Int32
			out := make([]int, n)

			err := runBlocks(context.Background(), params, n, stages[int, int]{
				load: func(i int) int {
					loads[i].Add(1)
					return i
				},
				compute: func(i, in int) (int, error) {
					computes[i].Add(1)
					return in * 3, nil
				},
				store: func(i, v int) {
					out[i] = v
				},
			})
			if err != nil {
				t.Fatalf("runBlocks failed: %v", err)
			}
			for i := 0; i < n; i++ {
				if loads[i].Load() != 1 || computes[i].Load() != 1 {
					t.Fatalf("block %d loaded %d, computed %d times", i, loads[i].Load(), computes[i].Load())
				}
				if out[i] != i*3 {
					t.Fatalf("out[%d] = %d, want %d", i, out[i], i*3)
				}
			}
		})
	}
}

func TestStreamingStoresInOrder(t *testing.T) {
	const n = 100
	var order []int

	err := runStreaming(context.Background(), 2, n, stages[int, int]{
		load:    func(i int) int { return i },
		compute: func(_ int, in int) (int, error) { return in, nil },
		store: func(i, _ int) {
			order = append(order, i)
		},
	})
	if err != nil {
		t.Fatalf("runStreaming failed: %v", err)
	}
	if len(order) != n {
		t.Fatalf("stored %d blocks, want %d", len(order), n)
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("store %d saw block %d", i, got)
		}
	}
}

func TestRunBlocksStopsOnError(t *testing.T) {
	errBlock := errors.New("block failed")
	const n = 64

	for _, s := range Schedules() {
		t.Run(s.String(), func(t *testing.T) {
			params := NewParameters().WithSchedule(s).WithWorkers(4)
			err := runBlocks(context.Background(), params, n, stages[int, int]{
				load: func(i int) int { return i },
				compute: func(i, in int) (int, error) {
					if i == 10 {
						return 0, errBlock
					}
					return in, nil
				},
				store: func(int, int) {},
			})
			if !errors.Is(err, errBlock) {
				t.Errorf("err = %v, want %v", err, errBlock)
			}
		})
	}
}

func TestRunBlocksCancelledMidway(t *testing.T) {
	const n = 1000
	for _, s := range Schedules() {
		t.Run(s.String(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			params := NewParameters().WithSchedule(s).WithWorkers(4)
			var stored atomic.Int32
			err := runBlocks(ctx, params, n, stages[int, int]{
				load: func(i int) int { return i },
				compute: func(i, in int) (int, error) {
					if i == 20 {
						cancel()
					}
					return in, nil
				},
				store: func(int, int) { stored.Add(1) },
			})
			if !errors.Is(err, context.Canceled) {
				t.Errorf("err = %v, want context.Canceled", err)
			}
			if stored.Load() == n {
				t.Error("every block was stored despite cancellation")
			}
		})
	}
}

func TestRunBlocksEmpty(t *testing.T) {
	for _, s := range Schedules() {
		params := NewParameters().WithSchedule(s)
		err := runBlocks(context.Background(), params, 0, stages[int, int]{
			load:    func(int) int { t.Fatal("load called"); return 0 },
			compute: func(int, int) (int, error) { return 0, nil },
			store:   func(int, int) {},
		})
		if err != nil {
			t.Errorf("%v: runBlocks(0) = %v", s, err)
		}
	}
}
