package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrInvalidSchedule is returned for an unknown Schedule value
var ErrInvalidSchedule = errors.New("invalid schedule")

// Schedule selects how a pipeline dispatches independent blocks.
// Every schedule produces identical output.
type Schedule int

const (
	// ScheduleSequential processes blocks one at a time on the caller's goroutine
	ScheduleSequential Schedule = iota
	// ScheduleParallel spreads blocks across Workers goroutines
	ScheduleParallel
	// ScheduleStreaming overlaps load, compute and store stages over bounded queues
	ScheduleStreaming
)

var scheduleNames = [...]string{"sequential", "parallel", "streaming"}

func (s Schedule) valid() bool {
	return s >= ScheduleSequential && s <= ScheduleStreaming
}

// Validate returns ErrInvalidSchedule for values outside the defined schedules
func (s Schedule) Validate() error {
	if !s.valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSchedule, int(s))
	}
	return nil
}

func (s Schedule) String() string {
	if !s.valid() {
		return fmt.Sprintf("Schedule(%d)", int(s))
	}
	return scheduleNames[s]
}

// ParseSchedule resolves a schedule name
func ParseSchedule(name string) (Schedule, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range scheduleNames {
		if n == name {
			return Schedule(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSchedule, name)
}

// Schedules returns every schedule
func Schedules() []Schedule {
	return []Schedule{ScheduleSequential, ScheduleParallel, ScheduleStreaming}
}

// stages is one block job split into the three pipeline stages.
// store is called with the index load was called with.
type stages[In, Out any] struct {
	load    func(i int) In
	compute func(i int, in In) (Out, error)
	store   func(i int, out Out)
}

// runBlocks processes n blocks under the configured schedule. Cancellation is
// checked between blocks only; a block's compute is never interrupted.
func runBlocks[In, Out any](ctx context.Context, p *Parameters, n int, st stages[In, Out]) error {
	switch p.Schedule {
	case ScheduleParallel:
		return runParallel(ctx, p.Workers, n, st)
	case ScheduleStreaming:
		return runStreaming(ctx, p.QueueDepth, n, st)
	default:
		return runSequential(ctx, n, st)
	}
}

func runSequential[In, Out any](ctx context.Context, n int, st stages[In, Out]) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := st.compute(i, st.load(i))
		if err != nil {
			return err
		}
		st.store(i, out)
	}
	return nil
}

// runParallel lets workers claim block indices from a shared counter. Each
// block owns a disjoint output region, so store needs no locking.
func runParallel[In, Out any](ctx context.Context, workers, n int, st stages[In, Out]) error {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return runSequential(ctx, n, st)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		next     atomic.Int64
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				i := int(next.Add(1) - 1)
				if i >= n {
					return
				}
				out, err := st.compute(i, st.load(i))
				if err != nil {
					errOnce.Do(func() {
						firstErr = err
						cancel()
					})
					return
				}
				st.store(i, out)
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	// Parent cancellation may have stopped workers early
	if int(next.Load()) < n {
		return context.Cause(ctx)
	}
	return nil
}
