package utils

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"go.viam.com/utils"
)

// ParallelFactor is the most groups GroupWorkParallel splits work into.
var ParallelFactor = parallelFactor(runtime.GOMAXPROCS(0))

// parallelFactor uses every proc on small machines and a quarter of them past 32.
func parallelFactor(procs int) int {
	if procs <= 0 {
		return 1
	}
	if procs > 32 {
		return procs / 4
	}
	return procs
}

type (
	// BeforeParallelGroupWorkFunc runs once before any group starts, with the number of groups.
	BeforeParallelGroupWorkFunc func(numGroups int)
	// MemberWorkFunc handles one work item. memberNum counts from zero within the group.
	MemberWorkFunc func(memberNum, workNum int)
	// GroupWorkDoneFunc runs after a group has handled all its items; use it to merge results.
	GroupWorkDoneFunc func()
	// GroupWorkFunc sets up a group for the work items [from, to).
	GroupWorkFunc func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc)
)

// workRange is the contiguous share [from, to) of the work given to one group.
type workRange struct {
	group, from, to int
}

// splitWork cuts totalSize items into numGroups equal ranges. The last range also takes the remainder.
func splitWork(totalSize, numGroups int) []workRange {
	if numGroups <= 0 {
		return nil
	}
	size := totalSize / numGroups
	ranges := make([]workRange, numGroups)
	for g := range ranges {
		ranges[g] = workRange{group: g, from: g * size, to: (g + 1) * size}
	}
	ranges[numGroups-1].to = totalSize
	return ranges
}

// GroupWorkParallel spreads totalSize work items over at most ParallelFactor goroutines.
// A panic in any group is returned as an error once every group has finished. Groups stop taking
// new items when ctx is done, and ctx's error is returned with any panics.
func GroupWorkParallel(ctx context.Context, totalSize int, before BeforeParallelGroupWorkFunc, groupWork GroupWorkFunc) error {
	ranges := splitWork(totalSize, min(ParallelFactor, totalSize))
	before(len(ranges))

	var (
		wg     sync.WaitGroup
		errMu  sync.Mutex
		panics error
	)
	wg.Add(len(ranges))
	for _, r := range ranges {
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			defer func() {
				if p := recover(); p != nil {
					errMu.Lock()
					panics = multierr.Append(panics, fmt.Errorf("got panic in parallel group %d: %v", r.group, p))
					errMu.Unlock()
				}
			}()
			runGroup(ctx, r, groupWork)
		})
	}
	wg.Wait()
	return multierr.Combine(panics, ctx.Err())
}

func runGroup(ctx context.Context, r workRange, groupWork GroupWorkFunc) {
	memberWork, done := groupWork(r.group, r.to-r.from, r.from, r.to)
	if memberWork != nil {
		for workNum := r.from; workNum < r.to && ctx.Err() == nil; workNum++ {
			memberWork(workNum-r.from, workNum)
		}
	}
	if done != nil {
		done()
	}
}
