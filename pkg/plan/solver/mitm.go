package solver

import (
	"cmp"
	"slices"
	"sort"

	"github.com/matzehuels/taskplan/pkg/plan"
)

// half is one subset of one half of the task list.
type half struct {
	mask               uint64
	value, cost, hours int
	have               []int
}

// enumerateHalf lists every subset of tasks[offset:offset+m] that fits the
// caps on its own, in mask order.
func enumerateHalf(in *instance, offset, m int) ([]half, error) {
	out := make([]half, 0, 1<<m)
	for mask := uint64(0); mask < uint64(1)<<m; mask++ {
		if err := in.tick(); err != nil {
			return nil, err
		}
		h := half{mask: mask, have: make([]int, len(in.need))}
		for i := 0; i < m; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			t := in.tasks[offset+i]
			h.value += t.Value
			h.cost += t.Cost
			h.hours += t.Hours
			in.add(h.have, offset+i)
		}
		if in.fitsCaps(h.cost, h.hours) {
			out = append(out, h)
		}
	}
	return out, nil
}

// meetInTheMiddle splits the tasks into halves of n/2 (rounded down) and the
// rest, enumerates both, and joins every left subset with the costliest
// right subset that fits the remaining budget and hours.
func meetInTheMiddle(in *instance) (plan.Result, error) {
	n := len(in.tasks)
	mid := n / 2

	left, err := enumerateHalf(in, 0, mid)
	if err != nil {
		return plan.Result{}, err
	}
	right, err := enumerateHalf(in, mid, n-mid)
	if err != nil {
		return plan.Result{}, err
	}

	slices.SortStableFunc(right, func(a, b half) int { return cmp.Compare(a.cost, b.cost) })

	// bestFrom[j] is the highest value among right[j:].
	bestFrom := make([]int, len(right)+1)
	bestFrom[len(right)] = -1
	for j := len(right) - 1; j >= 0; j-- {
		bestFrom[j] = max(bestFrom[j+1], right[j].value)
	}

	have := make([]int, len(in.need))
	best := -1
	var bestL, bestR *half

	for li := range left {
		l := &left[li]
		if err := in.tick(); err != nil {
			return plan.Result{}, err
		}
		// no right subset can lift this one above the incumbent
		if len(right) == 0 || l.value+bestFrom[0] <= best {
			continue
		}

		budget := in.c.MaxCost - l.cost
		hours := in.c.MaxHours - l.hours
		// largest index whose cost fits the remaining budget
		idx := sort.Search(len(right), func(j int) bool { return right[j].cost > budget }) - 1

		for j := idx; j >= 0; j-- {
			r := &right[j]
			if r.hours > hours {
				continue
			}
			copy(have, l.have)
			for k, v := range r.have {
				have[k] += v
			}
			value := l.value + r.value
			if in.fitsCaps(l.cost+r.cost, l.hours+r.hours) && in.meets(have) && value > best {
				best, bestL, bestR = value, l, r
			}
			break
		}
	}

	if bestL == nil {
		return in.empty(MeetInTheMiddle, noteInfeasible), nil
	}
	idx := append(maskIndices(bestL.mask, mid, 0), maskIndices(bestR.mask, n-mid, mid)...)
	return in.finish(MeetInTheMiddle, idx), nil
}
