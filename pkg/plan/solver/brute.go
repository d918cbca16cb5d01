package solver

import "github.com/matzehuels/taskplan/pkg/plan"

// bruteForce enumerates all 2^n subsets, bit i of the mask standing for task
// i. The first subset found with a strictly greater value wins.
func bruteForce(in *instance) (plan.Result, error) {
	n := len(in.tasks)
	have := make([]int, len(in.need))
	best, bestMask := -1, uint64(0)

	for mask := uint64(0); mask < uint64(1)<<n; mask++ {
		if err := in.tick(); err != nil {
			return plan.Result{}, err
		}
		clear(have)
		value, cost, hours := 0, 0, 0
		for i := 0; i < n; i++ {
			if mask&(1<<i) == 0 {
				continue
			}
			t := in.tasks[i]
			value += t.Value
			cost += t.Cost
			hours += t.Hours
			in.add(have, i)
		}
		if !in.fitsCaps(cost, hours) || !in.meets(have) {
			continue
		}
		if value > best {
			best, bestMask = value, mask
		}
	}

	if best < 0 {
		return in.empty(BruteForce, noteInfeasible), nil
	}
	return in.finish(BruteForce, maskIndices(bestMask, n, 0)), nil
}

// maskIndices lists the set bits of mask below n, each shifted by offset.
func maskIndices(mask uint64, n, offset int) []int {
	out := []int{}
	for i := 0; i < n; i++ {
		if mask&(1<<i) != 0 {
			out = append(out, offset+i)
		}
	}
	return out
}
