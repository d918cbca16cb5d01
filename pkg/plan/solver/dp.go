package solver

import "github.com/matzehuels/taskplan/pkg/plan"

// dpCell is the best selection found for one cost cell. It carries a single
// hours figure: whichever path first reached the cell's value.
type dpCell struct {
	value  int
	hours  int
	chosen *chain
}

// dynamicProgramming runs a 0/1 knapsack over cost cells 0..MaxCost. Hours
// are checked when a cell is improved but are not a table dimension, so a
// cell that committed to one path can hide a better combination that spends
// more cost within the same hours. The result is the best fully feasible
// cell after all tasks are processed.
func dynamicProgramming(in *instance) (plan.Result, error) {
	budget := in.c.MaxCost
	if budget <= 0 {
		return in.empty(DynamicProgramming, noteNoBudget), nil
	}

	dp := make([]dpCell, budget+1)
	for i, t := range in.tasks {
		if t.Cost < 0 {
			continue
		}
		for b := budget; b >= t.Cost; b-- {
			if err := in.tick(); err != nil {
				return plan.Result{}, err
			}
			prev := dp[b-t.Cost]
			hours := prev.hours + t.Hours
			if hours > in.c.MaxHours {
				continue
			}
			if value := prev.value + t.Value; value > dp[b].value {
				dp[b] = dpCell{value: value, hours: hours, chosen: prev.chosen.push(i)}
			}
		}
	}

	have := make([]int, len(in.need))
	best, bestAt := -1, -1
	for b := range dp {
		idx := dp[b].chosen.indices()
		value, cost, hours := in.tally(idx, have)
		if in.fitsCaps(cost, hours) && in.meets(have) && value > best {
			best, bestAt = value, b
		}
	}

	if bestAt < 0 {
		return in.empty(DynamicProgramming, noteInfeasible), nil
	}
	return in.finish(DynamicProgramming, dp[bestAt].chosen.indices()), nil
}
