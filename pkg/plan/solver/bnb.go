package solver

import (
	"cmp"
	"slices"

	"github.com/matzehuels/taskplan/pkg/plan"
)

// bnbNode is one pending node of the depth-first search: the next position
// in ratio order and the running totals of the tasks chosen so far.
type bnbNode struct {
	pos                int
	value, cost, hours int
	have               []int
	chosen             *chain
}

// branchAndBound searches include/exclude decisions in value-to-cost order.
// A branch is cut as soon as it breaks the caps, or when its value plus every
// remaining value cannot beat the incumbent. Category minima only decide
// whether a node replaces the incumbent; they never cut a branch, since
// later tasks may still cover them.
func branchAndBound(in *instance) (plan.Result, error) {
	order := byRatio(in.tasks)
	n := len(order)

	// suffix[p] is the total value of order[p:].
	suffix := make([]int, n+1)
	for p := n - 1; p >= 0; p-- {
		suffix[p] = suffix[p+1] + in.tasks[order[p]].Value
	}

	best := -1
	var bestChosen *chain

	stack := []bnbNode{{have: make([]int, len(in.need))}}
	for len(stack) > 0 {
		if err := in.tick(); err != nil {
			return plan.Result{}, err
		}
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !in.fitsCaps(node.cost, node.hours) {
			continue
		}
		if in.meets(node.have) && node.value > best {
			best, bestChosen = node.value, node.chosen
		}
		if node.pos >= n || node.value+suffix[node.pos] <= best {
			continue
		}

		i := order[node.pos]
		t := in.tasks[i]
		include := bnbNode{
			pos:    node.pos + 1,
			value:  node.value + t.Value,
			cost:   node.cost + t.Cost,
			hours:  node.hours + t.Hours,
			have:   slices.Clone(node.have),
			chosen: node.chosen.push(i),
		}
		in.add(include.have, i)
		exclude := node
		exclude.pos++

		// include is popped first
		stack = append(stack, exclude, include)
	}

	if best < 0 {
		return greedy(in, BranchAndBound.String(), noteNoExact), nil
	}
	return in.finish(BranchAndBound, bestChosen.indices()), nil
}

// ratio is a task's value per unit of cost. Free tasks with value rank first
// and free tasks without value rank with the worthless ones.
func ratio(t plan.Task) float64 {
	if t.Cost == 0 {
		if t.Value > 0 {
			return posInf
		}
		return 0
	}
	return float64(t.Value) / float64(t.Cost)
}

// byRatio returns task indices ordered by descending ratio. Ties keep input
// order.
func byRatio(tasks []plan.Task) []int {
	order := make([]int, len(tasks))
	ratios := make([]float64, len(tasks))
	for i, t := range tasks {
		order[i] = i
		ratios[i] = ratio(t)
	}
	slices.SortStableFunc(order, func(a, b int) int { return cmp.Compare(ratios[b], ratios[a]) })
	return order
}
