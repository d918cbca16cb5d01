package solver

import (
	"context"

	"github.com/matzehuels/taskplan/pkg/plan"
)

// checkEvery is the number of search steps between context checks.
const checkEvery = 4096

// instance is the integer view of one solve. Category minima are flattened
// into need, and contrib[i] holds task i's share of each of those minima, so
// inner loops work on small int slices instead of maps.
type instance struct {
	ctx   context.Context
	cats  plan.Categories
	tasks []plan.Task
	c     plan.Constraints

	keys    []plan.Category
	need    []int
	contrib [][]int

	steps int
}

func newInstance(ctx context.Context, cats plan.Categories, tasks []plan.Task, c plan.Constraints) *instance {
	in := &instance{ctx: ctx, cats: cats, tasks: tasks, c: c}
	for _, k := range c.MinCategoryTotals.Keys() {
		if want := c.MinCategoryTotals[k]; want > 0 {
			in.keys = append(in.keys, k)
			in.need = append(in.need, want)
		}
	}
	in.contrib = make([][]int, len(tasks))
	for i, t := range tasks {
		row := make([]int, len(in.keys))
		for k, key := range in.keys {
			row[k] = t.Categories.Get(key)
		}
		in.contrib[i] = row
	}
	return in
}

// tick counts one search step and reports the context error every
// checkEvery steps.
func (in *instance) tick() error {
	in.steps++
	if in.steps&(checkEvery-1) != 0 {
		return nil
	}
	return in.ctx.Err()
}

// fitsCaps mirrors plan.FitsCaps on plain integers.
func (in *instance) fitsCaps(cost, hours int) bool {
	return cost <= in.c.MaxCost && hours <= in.c.MaxHours
}

// meets mirrors plan.MeetsCategoryMinima on a flattened category vector.
func (in *instance) meets(have []int) bool {
	for k, want := range in.need {
		if have[k] < want {
			return false
		}
	}
	return true
}

// add accumulates task i's category contribution into have.
func (in *instance) add(have []int, i int) {
	for k, v := range in.contrib[i] {
		have[k] += v
	}
}

// tally sums the subset given by idx.
func (in *instance) tally(idx []int, have []int) (value, cost, hours int) {
	clear(have)
	for _, i := range idx {
		t := in.tasks[i]
		value += t.Value
		cost += t.Cost
		hours += t.Hours
		in.add(have, i)
	}
	return value, cost, hours
}

func info(s Strategy) plan.AlgorithmInfo {
	return plan.AlgorithmInfo{Strategy: s.String(), Complexity: s.Complexity()}
}

// empty returns the canonical empty result labelled with s.
func (in *instance) empty(s Strategy, note string) plan.Result {
	i := info(s)
	i.Note = note
	return plan.EmptyResult(in.cats, i)
}

// finish builds the result for the tasks at idx, in that order. Totals are
// recomputed with plan.Evaluate, and a selection that is not fully feasible
// collapses to the empty result.
func (in *instance) finish(s Strategy, idx []int) plan.Result {
	selected := make([]plan.Task, len(idx))
	for j, i := range idx {
		selected[j] = in.tasks[i]
	}
	r := plan.NewResult(in.cats, selected, info(s))
	if !plan.IsFullyFeasible(r.Totals, in.c) {
		return in.empty(s, noteInfeasible)
	}
	return r
}

// chain is an immutable list of chosen task indices. Extending a chain
// shares its prefix, so partial selections are cheap to branch from.
type chain struct {
	idx  int
	prev *chain
	n    int
}

func (c *chain) push(i int) *chain {
	n := 1
	if c != nil {
		n = c.n + 1
	}
	return &chain{idx: i, prev: c, n: n}
}

// indices returns the chain in insertion order.
func (c *chain) indices() []int {
	if c == nil {
		return []int{}
	}
	out := make([]int, c.n)
	for p := c; p != nil; p = p.prev {
		out[p.n-1] = p.idx
	}
	return out
}
