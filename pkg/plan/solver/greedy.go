package solver

import (
	"math"

	"github.com/matzehuels/taskplan/pkg/plan"
)

var posInf = math.Inf(1)

// greedy takes tasks by descending value-to-cost ratio while the caps hold,
// then repairs category deficits. Each repair round picks the unselected
// task with the best deficit reduction per unit of cost (cost + 1, so free
// tasks stay finite) that keeps the caps; the first candidate wins ties.
//
// When from is set the result records it as FallbackFrom and carries note.
// A selection that still misses a minimum after repair yields the empty
// result.
func greedy(in *instance, from, note string) plan.Result {
	used := make([]bool, len(in.tasks))
	var picked []int
	have := make([]int, len(in.need))
	cost, hours := 0, 0

	take := func(i int) {
		t := in.tasks[i]
		used[i] = true
		picked = append(picked, i)
		cost += t.Cost
		hours += t.Hours
		in.add(have, i)
	}

	for _, i := range byRatio(in.tasks) {
		t := in.tasks[i]
		if in.fitsCaps(cost+t.Cost, hours+t.Hours) {
			take(i)
		}
	}

	for !in.meets(have) {
		bestTask, bestScore := -1, 0.0
		for i, t := range in.tasks {
			if used[i] {
				continue
			}
			reduction := 0
			for k, want := range in.need {
				if deficit := want - have[k]; deficit > 0 {
					reduction += min(deficit, in.contrib[i][k])
				}
			}
			if reduction <= 0 || !in.fitsCaps(cost+t.Cost, hours+t.Hours) {
				continue
			}
			score := float64(reduction) / float64(t.Cost+1)
			if bestTask < 0 || score > bestScore {
				bestTask, bestScore = i, score
			}
		}
		if bestTask < 0 {
			break
		}
		take(bestTask)
	}

	gi := info(Greedy)
	gi.FallbackFrom = from
	gi.Note = note

	if !in.meets(have) {
		gi.Note = noteInfeasible
		return plan.EmptyResult(in.cats, gi)
	}

	selected := make([]plan.Task, len(picked))
	for j, i := range picked {
		selected[j] = in.tasks[i]
	}
	r := plan.NewResult(in.cats, selected, gi)
	if !plan.IsFullyFeasible(r.Totals, in.c) {
		gi.Note = noteInfeasible
		return plan.EmptyResult(in.cats, gi)
	}
	return r
}
