package solver_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

func sampleConstraints() plan.Constraints { return plan.SampleConstraints() }

func looseConstraints() plan.Constraints {
	return plan.Constraints{MaxCost: 40000, MaxHours: 100}
}

func tightConstraints() plan.Constraints {
	c := plan.SampleConstraints()
	c.MaxCost = 10000
	return c
}

// hoursTrap has a cheap high-hours task that the cost-indexed table commits
// to before it sees the two low-hours tasks that together are worth more.
func hoursTrap() ([]plan.Task, plan.Constraints) {
	return []plan.Task{
			{ID: "A", Cost: 5, Hours: 9, Value: 10},
			{ID: "B", Cost: 5, Hours: 2, Value: 9},
			{ID: "C", Cost: 5, Hours: 2, Value: 9},
		}, plan.Constraints{
			MaxCost:  10,
			MaxHours: 10,
		}
}

func uniform(n int) []plan.Task {
	tasks := make([]plan.Task, n)
	for i := range tasks {
		tasks[i] = plan.Task{ID: fmt.Sprintf("T%d", i+1), Cost: 1, Hours: 1, Value: 1}
	}
	return tasks
}

func randomInstance(r *rand.Rand) ([]plan.Task, plan.Constraints) {
	n := 1 + r.IntN(12)
	tasks := make([]plan.Task, n)
	for i := range tasks {
		cats := plan.Amounts{}
		for _, c := range plan.DefaultCategories {
			if r.IntN(10) < 3 {
				cats[c] = 1 + r.IntN(2)
			}
		}
		tasks[i] = plan.Task{
			ID:         fmt.Sprintf("T%d", i+1),
			Cost:       1 + r.IntN(60),
			Hours:      r.IntN(10),
			Value:      r.IntN(20),
			Categories: cats,
		}
	}
	mins := plan.Amounts{}
	for _, c := range plan.DefaultCategories {
		if r.IntN(10) < 3 {
			mins[c] = 1 + r.IntN(2)
		}
	}
	return tasks, plan.Constraints{MaxCost: r.IntN(200), MaxHours: r.IntN(40), MinCategoryTotals: mins}
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{
		"Brute Force", "Dynamic Programming", "Meet-in-the-Middle",
		"Branch & Bound", "Greedy", "Bitset DP",
	}, solver.Names())
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in   string
		want solver.Strategy
		ok   bool
	}{
		{"Brute Force", solver.BruteForce, true},
		{"brute-force", solver.BruteForce, true},
		{"DP", solver.DynamicProgramming, true},
		{"meet-in-the-middle", solver.MeetInTheMiddle, true},
		{"mitm", solver.MeetInTheMiddle, true},
		{"Branch & Bound", solver.BranchAndBound, true},
		{" greedy ", solver.Greedy, true},
		{"BITSET", solver.BitsetDP, true},
		{"Simulated Annealing", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := solver.ParseStrategy(tt.in)
			require.Equal(t, tt.ok, ok)
			if ok {
				require.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSample(t *testing.T) {
	tasks := plan.SampleTasks()
	c := sampleConstraints()

	tests := []struct {
		strategy solver.Strategy
		ids      []string
	}{
		{solver.BruteForce, []string{"T1", "T2", "T3", "T5", "T7"}},
		{solver.DynamicProgramming, []string{"T1", "T2", "T3", "T5", "T7"}},
		{solver.MeetInTheMiddle, []string{"T1", "T2", "T3", "T5", "T7"}},
		{solver.BranchAndBound, []string{"T7", "T1", "T5", "T3", "T2"}},
		{solver.Greedy, []string{"T7", "T1", "T5", "T3", "T2"}},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			r := solver.New().Solve(tasks, c, tt.strategy)
			require.Equal(t, tt.ids, r.IDs())
			require.Equal(t, 51, r.Totals.Value)
			require.Equal(t, 19000, r.Totals.Cost)
			require.Equal(t, 35, r.Totals.Hours)
			require.Equal(t, tt.strategy.String(), r.Info.Strategy)
			require.Equal(t, tt.strategy.Complexity(), r.Info.Complexity)
			require.Empty(t, r.Info.Note)
			require.False(t, r.Info.IsFallback())
		})
	}
}

func TestSample_BitsetSinglePathPerCost(t *testing.T) {
	// Every reachable cost is reconstructed along the first path that reached
	// it. On the sample none of those paths covers all minima within the
	// hours ceiling, so the search comes back empty.
	r := solver.New().Solve(plan.SampleTasks(), sampleConstraints(), solver.BitsetDP)

	require.True(t, r.IsEmpty())
	require.True(t, r.Totals.IsZero())
	require.Equal(t, "Bitset DP", r.Info.Strategy)
	require.NotEmpty(t, r.Info.Note)
}

func TestLoose_AllStrategiesTakeEverything(t *testing.T) {
	tasks := plan.SampleTasks()
	for _, s := range solver.Strategies() {
		r := solver.New().Solve(tasks, looseConstraints(), s)
		require.Equal(t, 80, r.Totals.Value, s.String())
		require.Equal(t, 32000, r.Totals.Cost, s.String())
		require.Equal(t, 55, r.Totals.Hours, s.String())
		require.Len(t, r.Selected, 8, s.String())
	}

	r := solver.New().Solve(tasks, looseConstraints(), solver.BitsetDP)
	require.Equal(t, []string{"T8", "T7", "T6", "T5", "T4", "T3", "T2", "T1"}, r.IDs())
}

func TestDynamicProgramming_HoursApproximation(t *testing.T) {
	tasks, c := hoursTrap()
	e := solver.New()

	exact := e.Solve(tasks, c, solver.BruteForce)
	require.Equal(t, []string{"B", "C"}, exact.IDs())
	require.Equal(t, 18, exact.Totals.Value)

	dp := e.Solve(tasks, c, solver.DynamicProgramming)
	require.Equal(t, []string{"A"}, dp.IDs())
	require.Equal(t, 10, dp.Totals.Value)
	require.Less(t, dp.Totals.Value, exact.Totals.Value)

	require.Equal(t, 18, e.Solve(tasks, c, solver.MeetInTheMiddle).Totals.Value)
	require.Equal(t, 18, e.Solve(tasks, c, solver.BranchAndBound).Totals.Value)
	require.Equal(t, 10, e.Solve(tasks, c, solver.BitsetDP).Totals.Value)
	require.Equal(t, 10, e.Solve(tasks, c, solver.Greedy).Totals.Value)
}

func TestTight_Infeasible(t *testing.T) {
	tasks := plan.SampleTasks()
	for _, s := range solver.Strategies() {
		r := solver.New().Solve(tasks, tightConstraints(), s)
		require.True(t, r.IsEmpty(), s.String())
		require.True(t, r.Totals.IsZero(), s.String())
		require.Len(t, r.Totals.Categories, len(plan.DefaultCategories))
		require.Equal(t, "no feasible solution under current constraints", r.Info.Note, s.String())
	}

	r := solver.New().Solve(tasks, tightConstraints(), solver.BranchAndBound)
	require.Equal(t, "Greedy", r.Info.Strategy)
	require.Equal(t, "Branch & Bound", r.Info.FallbackFrom)
}

func TestZeroBudget(t *testing.T) {
	tasks := plan.SampleTasks()
	c := plan.Constraints{MaxCost: 0, MaxHours: 40}

	for _, s := range []solver.Strategy{solver.DynamicProgramming, solver.BitsetDP} {
		r := solver.New().Solve(tasks, c, s)
		require.True(t, r.IsEmpty())
		require.True(t, r.Totals.IsZero())
		require.Equal(t, s.String(), r.Info.Strategy)
		require.Equal(t, "cost ceiling is zero; nothing is affordable", r.Info.Note)
	}

	// a negative ceiling is degenerate too, not an error
	r := solver.New().Solve(tasks, plan.Constraints{MaxCost: -5, MaxHours: 40}, solver.DynamicProgramming)
	require.True(t, r.IsEmpty())
}

func TestFallback_BruteForceCap(t *testing.T) {
	tasks := uniform(23)
	c := plan.Constraints{MaxCost: 10, MaxHours: 100}

	start := time.Now()
	r := solver.New().Solve(tasks, c, solver.BruteForce)
	require.Less(t, time.Since(start), 5*time.Second)

	require.Equal(t, "Greedy", r.Info.Strategy)
	require.Equal(t, "Brute Force", r.Info.FallbackFrom)
	require.Equal(t, "input exceeds 22 tasks; used greedy heuristic", r.Info.Note)
	require.Equal(t, 10, r.Totals.Value)
	require.Equal(t, []string{"T1", "T2", "T3", "T4", "T5", "T6", "T7", "T8", "T9", "T10"}, r.IDs())
}

func TestFallback_MeetInTheMiddleCap(t *testing.T) {
	tasks := uniform(31)
	c := plan.Constraints{MaxCost: 10, MaxHours: 100}

	r := solver.New().Solve(tasks, c, solver.MeetInTheMiddle)
	require.Equal(t, "Greedy", r.Info.Strategy)
	require.Equal(t, "Meet-in-the-Middle", r.Info.FallbackFrom)
	require.Equal(t, "input exceeds 30 tasks; used greedy heuristic", r.Info.Note)
	require.Equal(t, 10, r.Totals.Value)

	// exactly at the cap it enumerates
	r = solver.New().Solve(uniform(30), c, solver.MeetInTheMiddle)
	require.Equal(t, "Meet-in-the-Middle", r.Info.Strategy)
	require.Equal(t, 10, r.Totals.Value)
}

func TestFallback_ConfiguredCap(t *testing.T) {
	e := solver.New(solver.WithBruteForceCap(4))
	r := e.Solve(plan.SampleTasks(), sampleConstraints(), solver.BruteForce)

	require.Equal(t, "Brute Force", r.Info.FallbackFrom)
	require.Equal(t, "input exceeds 4 tasks; used greedy heuristic", r.Info.Note)
	require.Equal(t, 51, r.Totals.Value)
}

func TestFallback_TableCap(t *testing.T) {
	e := solver.New(solver.WithTableCap(1000))
	for _, s := range []solver.Strategy{solver.DynamicProgramming, solver.BitsetDP} {
		r := e.Solve(plan.SampleTasks(), sampleConstraints(), s)
		require.Equal(t, "Greedy", r.Info.Strategy, s.String())
		require.Equal(t, s.String(), r.Info.FallbackFrom)
		require.Equal(t, "cost ceiling exceeds 1000 table cells; used greedy heuristic", r.Info.Note)
		require.Equal(t, []string{"T7", "T1", "T5", "T3", "T2"}, r.IDs())
	}

	// a huge ceiling must not reach the table allocation
	huge := plan.Constraints{MaxCost: 1 << 40, MaxHours: 40}
	for _, s := range []solver.Strategy{solver.DynamicProgramming, solver.BitsetDP} {
		r := solver.New().Solve(plan.SampleTasks(), huge, s)
		require.Equal(t, s.String(), r.Info.FallbackFrom)
	}

	// at the cap the table runs
	r := solver.New(solver.WithTableCap(19000)).Solve(plan.SampleTasks(), sampleConstraints(), solver.DynamicProgramming)
	require.Equal(t, "Dynamic Programming", r.Info.Strategy)
	require.Equal(t, 51, r.Totals.Value)
}

func TestSolve_UnknownStrategy(t *testing.T) {
	r := solver.Solve(plan.SampleTasks(), sampleConstraints(), "Simulated Annealing")

	require.Equal(t, "Greedy", r.Info.Strategy)
	require.Equal(t, "O(n log n)", r.Info.Complexity)
	require.Equal(t, "Simulated Annealing", r.Info.FallbackFrom)
	require.Contains(t, r.Info.Note, "unknown strategy")
	require.Equal(t, 51, r.Totals.Value)
}

func TestSolve_ByName(t *testing.T) {
	r := solver.Solve(plan.SampleTasks(), sampleConstraints(), "Meet-in-the-Middle")
	require.Equal(t, "Meet-in-the-Middle", r.Info.Strategy)
	require.Equal(t, 51, r.Totals.Value)
}

func TestWithCategories(t *testing.T) {
	e := solver.New(solver.WithCategories(plan.Categories{"FE", "QA"}))

	r := e.Solve(plan.SampleTasks(), tightConstraints(), solver.Greedy)
	require.Equal(t, plan.Amounts{"FE": 0, "QA": 0}, r.Totals.Categories)

	r = e.Solve(plan.SampleTasks(), looseConstraints(), solver.Greedy)
	require.Equal(t, 3, r.Totals.Categories["FE"])
	require.Equal(t, 4, r.Totals.Categories["BE"])
}

func TestGreedy_RatioOrder(t *testing.T) {
	tasks := []plan.Task{
		{ID: "cheap", Cost: 1, Hours: 1, Value: 10},
		{ID: "qa-pricey", Cost: 9, Hours: 1, Value: 1, Categories: plan.Amounts{"QA": 1}},
		{ID: "qa-cheap", Cost: 2, Hours: 1, Value: 1, Categories: plan.Amounts{"QA": 1}},
	}
	c := plan.Constraints{MaxCost: 4, MaxHours: 10, MinCategoryTotals: plan.Amounts{"QA": 1}}

	r := solver.New().Solve(tasks, c, solver.Greedy)
	require.Equal(t, []string{"cheap", "qa-cheap"}, r.IDs())
	require.Equal(t, 11, r.Totals.Value)
}

func TestGreedy_InfeasibleAfterRepair(t *testing.T) {
	tasks := []plan.Task{
		{ID: "fe", Cost: 1, Hours: 1, Value: 1, Categories: plan.Amounts{"FE": 1}},
		{ID: "big", Cost: 100, Hours: 1, Value: 1000},
	}
	c := plan.Constraints{MaxCost: 100, MaxHours: 10, MinCategoryTotals: plan.Amounts{"FE": 2}}

	r := solver.New().Solve(tasks, c, solver.Greedy)
	require.True(t, r.IsEmpty())
	require.Equal(t, "no feasible solution under current constraints", r.Info.Note)
}

func TestBranchAndBound_FreeTasks(t *testing.T) {
	tasks := []plan.Task{
		{ID: "paid", Cost: 10, Hours: 1, Value: 5},
		{ID: "free", Cost: 0, Hours: 1, Value: 3},
		{ID: "noop", Cost: 0, Hours: 0, Value: 0},
	}
	c := plan.Constraints{MaxCost: 10, MaxHours: 10}

	r := solver.New().Solve(tasks, c, solver.BranchAndBound)
	require.Equal(t, []string{"free", "paid"}, r.IDs())
	require.Equal(t, 8, r.Totals.Value)
}

func TestSolveContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range solver.Strategies() {
		_, err := solver.New().SolveContext(ctx, plan.SampleTasks(), sampleConstraints(), s)
		require.ErrorIs(t, err, context.Canceled, s.String())
	}
}

func TestSolveContext_Deadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	_, err := solver.New().SolveNamedContext(ctx, uniform(20), looseConstraints(), "brute-force")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInputsUnchanged(t *testing.T) {
	tasks := plan.SampleTasks()
	c := sampleConstraints()
	for _, s := range solver.Strategies() {
		solver.New().Solve(tasks, c, s)
	}
	require.Equal(t, plan.SampleTasks(), tasks)
	require.Equal(t, sampleConstraints(), c)
}

func TestProperties_Random(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	e := solver.New()

	for iter := 0; iter < 200; iter++ {
		tasks, c := randomInstance(r)
		results := make(map[solver.Strategy]plan.Result)

		for _, s := range solver.Strategies() {
			res := e.Solve(tasks, c, s)
			results[s] = res
			name := fmt.Sprintf("iter %d %s", iter, s)

			// duplicate-free subset of the input
			seen := map[string]bool{}
			for _, sel := range res.Selected {
				require.False(t, seen[sel.ID], name)
				seen[sel.ID] = true
				require.Contains(t, tasks, sel, name)
			}

			// totals always match the selection
			require.Equal(t, plan.Evaluate(plan.DefaultCategories, res.Selected), res.Totals, name)

			// infeasible means canonical empty
			if !plan.IsFullyFeasible(res.Totals, c) {
				require.True(t, res.IsEmpty(), name)
				require.True(t, res.Totals.IsZero(), name)
			}

			// idempotent
			require.Equal(t, res, e.Solve(tasks, c, s), name)
		}

		optimum := results[solver.BruteForce].Totals.Value
		for s, res := range results {
			require.LessOrEqual(t, res.Totals.Value, optimum, "iter %d %s", iter, s)
		}
	}
}

func TestBruteForce_Monotonic(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	e := solver.New()

	for iter := 0; iter < 100; iter++ {
		tasks, c := randomInstance(r)
		base := e.Solve(tasks, c, solver.BruteForce).Totals.Value

		more := c
		more.MaxCost += 1 + r.IntN(50)
		require.GreaterOrEqual(t, e.Solve(tasks, more, solver.BruteForce).Totals.Value, base)

		more = c
		more.MaxHours += 1 + r.IntN(10)
		require.GreaterOrEqual(t, e.Solve(tasks, more, solver.BruteForce).Totals.Value, base)
	}
}

func TestSample_MonotonicInBudget(t *testing.T) {
	tasks := plan.SampleTasks()
	for _, s := range []solver.Strategy{solver.BruteForce, solver.DynamicProgramming} {
		prev := -1
		for budget := 10000; budget <= 40000; budget += 1500 {
			c := sampleConstraints()
			c.MaxCost = budget
			v := solver.New().Solve(tasks, c, s).Totals.Value
			require.GreaterOrEqual(t, v, prev, "%s at %d", s, budget)
			prev = v
		}
	}
}

func TestMeetInTheMiddle_OneCandidatePerLeftSubset(t *testing.T) {
	// Each left subset is joined only with the costliest right subset that
	// fits the remaining hours. With a larger budget that candidate changes
	// and can miss the minima even though a cheaper one would have met them.
	c := sampleConstraints()
	c.MaxCost = 22000

	e := solver.New()
	require.Equal(t, 57, e.Solve(plan.SampleTasks(), c, solver.BruteForce).Totals.Value)

	r := e.Solve(plan.SampleTasks(), c, solver.MeetInTheMiddle)
	require.True(t, r.IsEmpty())
	require.Equal(t, "Meet-in-the-Middle", r.Info.Strategy)
}
