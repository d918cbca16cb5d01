// Package solver implements the task-selection strategies.
//
// Six strategies share one signature: given a task set and constraints they
// return a [plan.Result]. They differ in cost and in what they guarantee:
//
//   - [BruteForce] enumerates every subset. Exact, capped at 22 tasks.
//   - [DynamicProgramming] fills a table indexed by cost. Each cell keeps a
//     single hours figure, so it can miss combinations that a full
//     cost-by-hours table would find. This approximation is intentional.
//   - [MeetInTheMiddle] enumerates both halves and joins them by binary
//     search on cost. Capped at 30 tasks.
//   - [BranchAndBound] runs a depth-first include/exclude search pruned by
//     an optimistic value bound. It falls back to Greedy when it finds
//     nothing feasible.
//   - [Greedy] takes tasks by value-to-cost ratio, then repairs category
//     deficits.
//   - [BitsetDP] tracks reachable costs in a bit-array and reconstructs one
//     subset per reachable cost.
//
// Infeasibility, oversized inputs and unknown strategy names are never
// errors. They surface in [plan.AlgorithmInfo]: an empty result with a note,
// or a Greedy result whose FallbackFrom names the requested strategy.
//
// # Cancellation
//
// [Engine.SolveContext] checks the context every 4096 search steps and
// returns its error when it is done. The plain [Engine.Solve] never fails.
//
// # Complexity estimates
//
// [EstimateCost] and [ComplexityLabel] describe each strategy's theoretical
// growth for charts and comparison tables. They never influence solving.
package solver
