// Package plan defines the task-selection problem and the primitives shared by
// every solving strategy.
//
// # Overview
//
// A plan selects a subset of [Task] values under three simultaneous
// constraints described by [Constraints]:
//
//   - a ceiling on total cost
//   - a ceiling on total effort in hours
//   - a minimum total per category ("skill minima")
//
// The package provides the data model, the [Evaluate] function that aggregates
// any candidate subset into [Totals], and the feasibility predicates
// [FitsCaps], [MeetsCategoryMinima] and [IsFullyFeasible]. The strategies
// themselves live in the solver subpackage.
//
// # Categories
//
// Category keys are plain strings wrapped in [Category]. The set of categories
// a deployment tracks is configuration, passed around as [Categories]. The
// evaluator always reports every configured category (at zero when no task
// contributes to it), and still sums keys that fall outside the configured set.
//
// # Results
//
// A [Result] is a sub-collection of the input tasks, its recomputed [Totals]
// and an [AlgorithmInfo] describing which strategy produced it. The canonical
// "no solution" value is built with [EmptyResult]: zero totals, no tasks, and
// a note explaining why.
//
// # Concurrency
//
// All functions are pure. Tasks and constraints are never mutated, so the
// same inputs can be shared across goroutines.
package plan
