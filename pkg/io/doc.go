// Package io reads and writes task sets, problems and results.
//
// # Formats
//
// Task sets and problems are accepted as JSON or YAML; [FormatFromPath]
// picks one from the file extension. Results are written as JSON in the
// shape the HTTP API returns.
//
// A problem document bundles tasks with optional constraints and a default
// strategy:
//
//	constraints:
//	  maxCost: 19000
//	  maxHours: 40
//	  minCategoryTotals: {FE: 2, QA: 1}
//	strategy: bnb
//	tasks:
//	  - {id: T1, name: UI Design, cost: 3000, hours: 6, value: 8, categories: {D: 1}}
//
// A bare list of tasks is accepted wherever a problem is, and yields a
// problem without constraints.
//
// # Legacy state
//
// [ReadLegacyState] imports the planner state persisted by the earlier
// browser version of the tool, where cost was called "price", categories
// "skills" and the cost ceiling "maxBudget".
//
// All decoders validate what they read with [plan.ValidateTasks] and
// [plan.ValidateConstraints].
package io
