// Package pkg provides the libraries behind taskplan, a task selector that
// picks the most valuable subset of tasks under cost and hours ceilings and
// per-category coverage minima.
//
// # Overview
//
// The pkg directory is organized into three areas:
//
//  1. Domain - [plan] types and feasibility checks, [plan/solver] strategies
//  2. Orchestration - [pipeline] (validate, cache, solve, observe), [session]
//     workspaces and their stores
//  3. Infrastructure - [cache], [config], [errors], [io], [observability],
//     [api], [buildinfo]
//
// # Architecture
//
// The typical data flow through taskplan:
//
//	Problem file (JSON/YAML) or API request
//	         ↓
//	    [io] package (decode + validate)
//	         ↓
//	    [pipeline] package (cache lookup, deadline, hooks)
//	         ↓
//	    [plan/solver] package (one of six strategies)
//	         ↓
//	    plan.Result (selected tasks, totals, algorithm info)
//
// # Quick Start
//
// Solve the sample data with Branch & Bound:
//
//	import (
//	    "github.com/matzehuels/taskplan/pkg/plan"
//	    "github.com/matzehuels/taskplan/pkg/plan/solver"
//	)
//
//	res := solver.Solve(plan.SampleTasks(), plan.SampleConstraints(), "Branch & Bound")
//	fmt.Println(res.IDs(), res.Totals.Value)
//
// Solve through the pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	out, err := runner.Solve(ctx, pipeline.Request{Tasks: tasks, Constraints: c})
//
// # Main Packages
//
// [plan/solver] - Brute Force, Dynamic Programming, Meet-in-the-Middle,
// Branch & Bound, Greedy and Bitset DP, plus complexity labels and relative
// cost estimates. Exhaustive strategies hand over to Greedy above their size
// caps and say so in the result's note.
//
// [session] - Workspaces: a task set, constraints, the last strategy and its
// result. Stored in memory, as JSON files, or in MongoDB.
//
// [cache] - Result cache with file, Redis and null backends.
//
// [observability] - Hook interfaces for solves, cache events and HTTP
// requests, with a Prometheus implementation.
//
// [api] - The HTTP API served by `taskplan serve`.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/plan/solver/...        # Specific package
//
// Set TASKPLAN_TEST_MONGO_URI to run the MongoDB store tests.
//
// [plan]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/plan
// [plan/solver]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/plan/solver
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/pipeline
// [session]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/session
// [cache]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/errors
// [io]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/io
// [observability]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/observability
// [api]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/api
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/taskplan/pkg/buildinfo
package pkg
