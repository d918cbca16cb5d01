// Package pipeline provides the solve pipeline shared by the CLI and the API.
//
// This package wraps the solver engine with everything an entry point needs
// around a solve: input validation, a deadline, result caching, logging and
// observability hooks. By centralizing this logic, the CLI and the API
// behave the same for the same input.
//
// # Usage
//
// Create a Runner and solve:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	out, err := runner.Solve(ctx, pipeline.Request{
//	    Tasks:       tasks,
//	    Constraints: constraints,
//	    Strategy:    "Branch & Bound",
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(out.Result.Totals.Value)
//
// Run every strategy on the same input:
//
//	outs, err := runner.Compare(ctx, tasks, constraints)
package pipeline

import (
	"time"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultTimeout bounds a single solve.
const DefaultTimeout = 30 * time.Second

// DefaultStrategy is used when a request names none.
var DefaultStrategy = solver.BranchAndBound.String()

// =============================================================================
// Request / Outcome
// =============================================================================

// Request is one solve. This struct supports JSON serialization for API
// requests.
type Request struct {
	Tasks       []plan.Task      `json:"tasks"`
	Constraints plan.Constraints `json:"constraints"`
	// Strategy is a display name or slug. Unknown names run Greedy with a
	// note, like the solver does.
	Strategy string `json:"strategy,omitempty"`
	// Refresh skips the cache lookup; the fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`
}

// Validate checks the task set and the constraints.
func (r Request) Validate() error {
	if err := plan.ValidateTasks(r.Tasks); err != nil {
		return err
	}
	return plan.ValidateConstraints(r.Constraints)
}

// Outcome is the result of one solve plus how it was obtained.
type Outcome struct {
	// Strategy is the display name of the requested strategy, or the request
	// string as given when it names no strategy.
	Strategy string        `json:"strategy"`
	Result   plan.Result   `json:"result"`
	Duration time.Duration `json:"durationNs"`
	CacheHit bool          `json:"cacheHit"`
	// Estimate is the relative theoretical cost for the input size.
	Estimate float64 `json:"estimate"`
}

// Estimate is one strategy's theoretical cost for an input size.
type Estimate struct {
	Strategy   string  `json:"strategy"`
	Slug       string  `json:"slug"`
	Complexity string  `json:"complexity"`
	Cost       float64 `json:"cost"`
}

// Estimates returns the estimate of every strategy for n tasks, in the fixed
// strategy order.
func Estimates(n int, c plan.Constraints) []Estimate {
	out := make([]Estimate, 0, len(solver.Strategies()))
	for _, s := range solver.Strategies() {
		out = append(out, estimateOf(s, n, c))
	}
	return out
}

// EstimateFor returns the estimate of the named strategy. Unlike solving,
// an unknown name is an error here.
func EstimateFor(name string, n int, c plan.Constraints) (Estimate, error) {
	s, ok := solver.ParseStrategy(name)
	if !ok {
		return Estimate{}, apperrors.New(apperrors.ErrCodeUnknownStrategy,
			"unknown strategy %q (known: %v)", name, solver.Names())
	}
	if n < 0 {
		return Estimate{}, apperrors.New(apperrors.ErrCodeInvalidInput, "task count must not be negative")
	}
	return estimateOf(s, n, c), nil
}

func estimateOf(s solver.Strategy, n int, c plan.Constraints) Estimate {
	return Estimate{
		Strategy:   s.String(),
		Slug:       s.Slug(),
		Complexity: s.Complexity(),
		Cost:       s.Estimate(n, c),
	}
}

// strategyLabel normalizes a requested name for logs and metric labels,
// keeping label cardinality bounded.
func strategyLabel(name string) string {
	if s, ok := solver.ParseStrategy(name); ok {
		return s.String()
	}
	return "unknown"
}
