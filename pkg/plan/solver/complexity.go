package solver

import (
	"math"

	"github.com/matzehuels/taskplan/pkg/plan"
)

var complexityLabels = [...]string{
	BruteForce:         "O(2^n)",
	DynamicProgramming: "O(n·B)",
	MeetInTheMiddle:    "O(2^(n/2))",
	BranchAndBound:     "O(2^n) (pruned)",
	Greedy:             "O(n log n)",
	BitsetDP:           "O(n·B/word)",
}

// UnknownComplexity is the label reported for names that match no strategy.
const UnknownComplexity = "—"

// Complexity returns the Big-O label of s.
func (s Strategy) Complexity() string {
	if !s.Valid() {
		return UnknownComplexity
	}
	return complexityLabels[s]
}

// Estimate returns the relative theoretical operation count of s for n tasks.
// It is meant for charts only. The budget enters as maxCost/100, clamped to
// 1..1000; exponents are capped at 30.
func (s Strategy) Estimate(n int, c plan.Constraints) float64 {
	fn := float64(n)
	scale := float64(min(max(c.MaxCost/100, 1), 1000))

	switch s {
	case BruteForce:
		return math.Pow(2, math.Min(30, fn))
	case DynamicProgramming:
		return fn * scale
	case MeetInTheMiddle:
		return math.Pow(2, math.Min(30, math.Ceil(fn/2)))
	case BranchAndBound:
		return math.Pow(2, math.Min(30, 0.75*fn))
	case Greedy:
		return fn * math.Log2(math.Max(2, fn))
	case BitsetDP:
		return fn * scale / 32
	default:
		return fn
	}
}

// EstimateCost resolves name and returns its estimate. Unknown names
// estimate as n.
func EstimateCost(name string, n int, c plan.Constraints) float64 {
	s, ok := ParseStrategy(name)
	if !ok {
		return float64(n)
	}
	return s.Estimate(n, c)
}

// ComplexityLabel resolves name and returns its Big-O label, or
// [UnknownComplexity].
func ComplexityLabel(name string) string {
	s, ok := ParseStrategy(name)
	if !ok {
		return UnknownComplexity
	}
	return s.Complexity()
}
