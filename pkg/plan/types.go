package plan

import (
	"maps"
	"slices"
)

// Category identifies one coverage dimension (e.g. "FE" or "QA").
type Category string

// Categories is the ordered category set tracked by a deployment.
type Categories []Category

// DefaultCategories is the category set used when none is configured.
var DefaultCategories = Categories{"D", "FE", "BE", "DevOps", "QA"}

// Contains reports whether c is part of the set.
func (cs Categories) Contains(c Category) bool {
	return slices.Contains(cs, c)
}

// Strings returns the category keys as plain strings.
func (cs Categories) Strings() []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = string(c)
	}
	return out
}

// ParseCategories converts plain strings into a category set.
func ParseCategories(keys []string) Categories {
	out := make(Categories, len(keys))
	for i, k := range keys {
		out[i] = Category(k)
	}
	return out
}

// Amounts maps categories to non-negative quantities. It is used both for a
// task's contribution and for per-category totals and minima.
type Amounts map[Category]int

// Get returns the amount for c, treating a missing key as zero.
func (a Amounts) Get(c Category) int {
	return a[c]
}

// Keys returns the keys in sorted order.
func (a Amounts) Keys() []Category {
	return slices.Sorted(maps.Keys(a))
}

// Clone returns an independent copy. A nil map clones to an empty map.
func (a Amounts) Clone() Amounts {
	out := make(Amounts, len(a))
	maps.Copy(out, a)
	return out
}

// Input bounds. With at most MaxTasks tasks of at most MaxAmount each, every
// subset total fits in an int64.
const (
	MaxAmount = 1_000_000_000_000
	MaxTasks  = 1 << 20
)

// Task is a selectable unit of work.
type Task struct {
	ID         string  `json:"id" yaml:"id" validate:"required,max=128"`
	Name       string  `json:"name" yaml:"name" validate:"max=256"`
	Cost       int     `json:"cost" yaml:"cost" validate:"gte=0,lte=1000000000000"`
	Hours      int     `json:"hours" yaml:"hours" validate:"gte=0,lte=1000000000000"`
	Value      int     `json:"value" yaml:"value" validate:"gte=0,lte=1000000000000"`
	Categories Amounts `json:"categories,omitempty" yaml:"categories,omitempty" validate:"dive,keys,required,endkeys,gte=0,lte=1000000000000"`
}

// Constraints bound a selection.
type Constraints struct {
	MaxCost           int     `json:"maxCost" yaml:"maxCost" validate:"gte=0,lte=1000000000000"`
	MaxHours          int     `json:"maxHours" yaml:"maxHours" validate:"gte=0,lte=1000000000000"`
	MinCategoryTotals Amounts `json:"minCategoryTotals,omitempty" yaml:"minCategoryTotals,omitempty" validate:"dive,keys,required,endkeys,gte=0,lte=1000000000000"`
}

// Totals aggregates a subset of tasks. Totals are always recomputed from the
// subset with [Evaluate], never adjusted in place.
type Totals struct {
	Value      int     `json:"totalValue"`
	Cost       int     `json:"totalCost"`
	Hours      int     `json:"totalHours"`
	Categories Amounts `json:"totalCategories"`
}

// IsZero reports whether every aggregate is zero.
func (t Totals) IsZero() bool {
	if t.Value != 0 || t.Cost != 0 || t.Hours != 0 {
		return false
	}
	for _, v := range t.Categories {
		if v != 0 {
			return false
		}
	}
	return true
}

// AlgorithmInfo describes how a result was produced.
type AlgorithmInfo struct {
	// Strategy is the display name of the strategy that produced the result.
	Strategy string `json:"strategy"`
	// Complexity is the Big-O label of that strategy.
	Complexity string `json:"complexity"`
	// Note flags fallbacks and infeasibility.
	Note string `json:"note,omitempty"`
	// FallbackFrom names the strategy that was requested when Greedy ran in
	// its place.
	FallbackFrom string `json:"fallbackFrom,omitempty"`
}

// IsFallback reports whether the result was produced by a substitute strategy.
func (a AlgorithmInfo) IsFallback() bool {
	return a.FallbackFrom != ""
}

// Result is the outcome of one solve.
type Result struct {
	Selected []Task        `json:"selectedTasks"`
	Totals   Totals        `json:"totals"`
	Info     AlgorithmInfo `json:"algorithmInfo"`
}

// IsEmpty reports whether no task was selected.
func (r Result) IsEmpty() bool {
	return len(r.Selected) == 0
}

// IDs returns the IDs of the selected tasks in selection order.
func (r Result) IDs() []string {
	ids := make([]string, len(r.Selected))
	for i, t := range r.Selected {
		ids[i] = t.ID
	}
	return ids
}

// EmptyResult returns the canonical no-solution result: no tasks and zero
// totals with every configured category present.
func EmptyResult(cats Categories, info AlgorithmInfo) Result {
	return Result{
		Selected: []Task{},
		Totals:   Evaluate(cats, nil),
		Info:     info,
	}
}

// NewResult builds a result from the selected tasks, recomputing the totals.
func NewResult(cats Categories, selected []Task, info AlgorithmInfo) Result {
	if selected == nil {
		selected = []Task{}
	}
	return Result{
		Selected: selected,
		Totals:   Evaluate(cats, selected),
		Info:     info,
	}
}
