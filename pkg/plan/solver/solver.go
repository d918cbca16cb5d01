package solver

import (
	"context"
	"fmt"
	"strings"

	"github.com/matzehuels/taskplan/pkg/plan"
)

// Strategy identifies one solving strategy.
type Strategy int

// Strategies in their fixed listing order.
const (
	BruteForce Strategy = iota
	DynamicProgramming
	MeetInTheMiddle
	BranchAndBound
	Greedy
	BitsetDP
)

var strategyNames = [...]string{
	BruteForce:         "Brute Force",
	DynamicProgramming: "Dynamic Programming",
	MeetInTheMiddle:    "Meet-in-the-Middle",
	BranchAndBound:     "Branch & Bound",
	Greedy:             "Greedy",
	BitsetDP:           "Bitset DP",
}

var strategySlugs = [...]string{
	BruteForce:         "brute-force",
	DynamicProgramming: "dp",
	MeetInTheMiddle:    "mitm",
	BranchAndBound:     "bnb",
	Greedy:             "greedy",
	BitsetDP:           "bitset",
}

// Valid reports whether s is one of the six known strategies.
func (s Strategy) Valid() bool {
	return s >= BruteForce && s <= BitsetDP
}

// String returns the display name, e.g. "Branch & Bound".
func (s Strategy) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
	return strategyNames[s]
}

// Slug returns the short command-line name, e.g. "bnb".
func (s Strategy) Slug() string {
	if !s.Valid() {
		return ""
	}
	return strategySlugs[s]
}

// Strategies returns all strategies in their fixed order.
func Strategies() []Strategy {
	return []Strategy{BruteForce, DynamicProgramming, MeetInTheMiddle, BranchAndBound, Greedy, BitsetDP}
}

// Names returns the display names of all strategies in their fixed order.
func Names() []string {
	out := make([]string, 0, len(strategyNames))
	for _, s := range Strategies() {
		out = append(out, s.String())
	}
	return out
}

// ParseStrategy resolves a display name or slug, ignoring case and
// surrounding space.
func ParseStrategy(name string) (Strategy, bool) {
	name = strings.TrimSpace(name)
	for _, s := range Strategies() {
		if strings.EqualFold(name, s.String()) || strings.EqualFold(name, s.Slug()) {
			return s, true
		}
	}
	return 0, false
}

// Default size caps above which the exhaustive strategies hand over to Greedy.
const (
	DefaultBruteForceCap      = 22
	DefaultMeetInTheMiddleCap = 30
)

// DefaultTableCap is the largest cost ceiling the table strategies (Dynamic
// Programming and Bitset DP) allocate cells for. Larger ceilings run Greedy.
const DefaultTableCap = 1 << 21

// Engine runs strategies against a fixed category set and size caps.
// An Engine holds no state between calls and is safe for concurrent use.
type Engine struct {
	Categories         plan.Categories
	BruteForceCap      int
	MeetInTheMiddleCap int
	// TableCap bounds MaxCost for the table strategies.
	TableCap int
}

// Option configures an [Engine].
type Option func(*Engine)

// WithCategories sets the category set reported in every result's totals.
func WithCategories(cats plan.Categories) Option {
	return func(e *Engine) {
		if len(cats) > 0 {
			e.Categories = cats
		}
	}
}

// WithBruteForceCap sets the largest input Brute Force enumerates.
func WithBruteForceCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.BruteForceCap = n
		}
	}
}

// WithMeetInTheMiddleCap sets the largest input Meet-in-the-Middle enumerates.
// Values above 62 are clamped.
func WithMeetInTheMiddleCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.MeetInTheMiddleCap = min(n, 62)
		}
	}
}

// WithTableCap sets the largest cost ceiling the table strategies accept.
func WithTableCap(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.TableCap = n
		}
	}
}

// New returns an Engine with the default categories and caps.
func New(opts ...Option) *Engine {
	e := &Engine{
		Categories:         plan.DefaultCategories,
		BruteForceCap:      DefaultBruteForceCap,
		MeetInTheMiddleCap: DefaultMeetInTheMiddleCap,
		TableCap:           DefaultTableCap,
	}
	for _, opt := range opts {
		opt(e)
	}
	// brute force masks are uint64
	e.BruteForceCap = min(e.BruteForceCap, 62)
	return e
}

var defaultEngine = New()

// Solve runs the named strategy with the default engine. Unknown names run
// Greedy with FallbackFrom set to the name.
func Solve(tasks []plan.Task, c plan.Constraints, name string) plan.Result {
	return defaultEngine.SolveNamed(tasks, c, name)
}

// Solve runs s to completion.
func (e *Engine) Solve(tasks []plan.Task, c plan.Constraints, s Strategy) plan.Result {
	r, _ := e.SolveContext(context.Background(), tasks, c, s)
	return r
}

// SolveNamed resolves name with [ParseStrategy] and runs it. Unknown names
// run Greedy with FallbackFrom set to the name.
func (e *Engine) SolveNamed(tasks []plan.Task, c plan.Constraints, name string) plan.Result {
	r, _ := e.SolveNamedContext(context.Background(), tasks, c, name)
	return r
}

// SolveNamedContext is [Engine.SolveNamed] with cancellation.
func (e *Engine) SolveNamedContext(ctx context.Context, tasks []plan.Task, c plan.Constraints, name string) (plan.Result, error) {
	s, ok := ParseStrategy(name)
	if !ok {
		in := newInstance(ctx, e.categories(), tasks, c)
		return greedy(in, name, fmt.Sprintf("unknown strategy %q; used greedy heuristic", name)), nil
	}
	return e.SolveContext(ctx, tasks, c, s)
}

// SolveContext runs s, returning ctx.Err() if the context ends first.
// Neither tasks nor c are modified.
func (e *Engine) SolveContext(ctx context.Context, tasks []plan.Task, c plan.Constraints, s Strategy) (plan.Result, error) {
	if err := ctx.Err(); err != nil {
		return plan.Result{}, err
	}
	in := newInstance(ctx, e.categories(), tasks, c)

	switch s {
	case BruteForce:
		if len(tasks) > e.BruteForceCap {
			return greedy(in, s.String(), capNote(e.BruteForceCap)), nil
		}
		return bruteForce(in)
	case DynamicProgramming:
		if c.MaxCost > e.tableCap() {
			return greedy(in, s.String(), tableNote(e.tableCap())), nil
		}
		return dynamicProgramming(in)
	case MeetInTheMiddle:
		if len(tasks) > e.MeetInTheMiddleCap {
			return greedy(in, s.String(), capNote(e.MeetInTheMiddleCap)), nil
		}
		return meetInTheMiddle(in)
	case BranchAndBound:
		return branchAndBound(in)
	case Greedy:
		return greedy(in, "", ""), nil
	case BitsetDP:
		if c.MaxCost > e.tableCap() {
			return greedy(in, s.String(), tableNote(e.tableCap())), nil
		}
		return bitsetDP(in)
	default:
		return greedy(in, s.String(), fmt.Sprintf("unknown strategy %q; used greedy heuristic", s.String())), nil
	}
}

func (e *Engine) categories() plan.Categories {
	if len(e.Categories) == 0 {
		return plan.DefaultCategories
	}
	return e.Categories
}

func (e *Engine) tableCap() int {
	if e.TableCap <= 0 {
		return DefaultTableCap
	}
	return e.TableCap
}

const (
	noteInfeasible = "no feasible solution under current constraints"
	noteNoBudget   = "cost ceiling is zero; nothing is affordable"
	noteNoExact    = "no feasible exact solution; used greedy heuristic"
)

func capNote(limit int) string {
	return fmt.Sprintf("input exceeds %d tasks; used greedy heuristic", limit)
}

func tableNote(limit int) string {
	return fmt.Sprintf("cost ceiling exceeds %d table cells; used greedy heuristic", limit)
}
