package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/taskplan/pkg/cache"
	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/observability"
	"github.com/matzehuels/taskplan/pkg/plan"
)

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil, log.New(io.Discard))
}

func sampleRequest(strategy string) Request {
	return Request{
		Tasks:       plan.SampleTasks(),
		Constraints: plan.SampleConstraints(),
		Strategy:    strategy,
	}
}

func TestSolve(t *testing.T) {
	r := newTestRunner(t)

	out, err := r.Solve(context.Background(), sampleRequest("bnb"))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if out.Strategy != "Branch & Bound" {
		t.Errorf("Strategy = %q", out.Strategy)
	}
	if got, want := out.Result.IDs(), []string{"T7", "T1", "T5", "T3", "T2"}; !slices.Equal(got, want) {
		t.Errorf("IDs = %v, want %v", got, want)
	}
	if out.CacheHit {
		t.Error("first solve reported a cache hit")
	}
	if out.Estimate <= 0 {
		t.Errorf("Estimate = %v", out.Estimate)
	}
}

func TestSolveCaches(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	first, err := r.Solve(ctx, sampleRequest("Brute Force"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Solve(ctx, sampleRequest("brute-force"))
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatal("second solve missed the cache")
	}
	if !reflect.DeepEqual(first.Result, second.Result) {
		t.Errorf("cached result differs:\n%+v\n%+v", first.Result, second.Result)
	}

	refreshed := sampleRequest("Brute Force")
	refreshed.Refresh = true
	third, err := r.Solve(ctx, refreshed)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh used the cache")
	}

	other, err := r.Solve(ctx, sampleRequest("Dynamic Programming"))
	if err != nil {
		t.Fatal(err)
	}
	if other.CacheHit {
		t.Error("a different strategy hit the cached result")
	}

	looser := sampleRequest("Brute Force")
	looser.Constraints.MaxCost = 40000
	if out, _ := r.Solve(ctx, looser); out.CacheHit {
		t.Error("different constraints hit the cached result")
	}
}

func TestSolveDefaultStrategy(t *testing.T) {
	r := newTestRunner(t)
	r.DefaultStrategy = "Greedy"

	out, err := r.Solve(context.Background(), sampleRequest(""))
	if err != nil {
		t.Fatal(err)
	}
	if out.Strategy != "Greedy" || out.Result.Info.Strategy != "Greedy" {
		t.Errorf("strategy = %q / %q, want Greedy", out.Strategy, out.Result.Info.Strategy)
	}
}

func TestSolveUnknownStrategy(t *testing.T) {
	r := newTestRunner(t)

	out, err := r.Solve(context.Background(), sampleRequest("simulated annealing"))
	if err != nil {
		t.Fatal(err)
	}
	if out.Strategy != "simulated annealing" {
		t.Errorf("Strategy = %q", out.Strategy)
	}
	if out.Result.Info.FallbackFrom != "simulated annealing" || out.Result.Info.Strategy != "Greedy" {
		t.Errorf("Info = %+v", out.Result.Info)
	}
}

func TestSolveInvalid(t *testing.T) {
	r := newTestRunner(t)
	ctx := context.Background()

	req := sampleRequest("Greedy")
	req.Tasks = append(req.Tasks, plan.Task{ID: "T1"})
	if _, err := r.Solve(ctx, req); !apperrors.Is(err, apperrors.ErrCodeInvalidTask) {
		t.Errorf("duplicate id error = %v, want INVALID_TASK", err)
	}

	req = sampleRequest("Greedy")
	req.Constraints.MaxHours = -5
	if _, err := r.Solve(ctx, req); !apperrors.Is(err, apperrors.ErrCodeInvalidConstraints) {
		t.Errorf("negative hours error = %v, want INVALID_CONSTRAINTS", err)
	}
}

func TestSolveContextErrors(t *testing.T) {
	r := newTestRunner(t)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Solve(canceled, sampleRequest("Brute Force")); !apperrors.Is(err, apperrors.ErrCodeCanceled) {
		t.Errorf("canceled error = %v, want CANCELED", err)
	}

	expired, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()
	_, err := r.Solve(expired, sampleRequest("Brute Force"))
	if !apperrors.Is(err, apperrors.ErrCodeTimeout) {
		t.Errorf("expired error = %v, want TIMEOUT", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("timeout error does not wrap context.DeadlineExceeded")
	}
}

func TestSolveNamed(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.SolveNamed(context.Background(), plan.SampleTasks(), plan.SampleConstraints(), "mitm")
	if err != nil {
		t.Fatal(err)
	}
	if res.Totals.Value != 51 {
		t.Errorf("Value = %d, want 51", res.Totals.Value)
	}
}

func TestCompare(t *testing.T) {
	r := newTestRunner(t)

	outs, err := r.Compare(context.Background(), plan.SampleTasks(), plan.SampleConstraints())
	if err != nil {
		t.Fatal(err)
	}

	want := []struct {
		strategy string
		value    int
	}{
		{"Brute Force", 51},
		{"Dynamic Programming", 51},
		{"Meet-in-the-Middle", 51},
		{"Branch & Bound", 51},
		{"Greedy", 51},
		{"Bitset DP", 0},
	}
	if len(outs) != len(want) {
		t.Fatalf("got %d outcomes, want %d", len(outs), len(want))
	}
	for i, w := range want {
		if outs[i].Strategy != w.strategy || outs[i].Result.Totals.Value != w.value {
			t.Errorf("outcome %d = %s/%d, want %s/%d", i, outs[i].Strategy, outs[i].Result.Totals.Value, w.strategy, w.value)
		}
	}
}

func TestCompareInvalid(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.Compare(context.Background(), []plan.Task{{ID: ""}}, plan.SampleConstraints())
	if !apperrors.Is(err, apperrors.ErrCodeInvalidTask) {
		t.Errorf("error = %v, want INVALID_TASK", err)
	}
}

func TestEstimates(t *testing.T) {
	c := plan.Constraints{MaxCost: 19000}
	es := Estimates(20, c)
	if len(es) != 6 {
		t.Fatalf("len = %d, want 6", len(es))
	}
	if es[0].Strategy != "Brute Force" || es[0].Cost != 1<<20 || es[0].Complexity != "O(2^n)" {
		t.Errorf("first estimate = %+v", es[0])
	}
	if es[5].Slug != "bitset" {
		t.Errorf("last slug = %q", es[5].Slug)
	}

	e, err := EstimateFor("dp", 10, c)
	if err != nil || e.Cost != 1900 {
		t.Errorf("EstimateFor(dp) = %+v, %v", e, err)
	}
	if _, err := EstimateFor("annealing", 10, c); !apperrors.Is(err, apperrors.ErrCodeUnknownStrategy) {
		t.Errorf("unknown error = %v, want UNKNOWN_STRATEGY", err)
	}
	if _, err := EstimateFor("dp", -1, c); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("negative n error = %v, want INVALID_INPUT", err)
	}
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("down")
}

func (failingCache) Delete(context.Context, string) error { return nil }
func (failingCache) Close() error                         { return nil }

func TestSolveSurvivesCacheFailure(t *testing.T) {
	r := NewRunner(failingCache{}, nil, log.New(io.Discard))
	out, err := r.Solve(context.Background(), sampleRequest("Greedy"))
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if out.Result.Totals.Value != 51 {
		t.Errorf("Value = %d", out.Result.Totals.Value)
	}
}

type recordingHooks struct {
	observability.NoopSolverHooks
	observability.NoopCacheHooks

	mu        sync.Mutex
	events    []string
	fallbacks []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnSolveComplete(_ context.Context, strategy string, selected int, _ time.Duration, err error) {
	h.record(fmt.Sprintf("solve:%s:%d:%v", strategy, selected, err != nil))
}

func (h *recordingHooks) OnFallback(_ context.Context, from, _ string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fallbacks = append(h.fallbacks, from)
}

func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.record("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.record("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.record("set") }

func TestSolveHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetSolverHooks(hooks)
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	r := newTestRunner(t)
	ctx := context.Background()
	for range 2 {
		if _, err := r.Solve(ctx, sampleRequest("Greedy")); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{"miss", "solve:Greedy:5:false", "set", "hit"}
	if !slices.Equal(hooks.events, want) {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}

	big := make([]plan.Task, 23)
	for i := range big {
		big[i] = plan.Task{ID: fmt.Sprintf("t%d", i), Cost: 1, Hours: 1, Value: 1}
	}
	req := Request{Tasks: big, Constraints: plan.Constraints{MaxCost: 100, MaxHours: 100}, Strategy: "Brute Force"}
	if _, err := r.Solve(ctx, req); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(hooks.fallbacks, []string{"Brute Force"}) {
		t.Errorf("fallbacks = %v", hooks.fallbacks)
	}
}

// panickingHooks blows up when one strategy starts.
type panickingHooks struct {
	observability.NoopSolverHooks
	strategy string
}

func (h panickingHooks) OnSolveStart(_ context.Context, strategy string, _ int) {
	if strategy == h.strategy {
		panic("boom")
	}
}

func TestSolveRecoversPanic(t *testing.T) {
	observability.SetSolverHooks(panickingHooks{strategy: "Bitset DP"})
	defer observability.Reset()

	r := newTestRunner(t)
	ctx := context.Background()

	_, err := r.Solve(ctx, sampleRequest("bitset"))
	if !apperrors.Is(err, apperrors.ErrCodeInternal) {
		t.Errorf("Solve error = %v, want INTERNAL_ERROR", err)
	}

	_, err = r.Compare(ctx, plan.SampleTasks(), plan.SampleConstraints())
	if !apperrors.Is(err, apperrors.ErrCodeInternal) {
		t.Errorf("Compare error = %v, want INTERNAL_ERROR", err)
	}

	out, err := r.Solve(ctx, sampleRequest("Greedy"))
	if err != nil || out.Result.Totals.Value != 51 {
		t.Errorf("Greedy after panic = %+v, %v", out, err)
	}
}

func TestCompareLargeCostCeiling(t *testing.T) {
	r := newTestRunner(t)
	c := plan.Constraints{MaxCost: plan.MaxAmount, MaxHours: 40}

	outs, err := r.Compare(context.Background(), plan.SampleTasks(), c)
	if err != nil {
		t.Fatal(err)
	}
	for _, o := range outs {
		if o.Strategy == "Dynamic Programming" || o.Strategy == "Bitset DP" {
			if o.Result.Info.FallbackFrom != o.Strategy {
				t.Errorf("%s: FallbackFrom = %q, want table fallback", o.Strategy, o.Result.Info.FallbackFrom)
			}
		}
	}
}
