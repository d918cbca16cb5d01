package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/taskplan/pkg/cache"
	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/observability"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

// Runner encapsulates solving with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	Engine *solver.Engine

	// Timeout bounds each solve. Zero means no limit beyond the caller's
	// context.
	Timeout time.Duration
	// TTL is how long cached results live.
	TTL time.Duration
	// DefaultStrategy is used for requests that name none.
	DefaultStrategy string
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:           c,
		Keyer:           keyer,
		Logger:          logger,
		Engine:          solver.New(),
		Timeout:         DefaultTimeout,
		TTL:             cache.DefaultTTL,
		DefaultStrategy: DefaultStrategy,
	}
}

// Solve validates the request, returns a cached result when one exists and
// otherwise runs the strategy under the runner's timeout and caches it.
// Cache failures are logged, never returned. A panic during the solve is
// returned as an INTERNAL_ERROR so it cannot take down a server goroutine.
func (r *Runner) Solve(ctx context.Context, req Request) (out *Outcome, err error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	defer func() {
		if p := recover(); p != nil {
			r.Logger.Error("solve panicked", "strategy", strategyLabel(req.Strategy), "panic", p)
			out, err = nil, apperrors.New(apperrors.ErrCodeInternal, "solve with %s panicked: %v", strategyLabel(req.Strategy), p)
		}
	}()
	if req.Strategy == "" {
		req.Strategy = r.DefaultStrategy
	}
	label := strategyLabel(req.Strategy)
	out = &Outcome{
		Strategy: req.Strategy,
		Estimate: solver.EstimateCost(req.Strategy, len(req.Tasks), req.Constraints),
	}
	if s, ok := solver.ParseStrategy(req.Strategy); ok {
		out.Strategy = s.String()
	}

	key := r.Keyer.ResultKey(cache.TasksHash(req.Tasks), r.keyOpts(req))
	if !req.Refresh {
		if res, hit := r.lookup(ctx, key); hit {
			out.Result = res
			out.CacheHit = true
			r.Logger.Debug("cache hit", "strategy", label, "key", key)
			return out, nil
		}
	}

	hooks := observability.Solver()
	hooks.OnSolveStart(ctx, label, len(req.Tasks))
	start := time.Now()

	res, err := r.solve(ctx, req)
	out.Duration = time.Since(start)
	hooks.OnSolveComplete(ctx, label, len(res.Selected), out.Duration, err)
	if err != nil {
		r.Logger.Warn("solve aborted", "strategy", label, "tasks", len(req.Tasks), "err", err)
		return nil, err
	}
	if res.Info.IsFallback() {
		hooks.OnFallback(ctx, strategyLabel(res.Info.FallbackFrom), res.Info.Note)
		r.Logger.Debug("fell back to greedy", "from", res.Info.FallbackFrom, "note", res.Info.Note)
	}
	out.Result = res

	r.store(ctx, key, res)

	r.Logger.Info("solved",
		"strategy", label,
		"tasks", len(req.Tasks),
		"selected", len(res.Selected),
		"value", res.Totals.Value,
		"duration", out.Duration)
	return out, nil
}

// SolveNamed runs one strategy through the runner, caching included. Its
// signature matches session.SolveFunc.
func (r *Runner) SolveNamed(ctx context.Context, tasks []plan.Task, c plan.Constraints, strategy string) (plan.Result, error) {
	out, err := r.Solve(ctx, Request{Tasks: tasks, Constraints: c, Strategy: strategy})
	if err != nil {
		return plan.Result{}, err
	}
	return out.Result, nil
}

// Compare runs every strategy on the same input, one goroutine per strategy,
// and returns the outcomes in the fixed strategy order. The first error
// cancels the remaining solves.
func (r *Runner) Compare(ctx context.Context, tasks []plan.Task, c plan.Constraints) ([]Outcome, error) {
	if err := (Request{Tasks: tasks, Constraints: c}).Validate(); err != nil {
		return nil, err
	}

	strategies := solver.Strategies()
	outs := make([]Outcome, len(strategies))

	g, gctx := errgroup.WithContext(ctx)
	for i, s := range strategies {
		g.Go(func() error {
			out, err := r.Solve(gctx, Request{Tasks: tasks, Constraints: c, Strategy: s.String()})
			if err != nil {
				return err
			}
			outs[i] = *out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) solve(ctx context.Context, req Request) (plan.Result, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	res, err := r.engine().SolveNamedContext(ctx, req.Tasks, req.Constraints, req.Strategy)
	if err != nil {
		return plan.Result{}, apperrors.FromContext(err, "solve with %s", strategyLabel(req.Strategy))
	}
	return res, nil
}

func (r *Runner) lookup(ctx context.Context, key string) (plan.Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, "result")
		return plan.Result{}, false
	}
	var res plan.Result
	if err := json.Unmarshal(data, &res); err != nil {
		// Corrupt entries are recomputed and overwritten.
		hooks.OnCacheMiss(ctx, "result")
		return plan.Result{}, false
	}
	hooks.OnCacheHit(ctx, "result")
	return res, true
}

func (r *Runner) store(ctx context.Context, key string, res plan.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "result", len(data))
}

func (r *Runner) engine() *solver.Engine {
	if r.Engine == nil {
		return solver.New()
	}
	return r.Engine
}

func (r *Runner) keyOpts(req Request) cache.ResultKeyOpts {
	e := r.engine()
	return cache.ResultKeyOpts{
		Strategy:           req.Strategy,
		Constraints:        req.Constraints,
		Categories:         e.Categories.Strings(),
		BruteForceCap:      e.BruteForceCap,
		MeetInTheMiddleCap: e.MeetInTheMiddleCap,
		TableCap:           e.TableCap,
	}
}
