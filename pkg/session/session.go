// Package session holds planning workspaces: a task set, its constraints and
// the most recent solve, persisted between CLI invocations or API calls.
//
// A [Workspace] is plain data with a few mutating helpers that keep it
// consistent. Persistence goes through the [Store] interface, with
// implementations for different backends:
//   - [MemoryStore]: in-process, for tests and a single API replica
//   - [FileStore]: JSON files under ~/.config/taskplan/workspaces, for the CLI
//   - [MongoStore]: a MongoDB collection, for multi-replica API deployments
//
// # Usage
//
//	store, err := session.NewFileStore("")
//	if err != nil {
//	    return err
//	}
//	ws, err := store.Get(ctx, "default")
//	if errors.Is(err, errors.ErrCodeWorkspaceNotFound) {
//	    ws = session.Sample("default")
//	}
//	if err := ws.Run(ctx, engine.SolveNamedContext, "Branch & Bound"); err != nil {
//	    return err
//	}
//	return store.Put(ctx, ws)
package session

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

// Workspace is one persisted planning session.
type Workspace struct {
	ID              string           `json:"id" bson:"_id"`
	Tasks           []plan.Task      `json:"tasks" bson:"tasks"`
	Constraints     plan.Constraints `json:"constraints" bson:"constraints"`
	CurrentStrategy string           `json:"currentStrategy,omitempty" bson:"currentStrategy,omitempty"`
	Result          *plan.Result     `json:"result,omitempty" bson:"result,omitempty"`
	CreatedAt       time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// SolveFunc runs the named strategy. [solver.Engine.SolveNamedContext] and
// the pipeline runner both satisfy it.
type SolveFunc func(ctx context.Context, tasks []plan.Task, c plan.Constraints, strategy string) (plan.Result, error)

// Store is the interface for workspace storage backends.
type Store interface {
	// Get retrieves a workspace by ID. A missing workspace is a
	// WORKSPACE_NOT_FOUND error.
	Get(ctx context.Context, id string) (*Workspace, error)

	// Put creates or replaces a workspace.
	Put(ctx context.Context, w *Workspace) error

	// Delete removes a workspace. Deleting a missing workspace is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored workspaces in sorted order.
	List(ctx context.Context) ([]string, error)

	Close() error
}

// GenerateID returns a random workspace ID.
func GenerateID() string {
	return uuid.NewString()
}

// New returns an empty workspace. An empty id is replaced by a generated one.
func New(id string) *Workspace {
	if id == "" {
		id = GenerateID()
	}
	now := time.Now().UTC()
	return &Workspace{
		ID:        id,
		Tasks:     []plan.Task{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Sample returns a workspace seeded with the demo task set and its
// constraints. No strategy has been run yet.
func Sample(id string) *Workspace {
	w := New(id)
	w.Tasks = plan.SampleTasks()
	w.Constraints = plan.SampleConstraints()
	return w
}

// Task returns the task with the given ID.
func (w *Workspace) Task(id string) (plan.Task, bool) {
	i := w.indexOf(id)
	if i < 0 {
		return plan.Task{}, false
	}
	return w.Tasks[i], true
}

// AddTask appends t and returns it as stored. A task without an ID is given
// the first free "T<k>", counting from the current task count plus one.
// The previous result is left as is until the next run.
func (w *Workspace) AddTask(t plan.Task) (plan.Task, error) {
	if t.ID == "" {
		t.ID = w.nextID()
	}
	next := append(slices.Clip(w.Tasks), t)
	if err := plan.ValidateTasks(next); err != nil {
		return plan.Task{}, err
	}
	w.Tasks = next
	w.touch()
	return t, nil
}

// DeleteTask removes the task with the given ID and reports whether it
// existed.
func (w *Workspace) DeleteTask(id string) bool {
	i := w.indexOf(id)
	if i < 0 {
		return false
	}
	w.Tasks = slices.Delete(slices.Clone(w.Tasks), i, i+1)
	w.touch()
	return true
}

// SetConstraints replaces the constraints. When a strategy has been run
// before, it is run again so the result reflects the new constraints.
func (w *Workspace) SetConstraints(ctx context.Context, c plan.Constraints, solve SolveFunc) error {
	if err := plan.ValidateConstraints(c); err != nil {
		return err
	}
	w.Constraints = c
	w.touch()
	if w.CurrentStrategy == "" || solve == nil {
		return nil
	}
	return w.Run(ctx, solve, w.CurrentStrategy)
}

// Run solves the workspace with the named strategy and replaces the stored
// result. Known strategy names are normalized to their display name.
func (w *Workspace) Run(ctx context.Context, solve SolveFunc, strategy string) error {
	if s, ok := solver.ParseStrategy(strategy); ok {
		strategy = s.String()
	}
	r, err := solve(ctx, w.Tasks, w.Constraints, strategy)
	if err != nil {
		return err
	}
	w.CurrentStrategy = strategy
	w.Result = &r
	w.touch()
	return nil
}

// Clone returns a deep copy.
func (w *Workspace) Clone() *Workspace {
	out := *w
	out.Tasks = cloneTasks(w.Tasks)
	out.Constraints.MinCategoryTotals = cloneAmounts(w.Constraints.MinCategoryTotals)
	if w.Result != nil {
		r := *w.Result
		r.Selected = cloneTasks(r.Selected)
		r.Totals.Categories = cloneAmounts(r.Totals.Categories)
		out.Result = &r
	}
	return &out
}

func (w *Workspace) indexOf(id string) int {
	return slices.IndexFunc(w.Tasks, func(t plan.Task) bool { return t.ID == id })
}

func (w *Workspace) nextID() string {
	for k := len(w.Tasks) + 1; ; k++ {
		id := fmt.Sprintf("T%d", k)
		if w.indexOf(id) < 0 {
			return id
		}
	}
}

func (w *Workspace) touch() {
	w.UpdatedAt = time.Now().UTC()
}

func cloneTasks(tasks []plan.Task) []plan.Task {
	if tasks == nil {
		return nil
	}
	out := make([]plan.Task, len(tasks))
	for i, t := range tasks {
		t.Categories = cloneAmounts(t.Categories)
		out[i] = t
	}
	return out
}

// cloneAmounts keeps nil maps nil so clones compare equal to their source.
func cloneAmounts(a plan.Amounts) plan.Amounts {
	if a == nil {
		return nil
	}
	return a.Clone()
}

func notFound(id string) error {
	return apperrors.New(apperrors.ErrCodeWorkspaceNotFound, "workspace %q not found", id)
}
