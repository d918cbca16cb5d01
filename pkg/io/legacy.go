package io

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

type legacyTask struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Price  float64        `json:"price"`
	Hours  float64        `json:"hours"`
	Value  float64        `json:"value"`
	Skills map[string]int `json:"skills"`
}

type legacyConstraints struct {
	MaxBudget float64        `json:"maxBudget"`
	MaxHours  float64        `json:"maxHours"`
	MinSkills map[string]int `json:"minSkills"`
}

type legacyInfo struct {
	Name       string `json:"name"`
	Complexity string `json:"complexity"`
	Note       string `json:"note"`
}

type legacyResults struct {
	SelectedTasks []legacyTask `json:"selectedTasks"`
	AlgorithmInfo *legacyInfo  `json:"algorithmInfo"`
}

type legacyState struct {
	Tasks            []legacyTask      `json:"tasks"`
	Constraints      legacyConstraints `json:"constraints"`
	CurrentAlgorithm *string           `json:"currentAlgorithm"`
	Results          *legacyResults    `json:"results"`
}

// legacyFallbackSuffix marks a fallback in a legacy strategy name, as in
// "Brute Force → Greedy (fallback)".
const legacyFallbackSuffix = " → Greedy (fallback)"

// LegacyState is a browser planner state converted to current types.
type LegacyState struct {
	Problem Problem
	// Result is the stored result, with totals recomputed from its tasks. It
	// is nil when the state held no result or the result named no strategy.
	Result *plan.Result
}

// ReadLegacyState decodes a persisted browser planner state, either bare or
// wrapped as {"state": ..., "version": n}. Fractional numbers are truncated.
func ReadLegacyState(r io.Reader, cats plan.Categories) (LegacyState, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return LegacyState{}, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read input")
	}

	var wrapper struct {
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return LegacyState{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode legacy state")
	}
	if len(bytes.TrimSpace(wrapper.State)) > 0 {
		data = wrapper.State
	}

	var st legacyState
	if err := json.Unmarshal(data, &st); err != nil {
		return LegacyState{}, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode legacy state")
	}

	c := plan.Constraints{
		MaxCost:           int(st.Constraints.MaxBudget),
		MaxHours:          int(st.Constraints.MaxHours),
		MinCategoryTotals: skillAmounts(st.Constraints.MinSkills),
	}
	out := LegacyState{
		Problem: Problem{
			Tasks:       make([]plan.Task, len(st.Tasks)),
			Constraints: &c,
		},
	}
	for i, t := range st.Tasks {
		out.Problem.Tasks[i] = t.task()
	}
	if st.CurrentAlgorithm != nil {
		out.Problem.Strategy = *st.CurrentAlgorithm
	}

	if err := plan.ValidateTasks(out.Problem.Tasks); err != nil {
		return LegacyState{}, err
	}
	if err := plan.ValidateConstraints(c); err != nil {
		return LegacyState{}, err
	}

	if st.Results != nil && st.Results.AlgorithmInfo != nil && st.Results.AlgorithmInfo.Name != "" {
		selected := make([]plan.Task, len(st.Results.SelectedTasks))
		for i, t := range st.Results.SelectedTasks {
			selected[i] = t.task()
		}
		r := plan.NewResult(cats, selected, legacyAlgorithmInfo(*st.Results.AlgorithmInfo))
		out.Result = &r
	}
	return out, nil
}

func (t legacyTask) task() plan.Task {
	return plan.Task{
		ID:         t.ID,
		Name:       t.Name,
		Cost:       int(t.Price),
		Hours:      int(t.Hours),
		Value:      int(t.Value),
		Categories: skillAmounts(t.Skills),
	}
}

// skillAmounts converts a skills map, dropping zero entries.
func skillAmounts(skills map[string]int) plan.Amounts {
	out := make(plan.Amounts, len(skills))
	for k, v := range skills {
		if v != 0 {
			out[plan.Category(k)] = v
		}
	}
	return out
}

// legacyAlgorithmInfo splits "X → Greedy (fallback)" names into Strategy and
// FallbackFrom, and restores the complexity label when the legacy one was
// the empty-result dash.
func legacyAlgorithmInfo(li legacyInfo) plan.AlgorithmInfo {
	info := plan.AlgorithmInfo{Strategy: li.Name, Complexity: li.Complexity, Note: li.Note}
	if from, ok := strings.CutSuffix(li.Name, legacyFallbackSuffix); ok {
		info.Strategy = solver.Greedy.String()
		info.FallbackFrom = from
	}
	if s, ok := solver.ParseStrategy(info.Strategy); ok {
		info.Strategy = s.String()
		info.Complexity = s.Complexity()
	}
	return info
}
