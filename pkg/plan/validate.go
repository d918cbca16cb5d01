package plan

import (
	apperrors "github.com/matzehuels/taskplan/pkg/errors"
)

// ValidateTasks checks a task set before it reaches a solver: every task must
// pass its field rules, IDs must be unique and category keys well-formed.
// Solvers themselves never fail; this runs at input boundaries only.
func ValidateTasks(tasks []Task) error {
	if len(tasks) > MaxTasks {
		return apperrors.New(apperrors.ErrCodeInvalidTask, "%d tasks exceed the limit of %d", len(tasks), MaxTasks)
	}
	seen := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if err := apperrors.ValidateStruct(apperrors.ErrCodeInvalidTask, t); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidTask, err, "task %d (%q)", i, t.ID)
		}
		if j, dup := seen[t.ID]; dup {
			return apperrors.New(apperrors.ErrCodeInvalidTask, "duplicate task id %q at positions %d and %d", t.ID, j, i)
		}
		seen[t.ID] = i
		for c := range t.Categories {
			if err := apperrors.ValidateCategoryKey(string(c)); err != nil {
				return apperrors.Wrap(apperrors.ErrCodeInvalidTask, err, "task %q", t.ID)
			}
		}
	}
	return nil
}

// ValidateConstraints checks that the ceilings and minima lie in
// [0, MaxAmount] and that every minimum names a well-formed category.
func ValidateConstraints(c Constraints) error {
	if err := apperrors.ValidateStruct(apperrors.ErrCodeInvalidConstraints, c); err != nil {
		return err
	}
	for cat := range c.MinCategoryTotals {
		if err := apperrors.ValidateCategoryKey(string(cat)); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConstraints, err, "minimum for %q", cat)
		}
	}
	return nil
}
