package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskplan/pkg/plan"
)

// Output formats for commands that print results.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// constraintFlags binds --max-cost, --max-hours and --min.
type constraintFlags struct {
	maxCost  int
	maxHours int
	min      map[string]int
}

func (f *constraintFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.maxCost, "max-cost", 0, "cost ceiling")
	fs.IntVar(&f.maxHours, "max-hours", 0, "hours ceiling")
	fs.StringToIntVar(&f.min, "min", nil, "category minimum as KEY=N (repeatable)")
}

// apply overlays the flags the user set onto base. base is not modified.
func (f *constraintFlags) apply(cmd *cobra.Command, base plan.Constraints) plan.Constraints {
	out := plan.Constraints{
		MaxCost:           base.MaxCost,
		MaxHours:          base.MaxHours,
		MinCategoryTotals: base.MinCategoryTotals.Clone(),
	}
	if cmd.Flags().Changed("max-cost") {
		out.MaxCost = f.maxCost
	}
	if cmd.Flags().Changed("max-hours") {
		out.MaxHours = f.maxHours
	}
	if cmd.Flags().Changed("min") {
		for k, v := range f.min {
			out.MinCategoryTotals[plan.Category(k)] = v
		}
	}
	return out
}

// checkFormat rejects output formats other than table and json.
func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON:
		return nil
	}
	return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTable, formatJSON)
}
