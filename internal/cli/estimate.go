package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	"github.com/matzehuels/taskplan/pkg/pipeline"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

// estimateCommand creates the estimate command.
func (c *CLI) estimateCommand() *cobra.Command {
	var (
		n        int
		maxCost  int
		strategy string
		format   = formatTable
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Show the theoretical cost of each strategy for an input size",
		Long: `Show each strategy's Big-O label and a relative operation count for n
tasks. Only Dynamic Programming depends on the cost ceiling.`,
		Example: `  taskplan estimate --n 20
  taskplan estimate --n 40 --max-cost 50000 -s dp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-cost") {
				maxCost = c.Config.Constraints.MaxCost
			}
			if n < 0 {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "--n must not be negative")
			}
			con := plan.Constraints{MaxCost: maxCost}

			var estimates []pipeline.Estimate
			if strategy != "" {
				e, err := pipeline.EstimateFor(strategy, n, con)
				if err != nil {
					return err
				}
				estimates = []pipeline.Estimate{e}
			} else {
				estimates = pipeline.Estimates(n, con)
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), estimates)
			}
			fmt.Fprintln(stdout, StyleTitle.Render(fmt.Sprintf("Estimates for %d tasks", n)))
			fmt.Fprintln(stdout, renderEstimates(estimates))
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 0, "number of tasks")
	cmd.Flags().IntVar(&maxCost, "max-cost", 0, "cost ceiling (default from config)")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "estimate a single strategy")
	cmd.Flags().StringVarP(&format, "format", "f", format, "output format: table, json")
	_ = cmd.MarkFlagRequired("n")

	return cmd
}

// strategyInfo is one row of the strategies listing.
type strategyInfo struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Complexity string `json:"complexity"`
}

// strategiesCommand creates the strategies command.
func (c *CLI) strategiesCommand() *cobra.Command {
	format := formatTable

	cmd := &cobra.Command{
		Use:   "strategies",
		Short: "List the available strategies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			infos := make([]strategyInfo, 0, len(solver.Strategies()))
			for _, s := range solver.Strategies() {
				infos = append(infos, strategyInfo{Name: s.String(), Slug: s.Slug(), Complexity: s.Complexity()})
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}
			rows := make([][]string, 0, len(infos))
			for _, s := range infos {
				rows = append(rows, []string{s.Name, s.Slug, s.Complexity})
			}
			fmt.Fprintln(stdout, newTable("Strategy", "Slug", "Complexity").Rows(rows...).Render())
			printDetail("Default: %s", c.Config.Solve.Strategy)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", format, "output format: table, json")
	return cmd
}
