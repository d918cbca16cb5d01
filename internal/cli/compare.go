package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/taskplan/pkg/plan/solver"
)

// compareOptions holds the flags of the compare command.
type compareOptions struct {
	format      string
	noCache     bool
	timeout     time.Duration
	constraints constraintFlags
}

// compareCommand creates the compare command for running every strategy.
func (c *CLI) compareCommand() *cobra.Command {
	opts := compareOptions{format: formatTable}

	cmd := &cobra.Command{
		Use:   "compare <tasks-file>",
		Short: "Run every strategy on the same tasks",
		Long: `Run all six strategies concurrently on the same tasks and constraints and
report value, cost, hours, selected tasks, time taken and the estimated
operation count side by side.`,
		Example: `  taskplan compare tasks.yaml
  taskplan compare tasks.json --max-hours 60 -f json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-strategy timeout (default from config)")
	opts.constraints.register(cmd)

	return cmd
}

func (c *CLI) runCompare(cmd *cobra.Command, path string, opts compareOptions) error {
	ctx := cmd.Context()
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	p, err := c.loadProblem(cmd, path)
	if err != nil {
		return err
	}
	constraints := opts.constraints.apply(cmd, c.problemConstraints(p))

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()
	if opts.timeout > 0 {
		runner.Timeout = opts.timeout
	}

	var spinner *Spinner
	if opts.format == formatTable {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Running %d strategies...", len(solver.Strategies())))
		spinner.Start()
	}
	prog := newProgress(loggerFromContext(ctx))
	outcomes, err := runner.Compare(ctx, p.Tasks, constraints)
	if spinner != nil {
		spinner.StopWithOutcome(err, fmt.Sprintf("Compared %d strategies on %d tasks", len(outcomes), len(p.Tasks)), "Comparison failed")
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Compared %d strategies on %d tasks", len(outcomes), len(p.Tasks)))

	if opts.format == formatJSON {
		return writeJSON(cmd.OutOrStdout(), outcomes)
	}
	fmt.Fprintln(stdout, StyleTitle.Render("Comparison"))
	fmt.Fprintln(stdout, renderComparison(outcomes))
	return nil
}
