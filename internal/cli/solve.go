package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	taskio "github.com/matzehuels/taskplan/pkg/io"
	"github.com/matzehuels/taskplan/pkg/pipeline"
	"github.com/matzehuels/taskplan/pkg/plan"
)

// solveOptions holds the flags of the solve command.
type solveOptions struct {
	strategy    string
	pick        bool
	format      string
	output      string
	noCache     bool
	refresh     bool
	timeout     time.Duration
	constraints constraintFlags
}

// solveCommand creates the solve command for running one strategy.
func (c *CLI) solveCommand() *cobra.Command {
	opts := solveOptions{format: formatTable}

	cmd := &cobra.Command{
		Use:   "solve <tasks-file>",
		Short: "Select the most valuable tasks with one strategy",
		Long: `Select the most valuable subset of tasks under the cost and hours ceilings
and the category minima.

The tasks file is JSON or YAML, either a bare task list or a problem document
with "tasks", "constraints" and "strategy". Use "-" to read JSON from stdin.
Constraints come from the file, else from the config, and flags override
single fields.`,
		Example: `  # Solve with the default strategy
  taskplan solve tasks.yaml

  # Pick a strategy and tighten the budget
  taskplan solve tasks.json -s mitm --max-cost 15000 --min FE=2 --min QA=1

  # Choose a strategy interactively
  taskplan solve tasks.json --pick`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSolve(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.strategy, "strategy", "s", "", "strategy name or slug (default from file or config)")
	cmd.Flags().BoolVar(&opts.pick, "pick", false, "choose the strategy interactively")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: table, json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "also write the result as JSON to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "solve timeout (default from config)")
	opts.constraints.register(cmd)
	cmd.MarkFlagsMutuallyExclusive("strategy", "pick")

	return cmd
}

func (c *CLI) runSolve(cmd *cobra.Command, path string, opts solveOptions) error {
	ctx := cmd.Context()
	if err := checkFormat(opts.format); err != nil {
		return err
	}

	p, err := c.loadProblem(cmd, path)
	if err != nil {
		return err
	}
	constraints := opts.constraints.apply(cmd, c.problemConstraints(p))

	strategy := opts.strategy
	if opts.pick {
		if strategy, err = pickStrategy(len(p.Tasks), constraints); err != nil {
			return err
		}
		if strategy == "" {
			printDetail("No selection made")
			return nil
		}
	}
	if strategy == "" {
		strategy = p.Strategy
	}

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
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d tasks...", len(p.Tasks)))
		spinner.Start()
	}
	out, err := runner.Solve(ctx, pipeline.Request{
		Tasks:       p.Tasks,
		Constraints: constraints,
		Strategy:    strategy,
		Refresh:     opts.refresh,
	})
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if opts.output != "" {
		if err := taskio.ExportResult(out.Result, opts.output); err != nil {
			return err
		}
	}

	if opts.format == formatJSON {
		return taskio.WriteResult(cmd.OutOrStdout(), out.Result)
	}
	printResult(out.Result, constraints, c.Config.PlanCategories())
	printSolveStats(len(out.Result.Selected), out.Duration, out.CacheHit)
	if opts.output != "" {
		printFile(opts.output)
	}
	return nil
}

// loadProblem reads a problem from path, or JSON from stdin when path is "-".
func (c *CLI) loadProblem(cmd *cobra.Command, path string) (taskio.Problem, error) {
	if path == "-" {
		return taskio.ReadProblem(cmd.InOrStdin(), taskio.FormatJSON)
	}
	p, err := taskio.ImportProblem(path)
	if err != nil {
		return taskio.Problem{}, err
	}
	loggerFromContext(cmd.Context()).Debug("loaded problem", "path", path, "tasks", len(p.Tasks))
	return p, nil
}

// problemConstraints returns the problem's constraints, or the configured
// defaults when it carries none.
func (c *CLI) problemConstraints(p taskio.Problem) plan.Constraints {
	if p.Constraints != nil {
		return *p.Constraints
	}
	return c.Config.PlanConstraints()
}

// openFile opens path for reading, reporting a missing file as FILE_NOT_FOUND.
func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "open %s", path)
	}
	return f, nil
}
