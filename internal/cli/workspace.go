package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/taskplan/pkg/errors"
	taskio "github.com/matzehuels/taskplan/pkg/io"
	"github.com/matzehuels/taskplan/pkg/plan"
	"github.com/matzehuels/taskplan/pkg/session"
)

// workspaceCommand creates the workspace command group. A workspace is a
// persisted task set with constraints and the last result, edited step by
// step.
func (c *CLI) workspaceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"ws"},
		Short:   "Edit and solve a persisted workspace",
		Long: `A workspace keeps a task set, its constraints, the last strategy run and
its result between invocations. Changing the constraints re-runs the last
strategy; adding or removing tasks keeps the previous result until the next
run.`,
	}

	cmd.PersistentFlags().StringVarP(&c.workspaceID, "workspace", "w", defaultWorkspace, "workspace id")
	cmd.PersistentFlags().StringVar(&c.workspaceDir, "dir", "", "workspace directory (default ~/.config/taskplan/workspaces)")

	cmd.AddCommand(c.workspaceInitCommand())
	cmd.AddCommand(c.workspaceShowCommand())
	cmd.AddCommand(c.workspaceListCommand())
	cmd.AddCommand(c.workspaceAddCommand())
	cmd.AddCommand(c.workspaceRemoveCommand())
	cmd.AddCommand(c.workspaceConstraintsCommand())
	cmd.AddCommand(c.workspaceRunCommand())
	cmd.AddCommand(c.workspaceImportCommand())
	cmd.AddCommand(c.workspaceExportCommand())
	cmd.AddCommand(c.workspaceDeleteCommand())

	return cmd
}

func (c *CLI) workspaceInitCommand() *cobra.Command {
	var sample, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an empty workspace, or one holding the sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.workspaceStore()
			if err != nil {
				return err
			}
			if _, err := store.Get(ctx, c.workspaceID); err == nil && !force {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "workspace %q already exists (use --force to replace it)", c.workspaceID)
			}

			w := session.New(c.workspaceID)
			if sample {
				w = session.Sample(c.workspaceID)
			} else {
				w.Constraints = c.Config.PlanConstraints()
			}
			if err := store.Put(ctx, w); err != nil {
				return err
			}

			printSuccess("Created workspace %s with %d tasks", StyleHighlight.Render(w.ID), len(w.Tasks))
			printFile(store.Path())
			printNextStep("Solve it", "taskplan workspace run")
			return nil
		},
	}

	cmd.Flags().BoolVar(&sample, "sample", false, "load the sample tasks and constraints")
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing workspace")
	return cmd
}

func (c *CLI) workspaceShowCommand() *cobra.Command {
	format := formatTable

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the tasks, constraints and last result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			w, err := c.loadWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), w)
			}

			cats := c.Config.PlanCategories()
			fmt.Fprintln(stdout, StyleTitle.Render("Workspace " + w.ID))
			printKeyValue("Max cost", strconv.Itoa(w.Constraints.MaxCost))
			printKeyValue("Max hours", strconv.Itoa(w.Constraints.MaxHours))
			printKeyValue("Minima", renderMinima(w.Constraints))
			if len(w.Tasks) == 0 {
				printDetail("No tasks")
			} else {
				fmt.Fprintln(stdout, renderTasks(w.Tasks, cats))
			}
			if w.Result != nil {
				fmt.Fprintln(stdout)
				printResult(*w.Result, w.Constraints, cats)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", format, "output format: table, json")
	return cmd
}

func (c *CLI) workspaceListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored workspaces",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.workspaceStore()
			if err != nil {
				return err
			}
			ids, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				printInfo("No workspaces")
				return nil
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func (c *CLI) workspaceAddCommand() *cobra.Command {
	var (
		t    plan.Task
		cats map[string]int
	)

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a task",
		Example: `  taskplan workspace add --name "Search page" --cost 2500 --hours 6 --value 9 --cat FE=1 --cat QA=1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			task := t
			if len(cats) > 0 {
				task.Categories = make(plan.Amounts, len(cats))
				for k, v := range cats {
					task.Categories[plan.Category(k)] = v
				}
			}

			var added plan.Task
			_, err := c.updateWorkspace(cmd.Context(), func(w *session.Workspace) error {
				var err error
				added, err = w.AddTask(task)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added task %s", StyleHighlight.Render(added.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&t.ID, "id", "", "task id (default next free T<k>)")
	cmd.Flags().StringVar(&t.Name, "name", "", "task name")
	cmd.Flags().IntVar(&t.Cost, "cost", 0, "task cost")
	cmd.Flags().IntVar(&t.Hours, "hours", 0, "task hours")
	cmd.Flags().IntVar(&t.Value, "value", 0, "task value")
	cmd.Flags().StringToIntVar(&cats, "cat", nil, "category contribution as KEY=N (repeatable)")
	return cmd
}

func (c *CLI) workspaceRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <task-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.updateWorkspace(cmd.Context(), func(w *session.Workspace) error {
				if !w.DeleteTask(args[0]) {
					return apperrors.New(apperrors.ErrCodeNotFound, "task %q not found", args[0])
				}
				return nil
			})
			if err != nil {
				return err
			}
			printSuccess("Removed task %s", args[0])
			return nil
		},
	}
}

func (c *CLI) workspaceConstraintsCommand() *cobra.Command {
	var (
		flags   constraintFlags
		noCache bool
	)

	cmd := &cobra.Command{
		Use:     "constraints",
		Short:   "Change the constraints and re-run the last strategy",
		Example: `  taskplan workspace constraints --max-cost 25000 --min QA=2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			w, err := c.updateWorkspace(cmd.Context(), func(w *session.Workspace) error {
				return w.SetConstraints(cmd.Context(), flags.apply(cmd, w.Constraints), runner.SolveNamed)
			})
			if err != nil {
				return err
			}

			printSuccess("Updated constraints")
			if w.Result != nil {
				printResult(*w.Result, w.Constraints, c.Config.PlanCategories())
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

func (c *CLI) workspaceRunCommand() *cobra.Command {
	var (
		pick    bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "run [strategy]",
		Short: "Solve the workspace and store the result",
		Long: `Solve the workspace with the given strategy, or the last one run, or the
configured default.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.workspaceStore()
			if err != nil {
				return err
			}
			w, err := store.Get(ctx, c.workspaceID)
			if err != nil {
				return err
			}

			strategy := w.CurrentStrategy
			switch {
			case len(args) == 1:
				strategy = args[0]
			case pick:
				if strategy, err = pickStrategy(len(w.Tasks), w.Constraints); err != nil {
					return err
				}
				if strategy == "" {
					printDetail("No selection made")
					return nil
				}
			}
			if strategy == "" {
				strategy = c.Config.Solve.Strategy
			}

			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Solving %d tasks...", len(w.Tasks)))
			spinner.Start()
			err = w.Run(ctx, runner.SolveNamed, strategy)
			spinner.Stop()
			if err != nil {
				return err
			}
			if err := store.Put(ctx, w); err != nil {
				return err
			}

			printResult(*w.Result, w.Constraints, c.Config.PlanCategories())
			return nil
		},
	}

	cmd.Flags().BoolVar(&pick, "pick", false, "choose the strategy interactively")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	return cmd
}

func (c *CLI) workspaceImportCommand() *cobra.Command {
	var legacy bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the workspace with a problem file or a saved browser state",
		Long: `Replace the workspace's tasks and constraints with those of a problem file
(JSON or YAML). With --legacy the file is a saved browser planner state, whose
stored result is imported as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := session.New(c.workspaceID)
			w.Constraints = c.Config.PlanConstraints()

			if legacy {
				f, err := openFile(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				st, err := taskio.ReadLegacyState(f, c.Config.PlanCategories())
				if err != nil {
					return err
				}
				w.Tasks = st.Problem.Tasks
				if st.Problem.Constraints != nil {
					w.Constraints = *st.Problem.Constraints
				}
				w.CurrentStrategy = st.Problem.Strategy
				w.Result = st.Result
			} else {
				p, err := taskio.ImportProblem(args[0])
				if err != nil {
					return err
				}
				w.Tasks = p.Tasks
				w.Constraints = c.problemConstraints(p)
			}

			store, err := c.workspaceStore()
			if err != nil {
				return err
			}
			if err := store.Put(cmd.Context(), w); err != nil {
				return err
			}
			printSuccess("Imported %d tasks into workspace %s", len(w.Tasks), StyleHighlight.Render(w.ID))
			return nil
		},
	}

	cmd.Flags().BoolVar(&legacy, "legacy", false, "read a saved browser planner state")
	return cmd
}

func (c *CLI) workspaceExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write the workspace's tasks and constraints as a problem file",
		Long:  `Write the workspace as a problem file. The format follows the extension (.yaml or .json).`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := c.loadWorkspace(cmd.Context())
			if err != nil {
				return err
			}
			constraints := w.Constraints
			p := taskio.Problem{Tasks: w.Tasks, Constraints: &constraints, Strategy: w.CurrentStrategy}
			if err := taskio.ExportProblem(p, args[0]); err != nil {
				return err
			}
			printSuccess("Exported workspace %s", StyleHighlight.Render(w.ID))
			printFile(args[0])
			return nil
		},
	}
}

func (c *CLI) workspaceDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Delete the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.workspaceStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), c.workspaceID); err != nil {
				return err
			}
			printSuccess("Deleted workspace %s", c.workspaceID)
			return nil
		},
	}
}

// loadWorkspace returns the selected workspace.
func (c *CLI) loadWorkspace(ctx context.Context) (*session.Workspace, error) {
	store, err := c.workspaceStore()
	if err != nil {
		return nil, err
	}
	return store.Get(ctx, c.workspaceID)
}

// updateWorkspace loads the selected workspace, applies fn and stores it.
// Nothing is stored when fn fails.
func (c *CLI) updateWorkspace(ctx context.Context, fn func(*session.Workspace) error) (*session.Workspace, error) {
	store, err := c.workspaceStore()
	if err != nil {
		return nil, err
	}
	w, err := store.Get(ctx, c.workspaceID)
	if err != nil {
		return nil, err
	}
	if err := fn(w); err != nil {
		return nil, err
	}
	if err := store.Put(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}
