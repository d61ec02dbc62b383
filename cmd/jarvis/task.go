package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jarvis/internal/bootstrap"
	"jarvis/internal/modules/task/dto"
)

func newTaskCmd(dataDir *string) *cobra.Command {
	task := &cobra.Command{Use: "task", Short: "Capture and analyze tasks"}

	var input dto.TaskInput
	bindTaskFlags := func(cmd *cobra.Command) {
		cmd.Flags().IntVar(&input.DurationMinutes, "duration", 0, "expected minutes")
		cmd.Flags().StringVar(&input.Priority, "priority", "", "low|medium|high")
		cmd.Flags().StringVar(&input.Energy, "energy", "", "energy needed: low|medium|high")
		cmd.Flags().StringVar(&input.Category, "category", "", "free-form category")
		cmd.Flags().StringVar(&input.Deadline, "deadline", "", "deadline, e.g. 2026-03-05")
		cmd.Flags().StringToStringVar(&input.Extra, "meta", nil, "extra metadata key=value")
	}

	add := &cobra.Command{
		Use:   "add <description>",
		Short: "Store a task without analysis",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Description = strings.Join(args, " ")
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.TaskCLI.Add(cmd.Context(), input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task added: %s\n", out.ID)
				return nil
			})
		},
	}
	bindTaskFlags(add)

	analyze := &cobra.Command{
		Use:   "analyze <description>",
		Short: "Ask the model how to approach a new task and store both",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Description = strings.Join(args, " ")
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.TaskCLI.Analyze(cmd.Context(), input)
				if err != nil {
					return err
				}
				printTask(cmd.OutOrStdout(), out.Task)
				printAnalysis(cmd.OutOrStdout(), out.Analysis)
				return nil
			})
		},
	}
	bindTaskFlags(analyze)

	reanalyze := &cobra.Command{
		Use:   "reanalyze <task-id>",
		Short: "Append a fresh analysis to a stored task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.TaskCLI.Reanalyze(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printAnalysis(cmd.OutOrStdout(), out.Analysis)
				return nil
			})
		},
	}

	var limit int
	var pending bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent tasks, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				tasks, err := app.TaskCLI.List(cmd.Context(), limit, pending)
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
					return nil
				}
				for _, t := range tasks {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", t.ID, t.Status, stamp(t.CreatedAt), t.Description)
				}
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 10, "maximum tasks to show")
	list.Flags().BoolVar(&pending, "pending", false, "only pending tasks")

	show := &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with every analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.TaskCLI.Show(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printTask(cmd.OutOrStdout(), out.Task)
				for _, a := range out.Analyses {
					printAnalysis(cmd.OutOrStdout(), a)
				}
				return nil
			})
		},
	}

	var actual int
	complete := &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Mark a task done and record how long it took",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.TaskCLI.Complete(cmd.Context(), args[0], actual)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render("completed"), out.Task.Description)
				if out.Estimate > 0 && actual > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "estimate=%d min actual=%d min accuracy=%d/10\n", out.Estimate, actual, out.AccuracyScore)
				}
				return nil
			})
		},
	}
	complete.Flags().IntVar(&actual, "actual", 0, "actual minutes spent")

	del := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task and its analyses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.TaskCLI.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "task deleted: %s\n", args[0])
				return nil
			})
		},
	}

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show completion rates by category and estimate accuracy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.TaskCLI.Stats(cmd.Context())
				if err != nil {
					return err
				}
				printProductivity(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	task.AddCommand(add, analyze, reanalyze, list, show, complete, del, stats)
	return task
}
