package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"jarvis/internal/bootstrap"
	"jarvis/internal/modules/schedule/dto"
)

func newScheduleCmd(dataDir *string) *cobra.Command {
	schedule := &cobra.Command{Use: "schedule", Short: "Plan and review days"}

	var input dto.SuggestInput
	suggest := &cobra.Command{
		Use:   "suggest [task...]",
		Short: "Ask the model to plan a day around the given tasks",
		Long: "Each argument is one task. Times written in a task (\"standup at 9:30am\") are kept fixed.\n" +
			"Recurring tasks due on the date are added automatically.",
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Tasks = args
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Suggest(cmd.Context(), input)
				if err != nil {
					return err
				}
				printSchedule(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	suggest.Flags().StringVar(&input.Date, "date", "", "date to plan, YYYY-MM-DD (default today)")
	suggest.Flags().BoolVar(&input.IncludePending, "pending", false, "include stored pending tasks")
	suggest.Flags().BoolVar(&input.Offline, "offline", false, "draft a plan without the model")

	var week dto.WeekInput
	weekCmd := &cobra.Command{
		Use:   "week [task...]",
		Short: "Spread tasks over several days and plan each day",
		Long: "Tasks naming a weekday (\"gym on friday\") go to that day; the rest are balanced by duration.\n" +
			"Days left without tasks are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			week.Tasks = args
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Week(cmd.Context(), week)
				if err != nil {
					return err
				}
				for i, s := range out {
					if i > 0 {
						_, _ = fmt.Fprintln(cmd.OutOrStdout())
					}
					printSchedule(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	}
	weekCmd.Flags().StringVar(&week.Start, "start", "", "first date to plan, YYYY-MM-DD (default today)")
	weekCmd.Flags().IntVar(&week.Days, "days", 7, "number of days to plan")
	weekCmd.Flags().BoolVar(&week.IncludePending, "pending", false, "include stored pending tasks")
	weekCmd.Flags().BoolVar(&week.Offline, "offline", false, "draft plans without the model")

	var scheduleID, date string
	bindRef := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&scheduleID, "id", "", "schedule id")
		cmd.Flags().StringVar(&date, "date", "", "active schedule for this date (default today)")
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the active schedule for a date, or one schedule by id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Show(cmd.Context(), scheduleID, date)
				if err != nil {
					return err
				}
				printSchedule(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	bindRef(show)

	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent schedules, including superseded ones",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				schedules, err := app.ScheduleCLI.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(schedules) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no schedules")
					return nil
				}
				for _, s := range schedules {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tentries=%d\tactive=%t\t%s\n", s.ID, s.Date, len(s.Entries), s.Active, s.Source)
				}
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 10, "maximum schedules to show")

	var format string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write a schedule to a file (ics, html, markdown, text)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Export(cmd.Context(), scheduleID, date, format)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s as %s: %s (%d bytes)\n", out.ScheduleID, out.Format, out.Path, out.Bytes)
				return nil
			})
		},
	}
	bindRef(export)
	export.Flags().StringVar(&format, "format", "ics", "export format")

	publish := &cobra.Command{
		Use:   "publish",
		Short: "Push a schedule to Google Calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.Publish(cmd.Context(), scheduleID, date)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "published %s: %d events to %s\n", out.ScheduleID, out.Events, out.Calendar)
				return nil
			})
		},
	}
	bindRef(publish)

	del := &cobra.Command{
		Use:   "delete <schedule-id>",
		Short: "Delete one schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.ScheduleCLI.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "schedule deleted: %s\n", args[0])
				return nil
			})
		},
	}

	schedule.AddCommand(suggest, weekCmd, show, list, export, publish, del)
	return schedule
}

func newRecurringCmd(dataDir *string) *cobra.Command {
	recurring := &cobra.Command{Use: "recurring", Short: "Tasks that repeat on a schedule"}

	var input dto.RecurringInput
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a recurring task",
		Example: "  jarvis recurring add Gym --duration 60 --frequency weekdays --at 07:00\n" +
			"  jarvis recurring add \"Water plants\" --cron \"0 8 */3 * *\"",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = strings.Join(args, " ")
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.ScheduleCLI.AddRecurring(cmd.Context(), input)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recurring task added: %s (%s)\n", out.ID, out.Frequency)
				return nil
			})
		},
	}
	add.Flags().IntVar(&input.DurationMinutes, "duration", 0, "minutes")
	add.Flags().StringVar(&input.PreferredTime, "at", "", "preferred start time, e.g. 07:30 or 6pm")
	add.Flags().StringVar(&input.Frequency, "frequency", "", "daily|weekdays|weekends|days|cron (inferred when empty)")
	add.Flags().StringVar(&input.Days, "days", "", "weekdays for --frequency days, e.g. mon,wed,fri")
	add.Flags().StringVar(&input.CronExpr, "cron", "", "standard 5-field cron expression")

	var all bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List recurring tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				tasks, err := app.ScheduleCLI.ListRecurring(cmd.Context(), all)
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no recurring tasks")
					return nil
				}
				for _, r := range tasks {
					rule := r.Frequency
					switch r.Frequency {
					case "days":
						rule = r.Days
					case "cron":
						rule = r.CronExpr
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tat=%s\tduration=%d\tactive=%t\n", r.ID, r.Name, rule, r.PreferredTime, r.DurationMinutes, r.Active)
				}
				return nil
			})
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include removed tasks")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Stop a recurring task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.ScheduleCLI.RemoveRecurring(cmd.Context(), args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "recurring task removed: %s\n", args[0])
				return nil
			})
		},
	}

	recurring.AddCommand(add, list, remove)
	return recurring
}
