package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jarvis/internal/bootstrap"
	"jarvis/internal/platform/config"
	"jarvis/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "jarvis",
		Short:         "Personal productivity assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.local/share/jarvis)")

	root.AddCommand(newPingCmd(&dataDir))
	root.AddCommand(newAskCmd(&dataDir))
	root.AddCommand(newTaskCmd(&dataDir))
	root.AddCommand(newScheduleCmd(&dataDir))
	root.AddCommand(newRecurringCmd(&dataDir))
	root.AddCommand(newPrefCmd(&dataDir))
	root.AddCommand(newObserveCmd(&dataDir))
	root.AddCommand(newHistoryCmd(&dataDir))
	root.AddCommand(newCalendarCmd(&dataDir))
	root.AddCommand(newTUICmd(&dataDir))
	return root
}

// withApp loads configuration, wires the app for one command and closes it
// afterwards.
func withApp(dataDir string, fn func(app *bootstrap.App) error) error {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.SlogLevel())
	app, err := bootstrap.New(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the jarvis terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(cmd.Context(), app)
			})
		},
	}
}

func newCalendarCmd(dataDir *string) *cobra.Command {
	cal := &cobra.Command{Use: "calendar", Short: "Google Calendar connection"}
	cal.AddCommand(&cobra.Command{
		Use:   "auth",
		Short: "Authorize jarvis to write to your Google Calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if err := app.AuthorizeCalendar(cmd.Context(), cmd.OutOrStdout()); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render("calendar authorized"))
				return nil
			})
		},
	})
	return cal
}
