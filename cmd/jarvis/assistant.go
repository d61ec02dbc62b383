package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jarvis/internal/bootstrap"
)

func newPingCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the configured model answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.CompletionCLI.Ping(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s/%s in %s: %s\n", okStyle.Render("ok"), out.Provider, out.Model, out.Latency.Round(time.Millisecond), strings.TrimSpace(out.Reply))
				return nil
			})
		},
	}
}

func newAskCmd(dataDir *string) *cobra.Command {
	var maxTokens int
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Send a free-form question to the model",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.CompletionCLI.Ask(cmd.Context(), strings.Join(args, " "), maxTokens)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(out.Text))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "reply token limit (default from config)")
	return cmd
}

func newHistoryCmd(dataDir *string) *cobra.Command {
	var limit int
	var full bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent model interactions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				items, err := app.CompletionCLI.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no interactions")
					return nil
				}
				for _, it := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s/%s\ttokens=%d/%d\t%dms\n", stamp(it.CreatedAt), it.Kind, it.Provider, it.Model, it.InputTokens, it.OutputTokens, it.LatencyMS)
					if full {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n%s\n\n", mutedStyle.Render(it.Prompt), "---", it.Response)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum interactions to show")
	cmd.Flags().BoolVar(&full, "full", false, "print prompts and replies")
	return cmd
}

func newPrefCmd(dataDir *string) *cobra.Command {
	pref := &cobra.Command{Use: "pref", Short: "Learned and stated preferences"}

	pref.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				prefs, err := app.PreferenceCLI.List(cmd.Context())
				if err != nil {
					return err
				}
				if len(prefs) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no preferences")
					return nil
				}
				for _, p := range prefs {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tconfidence=%.2f\t%s\n", p.Key, p.Value, p.Confidence, stamp(p.UpdatedAt))
				}
				return nil
			})
		},
	})

	var confidence float64
	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference, e.g. peak_energy morning",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var conf *float64
			if cmd.Flags().Changed("confidence") {
				conf = &confidence
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				out, err := app.PreferenceCLI.Set(cmd.Context(), args[0], strings.Join(args[1:], " "), conf)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (confidence %.2f)\n", out.Key, out.Value, out.Confidence)
				return nil
			})
		},
	}
	set.Flags().Float64Var(&confidence, "confidence", 0, "confidence 0..1 (default reinforces the stored value)")
	pref.AddCommand(set)
	return pref
}

func newObserveCmd(dataDir *string) *cobra.Command {
	observe := &cobra.Command{Use: "observe", Short: "Recorded behavior patterns"}
	var limit int
	list := &cobra.Command{
		Use:   "list",
		Short: "List recent observations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				obs, err := app.PreferenceCLI.Observations(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if len(obs) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no observations")
					return nil
				}
				for _, o := range obs {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", stamp(o.CreatedAt), o.Kind, o.Detail)
				}
				return nil
			})
		},
	}
	list.Flags().IntVar(&limit, "limit", 20, "maximum observations to show")
	observe.AddCommand(list)
	return observe
}
