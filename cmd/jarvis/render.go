package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	scheduledto "jarvis/internal/modules/schedule/dto"
	taskdto "jarvis/internal/modules/task/dto"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8839ef"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8c8fa1"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#40a02b"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#1e66f5")).Bold(true)
	energyStyle = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("#d20f39")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("#df8e1d")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("#40a02b")),
	}
)

const stampLayout = "2006-01-02 15:04"

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(stampLayout)
}

func printTask(w io.Writer, t taskdto.TaskOutput) {
	_, _ = fmt.Fprintf(w, "%s %s\n", headerStyle.Render(t.Description), mutedStyle.Render("("+t.ID+")"))
	var meta []string
	if t.DurationMinutes > 0 {
		meta = append(meta, fmt.Sprintf("%d min", t.DurationMinutes))
	}
	for _, kv := range [][2]string{{"priority", t.Priority}, {"energy", t.Energy}, {"category", t.Category}, {"deadline", t.Deadline}} {
		if kv[1] != "" {
			meta = append(meta, kv[0]+"="+kv[1])
		}
	}
	meta = append(meta, "status="+t.Status, "created="+stamp(t.CreatedAt))
	if t.Status == "completed" {
		meta = append(meta, fmt.Sprintf("actual=%d min", t.ActualMinutes), "completed="+stamp(t.CompletedAt))
	}
	_, _ = fmt.Fprintf(w, "  %s\n", strings.Join(meta, "  "))
}

func printAnalysis(w io.Writer, a taskdto.AnalysisOutput) {
	_, _ = fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Analysis"), mutedStyle.Render(stamp(a.CreatedAt)))
	_, _ = fmt.Fprintf(w, "  Estimated duration: %d min\n", a.DurationMinutes)
	_, _ = fmt.Fprintf(w, "  Best timing: %s\n", a.Timing)
	_, _ = fmt.Fprintln(w, "  Preparation:")
	for i, step := range a.PrepSteps {
		_, _ = fmt.Fprintf(w, "    %d. %s\n", i+1, step)
	}
	_, _ = fmt.Fprintln(w, "  Success looks like:")
	for _, c := range a.SuccessCriteria {
		_, _ = fmt.Fprintf(w, "    - %s\n", c)
	}
}

func printProductivity(w io.Writer, p taskdto.ProductivityOutput) {
	_, _ = fmt.Fprintf(w, "%s\n", headerStyle.Render("Productivity"))
	_, _ = fmt.Fprintf(w, "  pending=%d  completed=%d\n", p.Pending, p.Completed)
	if len(p.Categories) > 0 {
		_, _ = fmt.Fprintln(w, "  Completion by category:")
		for _, c := range p.Categories {
			_, _ = fmt.Fprintf(w, "    %s: %d/%d (%.1f%%)\n", c.Category, c.Completed, c.Total, c.Rate*100)
		}
	}
	if p.EstimateSamples == 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", mutedStyle.Render("no completed tasks with estimates yet"))
		return
	}
	_, _ = fmt.Fprintf(w, "  Estimates: %d samples, mean accuracy %.1f/10, mean error %+.0f min\n",
		p.EstimateSamples, p.MeanScore, p.MeanErrorMinutes)
	_, _ = fmt.Fprintf(w, "    underestimated=%d  overestimated=%d\n", p.Underestimated, p.Overestimated)
}

func printSchedule(w io.Writer, s scheduledto.ScheduleOutput) {
	state := "active"
	if !s.Active {
		state = "superseded"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Schedule for "+s.Date),
		mutedStyle.Render(fmt.Sprintf("(%s, %s, %s)", s.ID, s.Source, state)))
	for _, e := range s.Entries {
		energy := e.Energy
		if style, ok := energyStyle[e.Energy]; ok {
			energy = style.Render(e.Energy)
		}
		_, _ = fmt.Fprintf(w, "  %s  %s", timeStyle.Render(e.Start+"-"+e.End), e.Task)
		if e.Energy != "" {
			_, _ = fmt.Fprintf(w, " [%s]", energy)
		}
		_, _ = fmt.Fprintln(w)
		if e.Reasoning != "" {
			_, _ = fmt.Fprintf(w, "               %s\n", mutedStyle.Render(e.Reasoning))
		}
	}
	if len(s.Tips) > 0 {
		_, _ = fmt.Fprintln(w, headerStyle.Render("Tips"))
		for _, tip := range s.Tips {
			_, _ = fmt.Fprintf(w, "  * %s\n", tip)
		}
	}
}
