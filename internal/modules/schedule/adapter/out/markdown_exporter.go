package out

import (
	"fmt"
	"strings"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
	"jarvis/internal/platform/markdown"
)

type MarkdownExporter struct{}

func NewMarkdownExporter() scheduleout.Exporter {
	return MarkdownExporter{}
}

func (MarkdownExporter) Format() string    { return "markdown" }
func (MarkdownExporter) Extension() string { return ".md" }

type scheduleFrontmatter struct {
	ID      string `yaml:"id"`
	Date    string `yaml:"date"`
	Source  string `yaml:"source"`
	Active  bool   `yaml:"active"`
	Entries int    `yaml:"entries"`
	Minutes int    `yaml:"planned_minutes"`
}

func (MarkdownExporter) Export(s domain.Schedule) ([]byte, error) {
	meta := scheduleFrontmatter{ID: s.ID, Date: s.Date, Source: s.Source, Active: s.Active, Entries: len(s.Entries)}
	var body strings.Builder
	fmt.Fprintf(&body, "# Schedule for %s\n\n", s.Date)
	body.WriteString("| Time | Task | Energy | Why |\n|---|---|---|---|\n")
	for _, e := range s.Entries {
		meta.Minutes += e.Minutes()
		fmt.Fprintf(&body, "| %s-%s | %s | %s | %s |\n", e.Start, e.End, cell(e.Task), cell(e.Energy), cell(e.Reasoning))
	}
	if len(s.Tips) > 0 {
		body.WriteString("\n## Tips\n\n")
		for _, tip := range s.Tips {
			fmt.Fprintf(&body, "- %s\n", tip)
		}
	}
	return markdown.Render(meta, body.String())
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
