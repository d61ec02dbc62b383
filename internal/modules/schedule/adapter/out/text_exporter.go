package out

import (
	"fmt"
	"strings"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
)

type TextExporter struct{}

func NewTextExporter() scheduleout.Exporter {
	return TextExporter{}
}

func (TextExporter) Format() string    { return "text" }
func (TextExporter) Extension() string { return ".txt" }

func (TextExporter) Export(s domain.Schedule) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Schedule for %s\n", s.Date)
	b.WriteString(strings.Repeat("=", 13+len(s.Date)) + "\n\n")
	for _, e := range s.Entries {
		fmt.Fprintf(&b, "%s-%s  %s", e.Start, e.End, e.Task)
		if e.Energy != "" {
			fmt.Fprintf(&b, " [%s]", e.Energy)
		}
		b.WriteString("\n")
		if e.Reasoning != "" {
			fmt.Fprintf(&b, "             %s\n", e.Reasoning)
		}
	}
	if len(s.Tips) > 0 {
		b.WriteString("\nTips:\n")
		for _, tip := range s.Tips {
			fmt.Fprintf(&b, "  * %s\n", tip)
		}
	}
	return []byte(b.String()), nil
}
