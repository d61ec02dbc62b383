package domain

import (
	"fmt"
	"sort"
	"strings"
)

const analysisSystem = "You are Jarvis, a concise personal productivity assistant. " +
	"You answer with a single JSON object and nothing else."

// AnalysisPrompt builds the system and user prompt for one task. prefs,
// recent and observations add context; any of them may be empty.
func AnalysisPrompt(t Task, prefs map[string]string, recent []Task, observations []string) (string, string) {
	var b strings.Builder
	b.WriteString("Analyze this task and help me plan it.\n\n")
	fmt.Fprintf(&b, "Task: %s\n", t.Description)
	writeMetadata(&b, t.Metadata)

	if len(prefs) > 0 {
		b.WriteString("\nWhat you know about me:\n")
		keys := make([]string, 0, len(prefs))
		for k := range prefs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, prefs[k])
		}
	}
	if len(recent) > 0 {
		b.WriteString("\nMy recent tasks:\n")
		for _, r := range recent {
			fmt.Fprintf(&b, "- %s (%s)\n", r.Description, r.Status)
		}
	}
	if len(observations) > 0 {
		b.WriteString("\nRecent patterns:\n")
		for _, o := range observations {
			fmt.Fprintf(&b, "- %s\n", o)
		}
	}

	b.WriteString(`
Respond with JSON using exactly these keys:
{
  "timing": "when in the day to do this and why",
  "prep_steps": ["preparation step", "..."],
  "success_criteria": ["how I know it is done", "..."],
  "duration_minutes": 45
}
`)
	return analysisSystem, b.String()
}

func writeMetadata(b *strings.Builder, m Metadata) {
	if m.DurationMinutes > 0 {
		fmt.Fprintf(b, "My estimate: %d minutes\n", m.DurationMinutes)
	}
	if m.Priority != "" {
		fmt.Fprintf(b, "Priority: %s\n", m.Priority)
	}
	if m.Energy != "" {
		fmt.Fprintf(b, "Energy needed: %s\n", m.Energy)
	}
	if m.Category != "" {
		fmt.Fprintf(b, "Category: %s\n", m.Category)
	}
	if m.Deadline != "" {
		fmt.Fprintf(b, "Deadline: %s\n", m.Deadline)
	}
	keys := make([]string, 0, len(m.Extra))
	for k := range m.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s: %s\n", k, m.Extra[k])
	}
}
