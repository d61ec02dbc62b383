package domain

import (
	"fmt"
	"sort"
	"strings"
)

const scheduleSystem = "You are Jarvis, a personal productivity assistant that builds realistic " +
	"time-blocked day plans. You answer with a single JSON object and nothing else."

// SchedulePrompt builds the system and user prompt for one day. prefs and
// observations add context; both may be empty.
func SchedulePrompt(date string, items []Item, prefs map[string]string, observations []string) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan my day for %s.\n\nTasks:\n", date)
	for _, it := range items {
		fmt.Fprintf(&b, "- %s", it.Description)
		var notes []string
		if it.DurationMinutes > 0 {
			notes = append(notes, fmt.Sprintf("%d min", it.DurationMinutes))
		}
		if it.Priority != "" {
			notes = append(notes, "priority "+it.Priority)
		}
		if it.Energy != "" {
			notes = append(notes, "energy "+it.Energy)
		}
		if it.FixedStart >= 0 {
			notes = append(notes, "fixed at "+FormatClock(it.FixedStart))
		}
		if it.Recurring {
			notes = append(notes, "recurring")
		}
		if len(notes) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(notes, ", "))
		}
		b.WriteString("\n")
	}

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
	if len(observations) > 0 {
		b.WriteString("\nRecent patterns:\n")
		for _, o := range observations {
			fmt.Fprintf(&b, "- %s\n", o)
		}
	}

	b.WriteString(`
Guidelines:
- Put demanding work in high-energy hours and routine work in low-energy hours.
- Keep fixed-time tasks at their time.
- Leave 10-15 minute buffers between blocks.
- Use the task text exactly as written above.

Respond with JSON:
{
  "schedule": [
    {"start": "09:00", "end": "10:30", "task": "<task text>", "reasoning": "why here", "energy": "high|medium|low"}
  ],
  "tips": ["short productivity tip"]
}
`)
	return scheduleSystem, b.String()
}
