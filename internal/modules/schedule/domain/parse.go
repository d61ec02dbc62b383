package domain

import (
	"sort"
	"strings"

	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/llmjson"
)

type entryReply struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Time      string `json:"time"`
	Task      string `json:"task"`
	Reasoning string `json:"reasoning"`
	Energy    string `json:"energy"`
}

type scheduleReply struct {
	Schedule []entryReply       `json:"schedule"`
	Tips     llmjson.StringList `json:"tips"`
}

// ParseSchedule turns a model reply into entries that each name one of
// inputs. Entries naming anything else, or with unusable times, are dropped,
// so the result may be shorter than inputs. No surviving entry is an error.
func ParseSchedule(raw string, inputs []string) ([]Entry, []string, error) {
	var reply scheduleReply
	if err := llmjson.Decode(raw, &reply); err != nil {
		return nil, nil, apperrors.NewParseError("schedule", err.Error(), raw)
	}

	entries := make([]Entry, 0, len(reply.Schedule))
	for _, r := range reply.Schedule {
		start, end := r.Start, r.End
		if start == "" && r.Time != "" {
			start, end = splitRange(r.Time)
		}
		startMin, okStart := ParseClock(start)
		endMin, okEnd := ParseClock(end)
		if !okStart || !okEnd || endMin <= startMin {
			continue
		}
		task, ok := MatchInput(r.Task, inputs)
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Start:     FormatClock(startMin),
			End:       FormatClock(endMin),
			Task:      task,
			Reasoning: strings.TrimSpace(r.Reasoning),
			Energy:    strings.ToLower(strings.TrimSpace(r.Energy)),
		})
	}
	if len(entries) == 0 {
		return nil, nil, apperrors.NewParseError("schedule", "no entry matches an input task", raw)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartMinutes() < entries[j].StartMinutes()
	})
	return entries, reply.Tips, nil
}

// MatchInput maps a model-written task name back to the input description
// it refers to: exact match first, then containment either way.
func MatchInput(name string, inputs []string) (string, bool) {
	n := normalize(name)
	if n == "" {
		return "", false
	}
	for _, in := range inputs {
		if normalize(in) == n {
			return in, true
		}
	}
	for _, in := range inputs {
		ni := normalize(in)
		if ni != "" && (strings.Contains(n, ni) || strings.Contains(ni, n)) {
			return in, true
		}
	}
	return "", false
}

func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Trim(strings.TrimSpace(s), ".,;:!\"'")
	return strings.Join(strings.Fields(s), " ")
}

func splitRange(r string) (string, string) {
	for _, sep := range []string{"–", "—", " to ", "-"} {
		if before, after, ok := strings.Cut(r, sep); ok {
			return strings.TrimSpace(before), strings.TrimSpace(after)
		}
	}
	return r, ""
}
