package domain

import (
	"testing"
	"time"
)

func TestMentionedWeekday(t *testing.T) {
	t.Parallel()
	if d, ok := MentionedWeekday("Gym on Fridays at 6pm"); !ok || d != time.Friday {
		t.Fatalf("got %v %v", d, ok)
	}
	for _, in := range []string{"Write report", "Mondayish sync"} {
		if _, ok := MentionedWeekday(in); ok {
			t.Fatalf("%q must not name a weekday", in)
		}
	}
}

func TestSpreadBalancesFlexibleItems(t *testing.T) {
	t.Parallel()
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	items := []Item{
		{Description: "Gym on Wednesday", DurationMinutes: 60, FixedStart: -1},
		{Description: "Standup at 9am", DurationMinutes: 15, FixedStart: 9 * 60},
		{Description: "Deep work", DurationMinutes: 120, Priority: "high", FixedStart: -1},
		{Description: "Email", DurationMinutes: 30, Priority: "low", FixedStart: -1},
		{Description: "Review PRs", DurationMinutes: 45, FixedStart: -1},
		{Description: "Dentist on Sunday", FixedStart: -1},
	}
	plan := Spread(items, monday, 3)
	if len(plan) != 3 {
		t.Fatalf("expected 3 days, got %d", len(plan))
	}
	names := func(day []Item) []string {
		var out []string
		for _, it := range day {
			out = append(out, it.Description)
		}
		return out
	}
	// Sunday is out of range, so the dentist is balanced like any other item.
	want := [][]string{
		{"Standup at 9am", "Review PRs", "Dentist on Sunday"},
		{"Deep work"},
		{"Gym on Wednesday", "Email"},
	}
	for i := range want {
		got := names(plan[i])
		if len(got) != len(want[i]) {
			t.Fatalf("day %d = %v, want %v", i, got, want[i])
		}
		for j := range got {
			if got[j] != want[i][j] {
				t.Fatalf("day %d = %v, want %v", i, got, want[i])
			}
		}
	}
}
