package domain

import (
	"testing"
	"time"
)

func TestRecurringAppliesOn(t *testing.T) {
	t.Parallel()
	// 2026-10-17 is a Saturday, 2026-10-19 a Monday.
	sat := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		task RecurringTask
		sat  bool
		mon  bool
	}{
		{"daily", RecurringTask{Frequency: FrequencyDaily, Active: true}, true, true},
		{"weekdays", RecurringTask{Frequency: FrequencyWeekdays, Active: true}, false, true},
		{"weekends", RecurringTask{Frequency: FrequencyWeekends, Active: true}, true, false},
		{"days", RecurringTask{Frequency: FrequencyDays, Days: []time.Weekday{time.Monday}, Active: true}, false, true},
		{"cron monday", RecurringTask{Frequency: FrequencyCron, CronExpr: "30 7 * * 1", Active: true}, false, true},
		{"cron midnight saturday", RecurringTask{Frequency: FrequencyCron, CronExpr: "0 0 * * 6", Active: true}, true, false},
		{"inactive", RecurringTask{Frequency: FrequencyDaily}, false, false},
	}
	for _, tc := range cases {
		if got := tc.task.AppliesOn(sat); got != tc.sat {
			t.Fatalf("%s on saturday = %v", tc.name, got)
		}
		if got := tc.task.AppliesOn(mon); got != tc.mon {
			t.Fatalf("%s on monday = %v", tc.name, got)
		}
	}
}

func TestRecurringValidate(t *testing.T) {
	t.Parallel()
	valid := RecurringTask{Name: "Water plants", Frequency: FrequencyCron, CronExpr: "0 8 */2 * *", PreferredTime: "8:00 am"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	bad := []RecurringTask{
		{Frequency: FrequencyDaily},
		{Name: "x", Frequency: "hourly"},
		{Name: "x", Frequency: FrequencyDays},
		{Name: "x", Frequency: FrequencyCron, CronExpr: "not cron"},
		{Name: "x", Frequency: FrequencyDaily, PreferredTime: "soon"},
		{Name: "x", Frequency: FrequencyDaily, PreferredTime: "24:00"},
	}
	for _, r := range bad {
		if err := r.Validate(); err == nil {
			t.Fatalf("expected error for %+v", r)
		}
	}
}

func TestParseDays(t *testing.T) {
	t.Parallel()
	days, err := ParseDays("Mon, wednesday,fri")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if FormatDays(days) != "mon,wed,fri" {
		t.Fatalf("unexpected days: %v", days)
	}
	if _, err := ParseDays("mon,funday"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRecurringItemUsesPreferredTime(t *testing.T) {
	t.Parallel()
	it := RecurringTask{Name: "Walk", PreferredTime: "18:30", DurationMinutes: 20}.Item()
	if it.FixedStart != 18*60+30 || !it.Recurring || it.Description != "Walk" {
		t.Fatalf("unexpected item: %+v", it)
	}
	if (RecurringTask{Name: "Read"}).Item().FixedStart != -1 {
		t.Fatalf("expected floating item")
	}
}
