package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekdays Frequency = "weekdays"
	FrequencyWeekends Frequency = "weekends"
	FrequencyDays     Frequency = "days"
	FrequencyCron     Frequency = "cron"
)

type RecurringTask struct {
	ID              string
	Name            string
	DurationMinutes int
	// PreferredTime is HH:MM or empty.
	PreferredTime string
	Frequency     Frequency
	Days          []time.Weekday
	CronExpr      string
	Active        bool
	CreatedAt     time.Time
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// ParseDays reads "mon,wed,fri" style lists. Full names work too.
func ParseDays(raw string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(raw, ",") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		if len(p) > 3 {
			p = p[:3]
		}
		d, ok := weekdayNames[p]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days = append(days, d)
	}
	return days, nil
}

func FormatDays(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		names = append(names, strings.ToLower(d.String()[:3]))
	}
	return strings.Join(names, ",")
}

func (r RecurringTask) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.DurationMinutes < 0 || r.DurationMinutes > 1440 {
		return fmt.Errorf("duration must be between 0 and 1440 minutes")
	}
	if r.PreferredTime != "" {
		if m, ok := ParseClock(r.PreferredTime); !ok || m >= lastStart {
			return fmt.Errorf("preferred time %q is not a clock time", r.PreferredTime)
		}
	}
	switch r.Frequency {
	case FrequencyDaily, FrequencyWeekdays, FrequencyWeekends:
	case FrequencyDays:
		if len(r.Days) == 0 {
			return fmt.Errorf("frequency %q needs at least one day", r.Frequency)
		}
	case FrequencyCron:
		if _, err := cron.ParseStandard(r.CronExpr); err != nil {
			return fmt.Errorf("parse cron expression %q: %w", r.CronExpr, err)
		}
	default:
		return fmt.Errorf("unknown frequency %q", r.Frequency)
	}
	return nil
}

// AppliesOn reports whether the task falls on day. Cron tasks apply when
// their next activation after the start of day is still within day.
func (r RecurringTask) AppliesOn(day time.Time) bool {
	if !r.Active {
		return false
	}
	wd := day.Weekday()
	switch r.Frequency {
	case FrequencyDaily:
		return true
	case FrequencyWeekdays:
		return wd != time.Saturday && wd != time.Sunday
	case FrequencyWeekends:
		return wd == time.Saturday || wd == time.Sunday
	case FrequencyDays:
		for _, d := range r.Days {
			if d == wd {
				return true
			}
		}
		return false
	case FrequencyCron:
		sched, err := cron.ParseStandard(r.CronExpr)
		if err != nil {
			return false
		}
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		next := sched.Next(start.Add(-time.Second))
		return !next.IsZero() && next.Before(start.AddDate(0, 0, 1))
	}
	return false
}

// Item converts the task into a schedule item.
func (r RecurringTask) Item() Item {
	fixed := -1
	if m, ok := ParseClock(r.PreferredTime); ok && r.PreferredTime != "" {
		fixed = m
	}
	return Item{
		Description:     r.Name,
		DurationMinutes: r.DurationMinutes,
		FixedStart:      fixed,
		Recurring:       true,
	}
}
