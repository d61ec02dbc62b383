package domain

import (
	"fmt"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// Item is one thing to place on the day.
type Item struct {
	TaskID          string
	Description     string
	DurationMinutes int
	Priority        string
	Energy          string
	// FixedStart is minutes after midnight, or -1 when the item can float.
	FixedStart int
	Recurring  bool
}

// Entry is one placed block. Start and End are HH:MM on a 24h clock.
type Entry struct {
	Start     string
	End       string
	Task      string
	Reasoning string
	Energy    string
}

// Schedule is a day plan. Only one schedule per date is active; earlier ones
// stay on record.
type Schedule struct {
	ID        string
	Date      string
	Entries   []Entry
	Tips      []string
	RawText   string
	Source    string
	Active    bool
	CreatedAt time.Time
}

const (
	SourceModel = "model"
	SourceDraft = "draft"
)

func ParseDate(raw string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD", raw)
	}
	return d, nil
}

func (e Entry) StartMinutes() int {
	m, _ := ParseClock(e.Start)
	return m
}

func (e Entry) EndMinutes() int {
	m, _ := ParseClock(e.End)
	return m
}

func (e Entry) Minutes() int {
	return e.EndMinutes() - e.StartMinutes()
}

// At resolves the entry's wall-clock times on date in loc.
func (e Entry) At(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse schedule date: %w", err)
	}
	start := day.Add(time.Duration(e.StartMinutes()) * time.Minute)
	end := day.Add(time.Duration(e.EndMinutes()) * time.Minute)
	return start, end, nil
}

func (s Schedule) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return fmt.Errorf("id is required")
	}
	if _, err := ParseDate(s.Date); err != nil {
		return err
	}
	if len(s.Entries) == 0 {
		return fmt.Errorf("schedule has no entries")
	}
	for _, e := range s.Entries {
		if e.EndMinutes() <= e.StartMinutes() {
			return fmt.Errorf("entry %q ends before it starts", e.Task)
		}
	}
	return nil
}
