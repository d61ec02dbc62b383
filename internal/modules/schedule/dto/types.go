package dto

import "time"

type SuggestInput struct {
	// Date is YYYY-MM-DD; empty means today.
	Date           string
	Tasks          []string
	IncludePending bool
	// Offline plans without the model.
	Offline bool
}

type WeekInput struct {
	// Start is YYYY-MM-DD; empty means today.
	Start string
	// Days defaults to 7.
	Days           int
	Tasks          []string
	IncludePending bool
	Offline        bool
}

type EntryOutput struct {
	Start     string
	End       string
	Task      string
	Reasoning string
	Energy    string
}

type ScheduleOutput struct {
	ID        string
	Date      string
	Entries   []EntryOutput
	Tips      []string
	RawText   string
	Source    string
	Active    bool
	CreatedAt time.Time
}

// ScheduleRef selects a schedule by id, or the active one for a date.
type ScheduleRef struct {
	ID   string
	Date string
}

type ExportInput struct {
	Ref    ScheduleRef
	Format string
}

type ExportOutput struct {
	ScheduleID string
	Format     string
	Path       string
	Bytes      int
}

type PublishOutput struct {
	ScheduleID string
	Calendar   string
	Events     int
}

type RecurringInput struct {
	Name            string
	DurationMinutes int
	PreferredTime   string
	Frequency       string
	Days            string
	CronExpr        string
}

type RecurringOutput struct {
	ID              string
	Name            string
	DurationMinutes int
	PreferredTime   string
	Frequency       string
	Days            string
	CronExpr        string
	Active          bool
	CreatedAt       time.Time
}
