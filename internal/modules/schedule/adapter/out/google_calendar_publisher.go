package out

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
	apperrors "jarvis/internal/platform/errors"
)

const (
	propScheduleID = "jarvis_schedule_id"
	propDate       = "jarvis_date"
)

// ConnectFunc opens a Calendar service on demand so commands that never
// publish do not need a token.
type ConnectFunc func(ctx context.Context) (*calendar.Service, error)

type GoogleCalendarPublisher struct {
	connect    ConnectFunc
	calendarID string
	loc        *time.Location
}

func NewGoogleCalendarPublisher(connect ConnectFunc, calendarID string, loc *time.Location) scheduleout.CalendarPublisher {
	if loc == nil {
		loc = time.Local
	}
	return &GoogleCalendarPublisher{connect: connect, calendarID: calendarID, loc: loc}
}

func (p *GoogleCalendarPublisher) Calendar() string {
	return p.calendarID
}

// Publish removes the events of any earlier publish for the same date, then
// inserts one event per entry.
func (p *GoogleCalendarPublisher) Publish(ctx context.Context, s domain.Schedule) (int, error) {
	srv, err := p.connect(ctx)
	if err != nil {
		return 0, err
	}

	var stale []string
	err = srv.Events.List(p.calendarID).
		PrivateExtendedProperty(propDate+"="+s.Date).
		ShowDeleted(false).
		Pages(ctx, func(page *calendar.Events) error {
			for _, ev := range page.Items {
				stale = append(stale, ev.Id)
			}
			return nil
		})
	if err != nil {
		return 0, fmt.Errorf("%w: list calendar events: %v", apperrors.ErrCalendarUnavailable, err)
	}
	for _, id := range stale {
		if err := srv.Events.Delete(p.calendarID, id).Context(ctx).Do(); err != nil {
			return 0, fmt.Errorf("%w: delete calendar event %s: %v", apperrors.ErrCalendarUnavailable, id, err)
		}
	}

	created := 0
	for _, entry := range s.Entries {
		ev, err := p.toEvent(s, entry)
		if err != nil {
			return created, err
		}
		if _, err := srv.Events.Insert(p.calendarID, ev).Context(ctx).Do(); err != nil {
			return created, fmt.Errorf("%w: insert calendar event: %v", apperrors.ErrCalendarUnavailable, err)
		}
		created++
	}
	return created, nil
}

func (p *GoogleCalendarPublisher) toEvent(s domain.Schedule, entry domain.Entry) (*calendar.Event, error) {
	start, end, err := entry.At(s.Date, p.loc)
	if err != nil {
		return nil, err
	}
	var desc strings.Builder
	if entry.Reasoning != "" {
		desc.WriteString(entry.Reasoning)
		desc.WriteString("\n")
	}
	if entry.Energy != "" {
		fmt.Fprintf(&desc, "Energy: %s\n", entry.Energy)
	}
	return &calendar.Event{
		Summary:     entry.Task,
		Description: desc.String(),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				propScheduleID: s.ID,
				propDate:       s.Date,
			},
		},
	}, nil
}
