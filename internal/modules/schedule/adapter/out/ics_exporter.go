package out

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"jarvis/internal/modules/schedule/domain"
	scheduleout "jarvis/internal/modules/schedule/port/out"
)

// eventNamespace seeds event UIDs so re-exporting a schedule yields the same
// UIDs and calendar apps update events instead of duplicating them.
var eventNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("jarvis/schedule-event"))

const floatingTimeLayout = "20060102T150405"

type ICSExporter struct {
	now func() time.Time
}

func NewICSExporter(now func() time.Time) scheduleout.Exporter {
	return ICSExporter{now: now}
}

func (ICSExporter) Format() string    { return "ics" }
func (ICSExporter) Extension() string { return ".ics" }

// Export writes floating local times, so events land at the same wall-clock
// time wherever the file is imported.
func (e ICSExporter) Export(s domain.Schedule) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetProductId("-//jarvis//schedule//EN")
	cal.SetMethod(ics.MethodPublish)
	cal.SetCalscale("GREGORIAN")
	cal.SetXWRCalName("Jarvis " + s.Date)
	stamp := e.now()

	for i, entry := range s.Entries {
		start, end, err := entry.At(s.Date, time.UTC)
		if err != nil {
			return nil, err
		}
		uid := uuid.NewSHA1(eventNamespace, []byte(fmt.Sprintf("%s/%d/%s", s.ID, i, entry.Task)))
		event := cal.AddEvent(uid.String() + "@jarvis")
		event.SetDtStampTime(stamp)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(floatingTimeLayout))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(floatingTimeLayout))
		event.SetSummary(entry.Task)
		if entry.Reasoning != "" {
			event.SetDescription(entry.Reasoning)
		}
		if entry.Energy != "" {
			event.AddCategory(strings.ToUpper(entry.Energy) + " ENERGY")
		}
	}

	var b strings.Builder
	if err := cal.SerializeTo(&b, ics.WithNewLineWindows); err != nil {
		return nil, fmt.Errorf("serialize calendar: %w", err)
	}
	return []byte(b.String()), nil
}
