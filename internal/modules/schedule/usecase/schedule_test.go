package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	scheduleadapter "jarvis/internal/modules/schedule/adapter/out"
	"jarvis/internal/modules/schedule/domain"
	"jarvis/internal/modules/schedule/dto"
	schedulein "jarvis/internal/modules/schedule/port/in"
	scheduleout "jarvis/internal/modules/schedule/port/out"
	"jarvis/internal/modules/schedule/service"
	"jarvis/internal/modules/schedule/usecase"
	"jarvis/internal/platform/clock"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/id"
	"jarvis/internal/platform/logging"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

const threeTaskReply = `Here is a plan.
{"schedule": [
  {"start": "09:00", "end": "10:30", "task": "Write report", "reasoning": "morning focus", "energy": "high"},
  {"start": "11:00", "end": "11:30", "task": "Email", "reasoning": "quick win", "energy": "low"},
  {"start": "2:00 PM", "end": "3:00 PM", "task": "Gym", "reasoning": "afternoon slump", "energy": "medium"}
],
"tips": ["Take breaks"]}`

type stubCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

type fakePrefs map[string]string

func (f fakePrefs) Preferences(context.Context) (map[string]string, error) { return f, nil }
func (f fakePrefs) RecentObservations(context.Context, int) ([]string, error) {
	return []string{"completion_time: task=t0 hour=16 energy=low"}, nil
}

type fakeTasks []domain.Item

func (f fakeTasks) PendingItems(context.Context, int) ([]domain.Item, error) { return f, nil }

type fakePublisher struct {
	published []domain.Schedule
}

func (f *fakePublisher) Calendar() string { return "primary" }
func (f *fakePublisher) Publish(_ context.Context, s domain.Schedule) (int, error) {
	f.published = append(f.published, s)
	return len(s.Entries), nil
}

type harness struct {
	uc        schedulein.Usecase
	db        *sql.DB
	completer *stubCompleter
	publisher *fakePublisher
	exportDir string
}

func newHarness(t *testing.T, pending fakeTasks) harness {
	t.Helper()
	dir := t.TempDir()
	db, err := sqlite.Open(filepath.Join(dir, "jarvis.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	schedules, err := scheduleadapter.NewSQLiteScheduleStore(db)
	if err != nil {
		t.Fatalf("schedule store: %v", err)
	}
	recurring, err := scheduleadapter.NewSQLiteRecurringStore(db)
	if err != nil {
		t.Fatalf("recurring store: %v", err)
	}
	exportDir := filepath.Join(dir, "exports")
	artifacts, err := scheduleadapter.NewLocalArtifactStore(exportDir)
	if err != nil {
		t.Fatalf("artifact store: %v", err)
	}
	clk := clock.Fixed(time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC))
	exporters := []scheduleout.Exporter{
		scheduleadapter.NewICSExporter(clk.Now),
		scheduleadapter.NewTextExporter(),
		scheduleadapter.NewMarkdownExporter(),
		scheduleadapter.NewHTMLExporter(),
	}
	completer := &stubCompleter{reply: threeTaskReply}
	publisher := &fakePublisher{}
	svc := service.NewScheduleService(clk, id.NewULID(), schedules, recurring, completer,
		fakePrefs{"peak_energy": "morning"}, pending, exporters, artifacts, publisher,
		tx.NewSQLManager(db), logging.Discard())
	return harness{uc: usecase.NewInteractor(svc), db: db, completer: completer, publisher: publisher, exportDir: exportDir}
}

func (h harness) count(t *testing.T, query string) int {
	t.Helper()
	var n int
	if err := h.db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func TestSuggestScheduleReferencesEveryInput(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	inputs := []string{"Write report", "Gym", "Email"}
	out, err := h.uc.SuggestSchedule(context.Background(), dto.SuggestInput{Date: "2026-03-02", Tasks: inputs})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(out.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %+v", out.Entries)
	}
	seen := map[string]bool{}
	for _, e := range out.Entries {
		seen[e.Task] = true
	}
	for _, in := range inputs {
		if !seen[in] {
			t.Fatalf("input %q not placed", in)
		}
	}
	if out.Entries[2].Start != "14:00" || !out.Active || out.Source != domain.SourceModel {
		t.Fatalf("unexpected schedule: %+v", out)
	}
	if !strings.Contains(h.completer.prompts[0], "peak_energy: morning") {
		t.Fatalf("preferences missing from prompt")
	}
	if !strings.Contains(h.completer.prompts[0], "Recent patterns:\n- completion_time: task=t0 hour=16") {
		t.Fatalf("observations missing from prompt:\n%s", h.completer.prompts[0])
	}

	stored, err := h.uc.GetSchedule(context.Background(), dto.ScheduleRef{Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.ID != out.ID || len(stored.Entries) != 3 || stored.Tips[0] != "Take breaks" {
		t.Fatalf("stored schedule differs: %+v", stored)
	}
}

func TestSuggestScheduleFailuresPersistNothing(t *testing.T) {
	t.Parallel()
	cases := map[string]struct {
		reply string
		err   error
		want  error
	}{
		"model error": {err: apperrors.ErrModelRequest, want: apperrors.ErrModelRequest},
		"unparseable": {reply: "no idea", want: apperrors.ErrUnparseableResponse},
		"no matches":  {reply: `{"schedule":[{"start":"09:00","end":"10:00","task":"Nap"}]}`, want: apperrors.ErrUnparseableResponse},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t, nil)
			h.completer.reply, h.completer.err = tc.reply, tc.err
			_, err := h.uc.SuggestSchedule(context.Background(), dto.SuggestInput{Date: "2026-03-02", Tasks: []string{"Gym"}})
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if n := h.count(t, `SELECT COUNT(*) FROM schedules`); n != 0 {
				t.Fatalf("expected no schedules, got %d", n)
			}
		})
	}
}

func TestSuggestScheduleValidatesBeforeCallingModel(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	for _, in := range []dto.SuggestInput{
		{Date: "2026-03-02", Tasks: []string{"  "}},
		{Date: "03/02/2026", Tasks: []string{"Gym"}},
	} {
		if _, err := h.uc.SuggestSchedule(context.Background(), in); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", in, err)
		}
	}
	if len(h.completer.prompts) != 0 {
		t.Fatalf("model should not be called")
	}
}

func TestSameDateSchedulingSupersedes(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	in := dto.SuggestInput{Date: "2026-03-02", Tasks: []string{"Write report", "Gym", "Email"}}
	first, err := h.uc.SuggestSchedule(ctx, in)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := h.uc.SuggestSchedule(ctx, in)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if n := h.count(t, `SELECT COUNT(*) FROM schedules WHERE date = '2026-03-02'`); n != 2 {
		t.Fatalf("expected both schedules kept, got %d", n)
	}
	if n := h.count(t, `SELECT COUNT(*) FROM schedules WHERE active = 1`); n != 1 {
		t.Fatalf("expected one active schedule, got %d", n)
	}
	active, err := h.uc.GetSchedule(ctx, dto.ScheduleRef{Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("expected latest schedule active")
	}
	old, err := h.uc.GetSchedule(ctx, dto.ScheduleRef{ID: first.ID})
	if err != nil || old.Active {
		t.Fatalf("first schedule should be inactive: %+v %v", old, err)
	}
}

func TestSuggestScheduleMergesPendingAndRecurring(t *testing.T) {
	t.Parallel()
	pending := fakeTasks{{TaskID: "t1", Description: "Email", Priority: "low", FixedStart: -1}}
	h := newHarness(t, pending)
	ctx := context.Background()
	if _, err := h.uc.AddRecurring(ctx, dto.RecurringInput{Name: "Gym", DurationMinutes: 60, Frequency: "weekdays", PreferredTime: "2pm"}); err != nil {
		t.Fatalf("add recurring: %v", err)
	}
	if _, err := h.uc.AddRecurring(ctx, dto.RecurringInput{Name: "Brunch", Frequency: "weekends"}); err != nil {
		t.Fatalf("add recurring: %v", err)
	}

	// 2026-03-02 is a Monday.
	out, err := h.uc.SuggestSchedule(ctx, dto.SuggestInput{Date: "2026-03-02", Tasks: []string{"Write report at 9:00"}, IncludePending: true})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	prompt := h.completer.prompts[0]
	for _, want := range []string{"Write report at 9:00 (fixed at 09:00)", "- Email (priority low)", "- Gym (60 min, fixed at 14:00, recurring)"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
	if strings.Contains(prompt, "Brunch") {
		t.Fatalf("weekend task leaked into a weekday")
	}
	if len(out.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %+v", out.Entries)
	}
}

func TestOfflineDraftSkipsModel(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	out, err := h.uc.SuggestSchedule(context.Background(), dto.SuggestInput{Date: "2026-03-02", Tasks: []string{"Gym", "Standup at 9:30am"}, Offline: true})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(h.completer.prompts) != 0 || out.Source != domain.SourceDraft || len(out.Entries) != 2 {
		t.Fatalf("unexpected draft: %+v", out)
	}
}

func TestExportAndPublishActiveSchedule(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	sched, err := h.uc.SuggestSchedule(ctx, dto.SuggestInput{Date: "2026-03-02", Tasks: []string{"Write report", "Gym", "Email"}})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}

	for _, format := range h.uc.ExportFormats() {
		out, err := h.uc.ExportSchedule(ctx, dto.ExportInput{Ref: dto.ScheduleRef{Date: "2026-03-02"}, Format: format})
		if err != nil {
			t.Fatalf("export %s: %v", format, err)
		}
		if filepath.Dir(out.Path) != h.exportDir || !strings.HasPrefix(filepath.Base(out.Path), "schedule-2026-03-02") {
			t.Fatalf("unexpected export path %s", out.Path)
		}
		data, err := os.ReadFile(out.Path)
		if err != nil || len(data) != out.Bytes || !strings.Contains(string(data), "Write report") {
			t.Fatalf("export %s not written correctly: %v", format, err)
		}
	}
	if _, err := h.uc.ExportSchedule(ctx, dto.ExportInput{Ref: dto.ScheduleRef{ID: sched.ID}, Format: "pdf"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid format error, got %v", err)
	}

	pub, err := h.uc.PublishSchedule(ctx, dto.ScheduleRef{Date: "2026-03-02"})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if pub.Events != 3 || pub.ScheduleID != sched.ID || len(h.publisher.published) != 1 {
		t.Fatalf("unexpected publish: %+v", pub)
	}
	if _, err := h.uc.PublishSchedule(ctx, dto.ScheduleRef{Date: "2026-03-03"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found for unscheduled date, got %v", err)
	}
}

func TestRecurringLifecycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	r, err := h.uc.AddRecurring(ctx, dto.RecurringInput{Name: "Review inbox", Days: "mon,thu", PreferredTime: "4:30 pm"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if r.Frequency != "days" || r.PreferredTime != "16:30" || r.Days != "mon,thu" {
		t.Fatalf("unexpected recurring: %+v", r)
	}
	if _, err := h.uc.AddRecurring(ctx, dto.RecurringInput{Name: "Bad", CronExpr: "every day"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid cron, got %v", err)
	}
	if err := h.uc.RemoveRecurring(ctx, r.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	active, _ := h.uc.ListRecurring(ctx, false)
	all, _ := h.uc.ListRecurring(ctx, true)
	if len(active) != 0 || len(all) != 1 || all[0].Active {
		t.Fatalf("unexpected lists: %+v %+v", active, all)
	}
	if err := h.uc.RemoveRecurring(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSuggestWeekSpreadsTasksAcrossDays(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	ctx := context.Background()
	out, err := h.uc.SuggestWeek(ctx, dto.WeekInput{
		Start:   "2026-03-02",
		Days:    3,
		Tasks:   []string{"Gym on Wednesday", "Deep work"},
		Offline: true,
	})
	if err != nil {
		t.Fatalf("week: %v", err)
	}
	if len(out) != 2 || out[0].Date != "2026-03-02" || out[1].Date != "2026-03-04" {
		t.Fatalf("unexpected week: %+v", out)
	}
	if out[0].Entries[0].Task != "Deep work" || out[1].Entries[0].Task != "Gym on Wednesday" {
		t.Fatalf("tasks on wrong days: %+v", out)
	}
	if len(h.completer.prompts) != 0 {
		t.Fatalf("offline week must not call the model")
	}
	if n := h.count(t, `SELECT COUNT(*) FROM schedules WHERE active = 1`); n != 2 {
		t.Fatalf("expected 2 active schedules, got %d", n)
	}
	stored, err := h.uc.GetSchedule(ctx, dto.ScheduleRef{Date: "2026-03-04"})
	if err != nil || stored.ID != out[1].ID {
		t.Fatalf("wednesday not stored: %+v %v", stored, err)
	}

	if _, err := h.uc.SuggestWeek(ctx, dto.WeekInput{Start: "2026-03-02", Days: 30, Tasks: []string{"x"}}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for a long range, got %v", err)
	}
}

func TestSuggestWeekStoresNothingWhenOneDayFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t, nil)
	h.completer.err = apperrors.ErrModelRequest
	_, err := h.uc.SuggestWeek(context.Background(), dto.WeekInput{Start: "2026-03-02", Days: 2, Tasks: []string{"Write report", "Gym"}})
	if !errors.Is(err, apperrors.ErrModelRequest) {
		t.Fatalf("expected model error, got %v", err)
	}
	if n := h.count(t, `SELECT COUNT(*) FROM schedules`); n != 0 {
		t.Fatalf("expected no schedules, got %d", n)
	}
}
