package usecase_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	taskout "jarvis/internal/modules/task/adapter/out"
	"jarvis/internal/modules/task/dto"
	taskin "jarvis/internal/modules/task/port/in"
	"jarvis/internal/modules/task/service"
	"jarvis/internal/modules/task/usecase"
	"jarvis/internal/platform/clock"
	apperrors "jarvis/internal/platform/errors"
	"jarvis/internal/platform/id"
	"jarvis/internal/platform/logging"
	"jarvis/internal/platform/sqlite"
	"jarvis/internal/platform/tx"
)

const validReply = `{"timing": "9-11am while fresh", "prep_steps": ["Collect numbers", "Outline"], "success_criteria": ["Report sent"], "duration_minutes": 75}`

type stubCompleter struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubCompleter) Complete(_ context.Context, _, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

type fakePrefs struct {
	prefs        map[string]string
	observations []string
}

func (f *fakePrefs) Preferences(context.Context) (map[string]string, error) { return f.prefs, nil }
func (f *fakePrefs) Set(_ context.Context, key, value string) error {
	f.prefs[key] = value
	return nil
}
func (f *fakePrefs) RecentObservations(_ context.Context, limit int) ([]string, error) {
	return f.observations[:min(limit, len(f.observations))], nil
}
func (f *fakePrefs) Observe(_ context.Context, kind, detail string) error {
	f.observations = append(f.observations, kind+" "+detail)
	return nil
}

type harness struct {
	uc        taskin.Usecase
	db        *sql.DB
	completer *stubCompleter
	prefs     *fakePrefs
}

func newHarness(t *testing.T) harness {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "jarvis.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	tasks, err := taskout.NewSQLiteTaskStore(db)
	if err != nil {
		t.Fatalf("task store: %v", err)
	}
	analyses, err := taskout.NewSQLiteAnalysisStore(db)
	if err != nil {
		t.Fatalf("analysis store: %v", err)
	}
	completer := &stubCompleter{reply: validReply}
	prefs := &fakePrefs{prefs: map[string]string{"peak_energy": "morning"}}
	clk := clock.Fixed(time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC))
	svc := service.NewTaskService(clk, id.NewULID(), tasks, analyses, completer, prefs, tx.NewSQLManager(db), logging.Discard())
	return harness{uc: usecase.NewInteractor(svc), db: db, completer: completer, prefs: prefs}
}

func (h harness) count(t *testing.T, table string) int {
	t.Helper()
	var n int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestAnalyzeTaskPersistsTaskAndOneAnalysis(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.prefs.observations = []string{"completion_time task=t0 hour=09 energy=high"}
	out, err := h.uc.AnalyzeTask(context.Background(), dto.TaskInput{Description: "Write Q3 report", Priority: "high"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(h.completer.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(h.completer.prompts))
	}
	if !strings.Contains(h.completer.prompts[0], "peak_energy: morning") {
		t.Fatalf("preferences missing from prompt")
	}
	if !strings.Contains(h.completer.prompts[0], "completion_time task=t0 hour=09") {
		t.Fatalf("observations missing from prompt:\n%s", h.completer.prompts[0])
	}
	if h.count(t, "tasks") != 1 || h.count(t, "analyses") != 1 {
		t.Fatalf("expected one task and one analysis")
	}

	detail, err := h.uc.GetTask(context.Background(), out.Task.ID)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if len(detail.Analyses) != 1 {
		t.Fatalf("expected one analysis, got %d", len(detail.Analyses))
	}
	a := detail.Analyses[0]
	if a.TaskID != out.Task.ID || a.Timing != "9-11am while fresh" || a.DurationMinutes != 75 || len(a.PrepSteps) != 2 || a.SuccessCriteria[0] != "Report sent" {
		t.Fatalf("stored analysis does not match reply: %+v", a)
	}
	if detail.Task.DurationMinutes != 75 || detail.Task.Priority != "high" {
		t.Fatalf("unexpected stored task: %+v", detail.Task)
	}
}

func TestAnalyzeTaskFailuresPersistNothing(t *testing.T) {
	t.Parallel()
	cases := map[string]*stubCompleter{
		"model error":  {err: apperrors.ErrModelRequest},
		"unparseable":  {reply: "Just do it in the morning."},
		"missing keys": {reply: `{"timing": "am"}`},
	}
	for name, completer := range cases {
		h := newHarness(t)
		h.completer.reply, h.completer.err = completer.reply, completer.err
		_, err := h.uc.AnalyzeTask(context.Background(), dto.TaskInput{Description: "Write Q3 report"})
		if err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if h.count(t, "tasks") != 0 || h.count(t, "analyses") != 0 {
			t.Fatalf("%s: expected no rows after failure", name)
		}
	}
}

func TestAnalyzeTaskRejectsBadInputBeforeCallingModel(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	for _, input := range []dto.TaskInput{{Description: "   "}, {Description: "x", Priority: "urgent"}} {
		if _, err := h.uc.AnalyzeTask(context.Background(), input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("expected invalid input for %+v, got %v", input, err)
		}
	}
	if len(h.completer.prompts) != 0 {
		t.Fatalf("model must not be called for invalid input")
	}
}

func TestReanalyzeAppendsHistory(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	out, err := h.uc.AnalyzeTask(context.Background(), dto.TaskInput{Description: "Write Q3 report"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := h.uc.ReanalyzeTask(context.Background(), out.Task.ID); err != nil {
		t.Fatalf("reanalyze: %v", err)
	}
	detail, err := h.uc.GetTask(context.Background(), out.Task.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(detail.Analyses) != 2 || h.count(t, "tasks") != 1 {
		t.Fatalf("expected two analyses for one task, got %d", len(detail.Analyses))
	}
	if _, err := h.uc.ReanalyzeTask(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCompleteTaskRecordsAccuracy(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	added, err := h.uc.AddTask(context.Background(), dto.TaskInput{Description: "Inbox zero", DurationMinutes: 30, Energy: "low"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	out, err := h.uc.CompleteTask(context.Background(), dto.CompleteInput{TaskID: added.ID, ActualMinutes: 48})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out.Estimate != 30 || out.AccuracyScore != 7 || out.Task.Status != "completed" {
		t.Fatalf("unexpected completion: %+v", out)
	}
	if len(h.prefs.observations) != 2 || !strings.HasPrefix(h.prefs.observations[0], "estimate_accuracy") {
		t.Fatalf("unexpected observations: %v", h.prefs.observations)
	}
	wantHour := fmt.Sprintf("%02d", time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC).Local().Hour())
	if got := h.prefs.prefs["last_completion_hour"]; got != wantHour {
		t.Fatalf("last_completion_hour = %q, want %q", got, wantHour)
	}
	pending, err := h.uc.PendingTasks(context.Background(), 0)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("completed task still pending")
	}
	if _, err := h.uc.CompleteTask(context.Background(), dto.CompleteInput{TaskID: added.ID, ActualMinutes: 10}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected second completion to fail, got %v", err)
	}
}

func TestProductivitySummarizesStoredTasks(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()
	analyzed, err := h.uc.AnalyzeTask(ctx, dto.TaskInput{Description: "Write Q3 report", Category: "work"})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, err := h.uc.AddTask(ctx, dto.TaskInput{Description: "Plan sprint", Category: "work"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := h.uc.AddTask(ctx, dto.TaskInput{Description: "Call plumber"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	// the analysis estimated 75 minutes
	if _, err := h.uc.CompleteTask(ctx, dto.CompleteInput{TaskID: analyzed.Task.ID, ActualMinutes: 90}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	out, err := h.uc.Productivity(ctx)
	if err != nil {
		t.Fatalf("productivity: %v", err)
	}
	if out.Pending != 2 || out.Completed != 1 || len(out.Categories) != 2 {
		t.Fatalf("unexpected report: %+v", out)
	}
	work := out.Categories[1]
	if work.Category != "work" || work.Total != 2 || work.Completed != 1 || work.Rate != 0.5 {
		t.Fatalf("unexpected work stats: %+v", work)
	}
	if out.EstimateSamples != 1 || out.MeanScore != 8 || out.Underestimated != 1 || out.MeanErrorMinutes != 15 {
		t.Fatalf("unexpected estimate stats: %+v", out)
	}
}
