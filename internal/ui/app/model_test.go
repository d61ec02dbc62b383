package app

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	completiondto "jarvis/internal/modules/completion/dto"
	scheduledto "jarvis/internal/modules/schedule/dto"
	taskdto "jarvis/internal/modules/task/dto"
	"jarvis/internal/ui/components"
	tasksview "jarvis/internal/ui/views/tasks"
)

type fakeTasks struct {
	completed map[string]int
}

func (f *fakeTasks) Add(_ context.Context, in taskdto.TaskInput) (taskdto.TaskOutput, error) {
	return taskdto.TaskOutput{ID: "t1", Description: in.Description}, nil
}
func (f *fakeTasks) Analyze(_ context.Context, in taskdto.TaskInput) (taskdto.AnalyzeOutput, error) {
	return taskdto.AnalyzeOutput{Task: taskdto.TaskOutput{ID: "t1", Description: in.Description}}, nil
}
func (f *fakeTasks) Reanalyze(_ context.Context, id string) (taskdto.AnalyzeOutput, error) {
	return taskdto.AnalyzeOutput{Task: taskdto.TaskOutput{ID: id}}, nil
}
func (f *fakeTasks) List(context.Context, int, bool) ([]taskdto.TaskOutput, error) {
	return []taskdto.TaskOutput{{ID: "t1", Description: "Write report", Status: "pending"}}, nil
}
func (f *fakeTasks) Show(_ context.Context, id string) (taskdto.TaskDetailOutput, error) {
	return taskdto.TaskDetailOutput{Task: taskdto.TaskOutput{ID: id, Description: "Write report"}}, nil
}
func (f *fakeTasks) Complete(_ context.Context, id string, minutes int) (taskdto.CompleteOutput, error) {
	f.completed[id] = minutes
	return taskdto.CompleteOutput{Task: taskdto.TaskOutput{ID: id, Description: "Write report"}, Estimate: 45, AccuracyScore: 8}, nil
}
func (f *fakeTasks) Delete(context.Context, string) error { return nil }

type fakeSchedules struct {
	last scheduledto.SuggestInput
}

func (f *fakeSchedules) Suggest(_ context.Context, in scheduledto.SuggestInput) (scheduledto.ScheduleOutput, error) {
	f.last = in
	return scheduledto.ScheduleOutput{ID: "s1", Date: in.Date, Entries: []scheduledto.EntryOutput{{Start: "09:00", End: "10:00", Task: "Write report"}}}, nil
}
func (f *fakeSchedules) Show(context.Context, string, string) (scheduledto.ScheduleOutput, error) {
	return scheduledto.ScheduleOutput{}, nil
}

type fakeCompletion struct{}

func (fakeCompletion) Ping(context.Context) (completiondto.PingOutput, error) {
	return completiondto.PingOutput{Provider: "ollama", Model: "llama3"}, nil
}
func (fakeCompletion) History(context.Context, int) ([]completiondto.InteractionOutput, error) {
	return nil, nil
}

func newTestModel(t *testing.T) (Model, *fakeTasks, *fakeSchedules) {
	t.Helper()
	tasks := &fakeTasks{completed: map[string]int{}}
	schedules := &fakeSchedules{}
	m := NewModel(context.Background(), tasks, schedules, fakeCompletion{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	list, _ := tasks.List(context.Background(), 10, false)
	next, _ = m.Update(tasksview.TasksLoadedMsg{Tasks: list})
	return next.(Model), tasks, schedules
}

func submit(t *testing.T, m Model, input string) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(components.PaletteSubmitMsg{Input: input})
	if cmd == nil {
		return next.(Model), nil
	}
	return next.(Model), cmd()
}

func TestPaletteCompletesSelectedTask(t *testing.T) {
	t.Parallel()
	m, tasks, _ := newTestModel(t)
	m, msg := submit(t, m, "task:complete 50")
	if !m.busy {
		t.Fatalf("expected busy status while completing")
	}
	if tasks.completed["t1"] != 50 {
		t.Fatalf("expected selected task completed with 50 minutes, got %v", tasks.completed)
	}
	next, _ := m.Update(msg)
	m = next.(Model)
	if m.busy || !strings.Contains(m.status, "accuracy 8/10") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPaletteRejectsBadMinutes(t *testing.T) {
	t.Parallel()
	m, tasks, _ := newTestModel(t)
	m, msg := submit(t, m, "task:complete soon")
	if msg != nil || len(tasks.completed) != 0 {
		t.Fatalf("bad minutes must not reach the port")
	}
	if !strings.Contains(m.status, "positive number") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestPaletteSuggestSwitchesToSchedule(t *testing.T) {
	t.Parallel()
	m, _, schedules := newTestModel(t)
	m, msg := submit(t, m, "schedule:suggest offline Standup at 9am; Review PRs")
	if !schedules.last.Offline || len(schedules.last.Tasks) != 2 || schedules.last.IncludePending {
		t.Fatalf("unexpected suggest input %+v", schedules.last)
	}
	if schedules.last.Date != m.scheduleView.Date() {
		t.Fatalf("suggest must target the viewed date")
	}
	next, _ := m.Update(msg)
	m = next.(Model)
	if m.activeTab != tabSchedule || !strings.Contains(m.status, "1 blocks") {
		t.Fatalf("unexpected tab %d status %q", m.activeTab, m.status)
	}
}

func TestParseSuggestDefaultsToPending(t *testing.T) {
	t.Parallel()
	in := parseSuggest("", "2026-10-19")
	if !in.IncludePending || in.Offline || len(in.Tasks) != 0 || in.Date != "2026-10-19" {
		t.Fatalf("unexpected input %+v", in)
	}
	in = parseSuggest("pending Gym", "2026-10-19")
	if !in.IncludePending || len(in.Tasks) != 1 || in.Tasks[0] != "Gym" {
		t.Fatalf("unexpected input %+v", in)
	}
}

func TestPaletteUnknownCommand(t *testing.T) {
	t.Parallel()
	m, _, _ := newTestModel(t)
	m, _ = submit(t, m, "reader:open")
	if m.status != "unknown command: reader:open" {
		t.Fatalf("unexpected status %q", m.status)
	}
}
