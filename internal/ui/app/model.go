package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	completiondto "jarvis/internal/modules/completion/dto"
	scheduledto "jarvis/internal/modules/schedule/dto"
	taskdto "jarvis/internal/modules/task/dto"
	"jarvis/internal/ui/components"
	"jarvis/internal/ui/theme"
	historyview "jarvis/internal/ui/views/history"
	scheduleview "jarvis/internal/ui/views/schedule"
	tasksview "jarvis/internal/ui/views/tasks"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type taskPort interface {
	Add(ctx context.Context, input taskdto.TaskInput) (taskdto.TaskOutput, error)
	Analyze(ctx context.Context, input taskdto.TaskInput) (taskdto.AnalyzeOutput, error)
	Reanalyze(ctx context.Context, taskID string) (taskdto.AnalyzeOutput, error)
	List(ctx context.Context, limit int, pendingOnly bool) ([]taskdto.TaskOutput, error)
	Show(ctx context.Context, taskID string) (taskdto.TaskDetailOutput, error)
	Complete(ctx context.Context, taskID string, actualMinutes int) (taskdto.CompleteOutput, error)
	Delete(ctx context.Context, taskID string) error
}

type schedulePort interface {
	Suggest(ctx context.Context, input scheduledto.SuggestInput) (scheduledto.ScheduleOutput, error)
	Show(ctx context.Context, scheduleID, date string) (scheduledto.ScheduleOutput, error)
}

type completionPort interface {
	Ping(ctx context.Context) (completiondto.PingOutput, error)
	History(ctx context.Context, limit int) ([]completiondto.InteractionOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTasks tabID = iota
	tabSchedule
	tabHistory
	tabCount
)

var tabLabels = [tabCount]string{
	"Tasks", "Schedule", "History",
}

// ─── async messages ───────────────────────────────────────────────────────────

// taskChangedMsg reports a finished task mutation; the task list and the
// model history both go stale after one.
type taskChangedMsg struct {
	status string
	err    error
}

type suggestedMsg struct {
	out scheduledto.ScheduleOutput
	err error
}

type pingMsg struct {
	out completiondto.PingOutput
	err error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Reload  key.Binding
	Quit    key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		PrevDay: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous day")),
		NextDay: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Reload},
		{k.PrevDay, k.NextDay, k.Today},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the global help
// overlay, and the command palette. Business logic goes through the ports;
// rendering goes through the sub-views.
type Model struct {
	ctx context.Context

	tasks      taskPort
	schedules  schedulePort
	completion completionPort

	taskView     tasksview.Model
	scheduleView scheduleview.Model
	historyView  historyview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	busy      bool
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(ctx context.Context, tasks taskPort, schedules schedulePort, completion completionPort) Model {
	return Model{
		ctx:          ctx,
		tasks:        tasks,
		schedules:    schedules,
		completion:   completion,
		taskView:     tasksview.New(ctx, taskPortBridge{p: tasks}),
		scheduleView: scheduleview.New(ctx, schedulePortBridge{p: schedules}, time.Now),
		historyView:  historyview.New(ctx, completion),
		activeTab:    tabTasks,
		keys:         defaultKeys(),
		help:         help.New(),
		palette:      components.NewPalette(),
		status:       "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.taskView.Init(),
		m.scheduleView.Init(),
		m.historyView.Init(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case taskChangedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "error: " + msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		return m, tea.Batch(m.taskView.Reload(), m.historyView.Reload())

	case suggestedMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "schedule: " + msg.err.Error()
			return m, nil
		}
		m.scheduleView.Show(msg.out)
		m.activeTab = tabSchedule
		m.status = fmt.Sprintf("schedule for %s: %d blocks", msg.out.Date, len(msg.out.Entries))
		return m, m.historyView.Reload()

	case pingMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "ping: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("%s/%s replied in %s", msg.out.Provider, msg.out.Model, msg.out.Latency.Round(time.Millisecond))
		return m, m.historyView.Reload()

	// Loaded messages always reach their view, whichever tab is showing.
	case tasksview.TasksLoadedMsg, tasksview.DetailLoadedMsg:
		var cmd tea.Cmd
		m.taskView, cmd = m.taskView.Update(msg)
		return m, cmd
	case scheduleview.ScheduleLoadedMsg:
		var cmd tea.Cmd
		m.scheduleView, cmd = m.scheduleView.Update(msg)
		return m, cmd
	case historyview.HistoryLoadedMsg:
		var cmd tea.Cmd
		m.historyView, cmd = m.historyView.Update(msg)
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "r":
			return m, m.reloadActive()
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTasks:
		m.taskView, tabCmd = m.taskView.Update(msg)
	case tabSchedule:
		m.scheduleView, tabCmd = m.scheduleView.Update(msg)
	case tabHistory:
		m.historyView, tabCmd = m.historyView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	tabBarH := lipgloss.Height(tabBar)
	statusBarH := lipgloss.Height(statusBar)

	contentH := m.height - tabBarH - statusBarH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTasks:
		return m.taskView.View()
	case tabSchedule:
		return m.scheduleView.View()
	case tabHistory:
		return m.historyView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "jarvis  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.busy {
		left = theme.Hot.Render("● working") + "  " + left
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(input), parts[0]))
	selected, hasSelected := m.taskView.SelectedTaskID()

	switch parts[0] {
	case "task:add":
		if rest == "" {
			m.status = "usage: task:add <description>"
			return m, nil
		}
		return m.run("adding task…", m.addTaskCmd(rest))

	case "task:analyze":
		if rest == "" {
			m.status = "usage: task:analyze <description>"
			return m, nil
		}
		m.activeTab = tabTasks
		return m.run("asking the model…", m.analyzeCmd(rest))

	case "task:reanalyze":
		if !hasSelected {
			m.status = "no task selected"
			return m, nil
		}
		return m.run("asking the model…", m.reanalyzeCmd(selected))

	case "task:complete":
		if !hasSelected {
			m.status = "no task selected"
			return m, nil
		}
		if len(parts) < 2 {
			m.status = "usage: task:complete <minutes>"
			return m, nil
		}
		minutes, err := strconv.Atoi(parts[1])
		if err != nil || minutes <= 0 {
			m.status = "minutes must be a positive number"
			return m, nil
		}
		return m.run("completing…", m.completeCmd(selected, minutes))

	case "task:delete":
		if !hasSelected {
			m.status = "no task selected"
			return m, nil
		}
		return m.run("deleting…", m.deleteCmd(selected))

	case "schedule:suggest":
		return m.run("planning the day…", m.suggestCmd(parseSuggest(rest, m.scheduleView.Date())))

	case "schedule:date":
		if len(parts) < 2 {
			m.status = "usage: schedule:date <YYYY-MM-DD>"
			return m, nil
		}
		cmd, err := m.scheduleView.SetDate(parts[1])
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.activeTab = tabSchedule
		return m, cmd

	case "schedule:today":
		m.activeTab = tabSchedule
		return m, m.scheduleView.Today()

	case "model:ping":
		return m.run("pinging the model…", m.pingCmd())

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// parseSuggest reads `[pending] [offline] [task; task…]` for the given day.
// Without explicit tasks the pending backlog is planned.
func parseSuggest(args, date string) scheduledto.SuggestInput {
	in := scheduledto.SuggestInput{Date: date}
	words := strings.Fields(args)
flags:
	for len(words) > 0 {
		switch words[0] {
		case "pending":
			in.IncludePending = true
		case "offline":
			in.Offline = true
		default:
			break flags
		}
		words = words[1:]
	}
	for _, t := range strings.Split(strings.Join(words, " "), ";") {
		if t = strings.TrimSpace(t); t != "" {
			in.Tasks = append(in.Tasks, t)
		}
	}
	if len(in.Tasks) == 0 {
		in.IncludePending = true
	}
	return in
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) run(status string, cmd tea.Cmd) (tea.Model, tea.Cmd) {
	m.busy = true
	m.status = status
	return m, cmd
}

func (m Model) reloadActive() tea.Cmd {
	switch m.activeTab {
	case tabTasks:
		return m.taskView.Reload()
	case tabSchedule:
		return m.scheduleView.Reload()
	case tabHistory:
		return m.historyView.Reload()
	}
	return nil
}

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabTasks:
		return m.taskView.Filtering()
	case tabHistory:
		return m.historyView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.taskView, _ = m.taskView.Update(sz)
	m.scheduleView, _ = m.scheduleView.Update(sz)
	m.historyView, _ = m.historyView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) addTaskCmd(description string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tasks.Add(m.ctx, taskdto.TaskInput{Description: description})
		return taskChangedMsg{status: "added: " + out.Description, err: err}
	}
}

func (m Model) analyzeCmd(description string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tasks.Analyze(m.ctx, taskdto.TaskInput{Description: description})
		return taskChangedMsg{status: fmt.Sprintf("analyzed: %s (~%d min)", out.Task.Description, out.Analysis.DurationMinutes), err: err}
	}
}

func (m Model) reanalyzeCmd(taskID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tasks.Reanalyze(m.ctx, taskID)
		return taskChangedMsg{status: fmt.Sprintf("reanalyzed: %s (~%d min)", out.Task.Description, out.Analysis.DurationMinutes), err: err}
	}
}

func (m Model) completeCmd(taskID string, minutes int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.tasks.Complete(m.ctx, taskID, minutes)
		status := "completed: " + out.Task.Description
		if out.Estimate > 0 {
			status += fmt.Sprintf(" (estimate %d min, accuracy %d/10)", out.Estimate, out.AccuracyScore)
		}
		return taskChangedMsg{status: status, err: err}
	}
}

func (m Model) deleteCmd(taskID string) tea.Cmd {
	return func() tea.Msg {
		err := m.tasks.Delete(m.ctx, taskID)
		return taskChangedMsg{status: "deleted " + taskID, err: err}
	}
}

func (m Model) suggestCmd(in scheduledto.SuggestInput) tea.Cmd {
	return func() tea.Msg {
		out, err := m.schedules.Suggest(m.ctx, in)
		return suggestedMsg{out: out, err: err}
	}
}

func (m Model) pingCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.completion.Ping(m.ctx)
		return pingMsg{out: out, err: err}
	}
}

// ─── port bridges ─────────────────────────────────────────────────────────────
// Each bridge narrows a broad port interface to the minimal interface needed by
// a specific sub-view.

type taskPortBridge struct{ p taskPort }

func (b taskPortBridge) List(ctx context.Context, limit int, pendingOnly bool) ([]taskdto.TaskOutput, error) {
	return b.p.List(ctx, limit, pendingOnly)
}
func (b taskPortBridge) Show(ctx context.Context, taskID string) (taskdto.TaskDetailOutput, error) {
	return b.p.Show(ctx, taskID)
}

type schedulePortBridge struct{ p schedulePort }

func (b schedulePortBridge) Show(ctx context.Context, scheduleID, date string) (scheduledto.ScheduleOutput, error) {
	return b.p.Show(ctx, scheduleID, date)
}
