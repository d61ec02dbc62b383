package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	taskdto "jarvis/internal/modules/task/dto"
	"jarvis/internal/ui/theme"
)

const listLimit = 100

// ─── port ────────────────────────────────────────────────────────────────────

type TaskPort interface {
	List(ctx context.Context, limit int, pendingOnly bool) ([]taskdto.TaskOutput, error)
	Show(ctx context.Context, taskID string) (taskdto.TaskDetailOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type TasksLoadedMsg struct {
	Tasks []taskdto.TaskOutput
	Err   error
}

type DetailLoadedMsg struct {
	Detail taskdto.TaskDetailOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type taskItem struct {
	task taskdto.TaskOutput
}

func (i taskItem) Title() string {
	if i.task.Status == "completed" {
		return "✓ " + i.task.Description
	}
	return i.task.Description
}

func (i taskItem) Description() string {
	parts := []string{i.task.CreatedAt.Local().Format("Jan 02 15:04")}
	if i.task.DurationMinutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", i.task.DurationMinutes))
	}
	if i.task.Priority != "" {
		parts = append(parts, i.task.Priority)
	}
	return strings.Join(parts, "  ")
}

func (i taskItem) FilterValue() string { return i.task.Description }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	ctx     context.Context
	port    TaskPort
	list    list.Model
	detail  taskdto.TaskDetailOutput
	preview viewport.Model
	spinner spinner.Model
	loading bool
	width   int
	height  int
}

func New(ctx context.Context, port TaskPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Tasks"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		ctx:     ctx,
		port:    port,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.Reload(), m.spinner.Tick)
}

// Reload fetches the task list again.
func (m Model) Reload() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.port.List(m.ctx, listLimit, false)
		return TasksLoadedMsg{Tasks: tasks, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case TasksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Tasks: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Tasks"
		items := make([]list.Item, len(msg.Tasks))
		for i, t := range msg.Tasks {
			items[i] = taskItem{task: t}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if item, ok := m.list.SelectedItem().(taskItem); ok {
			cmds = append(cmds, m.loadDetailCmd(item.task.ID))
		} else {
			m.detail = taskdto.TaskDetailOutput{}
			m.preview.SetContent(m.renderDetail())
		}

	case DetailLoadedMsg:
		if msg.Err == nil {
			m.detail = msg.Detail
			m.preview.SetContent(m.renderDetail())
			m.preview.GotoTop()
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			if item, ok := m.list.SelectedItem().(taskItem); ok {
				cmds = append(cmds, m.loadDetailCmd(item.task.ID))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Loading tasks…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := theme.Pane.
		Width(detailW - 2).
		Height(m.height - 2).
		Padding(0).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedTaskID returns the highlighted task's ID, if any.
func (m Model) SelectedTaskID() (string, bool) {
	if item, ok := m.list.SelectedItem().(taskItem); ok {
		return item.task.ID, true
	}
	return "", false
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	t := m.detail.Task
	if t.ID == "" {
		return theme.Muted.Render("No tasks yet. Press : and type `analyze <task>`.")
	}
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(t.Description) + "\n\n")
	sb.WriteString(theme.Muted.Render("id:       ") + t.ID + "\n")
	sb.WriteString(theme.Muted.Render("status:   ") + t.Status + "\n")
	if t.DurationMinutes > 0 {
		sb.WriteString(fmt.Sprintf("%s%d min\n", theme.Muted.Render("estimate: "), t.DurationMinutes))
	}
	if t.Priority != "" {
		sb.WriteString(theme.Muted.Render("priority: ") + t.Priority + "\n")
	}
	if t.Energy != "" {
		sb.WriteString(theme.Muted.Render("energy:   ") + t.Energy + "\n")
	}
	if t.Status == "completed" {
		sb.WriteString(fmt.Sprintf("%s%d min\n", theme.Muted.Render("actual:   "), t.ActualMinutes))
	}
	for i, a := range m.detail.Analyses {
		label := "Analysis"
		if i > 0 {
			label = "Earlier analysis"
		}
		sb.WriteString("\n" + theme.Hot.Render(label) + theme.Muted.Render("  "+a.CreatedAt.Local().Format("Jan 02 15:04")) + "\n")
		sb.WriteString(fmt.Sprintf("%s %d min\n", theme.Muted.Render("duration:"), a.DurationMinutes))
		sb.WriteString(theme.Muted.Render("timing:   ") + a.Timing + "\n")
		sb.WriteString(theme.Muted.Render("prep:") + "\n")
		for n, step := range a.PrepSteps {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", n+1, step))
		}
		sb.WriteString(theme.Muted.Render("done when:") + "\n")
		for _, c := range a.SuccessCriteria {
			sb.WriteString("  • " + c + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render(":reanalyze  :complete <minutes>  :delete"))
	return sb.String()
}

func (m Model) loadDetailCmd(id string) tea.Cmd {
	return func() tea.Msg {
		detail, err := m.port.Show(m.ctx, id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}
